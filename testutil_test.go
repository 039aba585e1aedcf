package xlbudget

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// quietLogger discards log output so test runs stay readable.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDocument is an in-memory Document for exercising failure paths the
// excelize backend cannot produce on demand.
type fakeDocument struct {
	sheets     []string
	cells      map[string]CellValue
	failReads  map[string]bool
	failWrites map[string]bool
	writes     int
}

func newFakeDocument(sheets ...string) *fakeDocument {
	return &fakeDocument{
		sheets:     sheets,
		cells:      make(map[string]CellValue),
		failReads:  make(map[string]bool),
		failWrites: make(map[string]bool),
	}
}

func cellKey(sheet, cell string) string { return sheet + "!" + cell }

func (d *fakeDocument) set(sheet, cell string, v CellValue) {
	d.cells[cellKey(sheet, cell)] = v
}

func (d *fakeDocument) get(sheet, cell string) CellValue {
	return d.cells[cellKey(sheet, cell)]
}

func (d *fakeDocument) SheetNames() []string { return d.sheets }

func (d *fakeDocument) GetCell(sheet, cell string) (CellValue, error) {
	key := cellKey(sheet, cell)
	if d.failReads[key] {
		return CellValue{}, fmt.Errorf("read refused for %s", key)
	}
	return d.cells[key], nil // missing cells read as blank literals
}

func (d *fakeDocument) SetCell(sheet, cell string, v CellValue) error {
	key := cellKey(sheet, cell)
	if d.failWrites[key] {
		return fmt.Errorf("write refused for %s", key)
	}
	d.cells[key] = v
	d.writes++
	return nil
}

func (d *fakeDocument) Save() error { return nil }

// newBudgetWorkbook builds the canonical two-partner test workbook:
// an empty "Overview" sheet, P2-Acme with a formula in C18 and P3-Univ with
// a literal in C18.
func newBudgetWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Overview"))

	_, err := f.NewSheet("P2-Acme")
	require.NoError(t, err)
	require.NoError(t, f.SetCellFormula("P2-Acme", "C18", "SUM(A1:A10)"))

	_, err = f.NewSheet("P3-Univ")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("P3-Univ", "C18", "100"))

	return f
}

// mustTable builds a mapping table or fails the test.
func mustTable(t *testing.T, mappings ...CellMapping) *MappingTable {
	t.Helper()
	table, err := NewMappingTable(mappings)
	require.NoError(t, err)
	return table
}
