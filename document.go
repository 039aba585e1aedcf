package xlbudget

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellValue is the raw content of a cell: either formula text (carrying the
// leading "=") or a literal. An empty literal represents a blank cell.
type CellValue struct {
	Value     string
	IsFormula bool
}

// FormulaValue wraps formula text into a CellValue, adding the "=" marker if
// it is missing.
func FormulaValue(formula string) CellValue {
	if formula != "" && formula[0] != '=' {
		formula = "=" + formula
	}
	return CellValue{Value: formula, IsFormula: true}
}

// LiteralValue wraps a literal into a CellValue.
func LiteralValue(v string) CellValue {
	return CellValue{Value: v}
}

// String renders the value for display and audit records.
func (v CellValue) String() string { return v.Value }

// Document abstracts the spreadsheet workbook the engine reads and mutates.
// The engine never touches file formats directly; implementations are not
// required to be safe for concurrent use.
type Document interface {
	// SheetNames returns all worksheet names in workbook order.
	SheetNames() []string
	// GetCell returns the raw content of a cell: formula text if the cell
	// holds a formula, otherwise its literal value.
	GetCell(sheet, cell string) (CellValue, error)
	// SetCell writes a formula or literal into a cell.
	SetCell(sheet, cell string, v CellValue) error
	// Save persists the workbook to its backing storage.
	Save() error
}

// ExcelizeDocument adapts an excelize workbook to the Document interface.
type ExcelizeDocument struct {
	file *excelize.File
	path string
}

// OpenDocument opens an xlsx file as a Document.
func OpenDocument(path string) (*ExcelizeDocument, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return &ExcelizeDocument{file: f, path: path}, nil
}

// NewExcelizeDocument wraps an already-open excelize file. Save writes back
// to path; with an empty path Save delegates to the file's own origin.
func NewExcelizeDocument(f *excelize.File, path string) *ExcelizeDocument {
	return &ExcelizeDocument{file: f, path: path}
}

// SheetNames returns all worksheet names in workbook order.
func (d *ExcelizeDocument) SheetNames() []string {
	return d.file.GetSheetList()
}

// GetCell reads a cell's raw content, preferring formula text over the
// cached computed value.
func (d *ExcelizeDocument) GetCell(sheet, cell string) (CellValue, error) {
	formula, err := d.file.GetCellFormula(sheet, cell)
	if err != nil {
		return CellValue{}, fmt.Errorf("read %s!%s: %w", sheet, cell, err)
	}
	if formula != "" {
		return FormulaValue(formula), nil
	}
	val, err := d.file.GetCellValue(sheet, cell)
	if err != nil {
		return CellValue{}, fmt.Errorf("read %s!%s: %w", sheet, cell, err)
	}
	return LiteralValue(val), nil
}

// SetCell writes a formula or literal into a cell.
func (d *ExcelizeDocument) SetCell(sheet, cell string, v CellValue) error {
	if v.IsFormula {
		if err := d.file.SetCellFormula(sheet, cell, strings.TrimPrefix(v.Value, "=")); err != nil {
			return fmt.Errorf("write formula %s!%s: %w", sheet, cell, err)
		}
		return nil
	}
	if err := d.file.SetCellValue(sheet, cell, v.Value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Save persists the workbook.
func (d *ExcelizeDocument) Save() error {
	if d.path != "" {
		return d.file.SaveAs(d.path)
	}
	return d.file.Save()
}

// SaveAs persists the workbook to a new path.
func (d *ExcelizeDocument) SaveAs(path string) error {
	return d.file.SaveAs(path)
}

// Close closes the underlying excelize file.
func (d *ExcelizeDocument) Close() error {
	return d.file.Close()
}

// File returns the underlying excelize file for advanced operations.
func (d *ExcelizeDocument) File() *excelize.File {
	return d.file
}
