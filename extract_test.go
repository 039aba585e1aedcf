package xlbudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPartner(t *testing.T) {
	doc := newFakeDocument("P2-Acme")
	doc.set("P2-Acme", "C18", FormulaValue("=SUM(A1:A10)"))
	doc.set("P2-Acme", "D20", LiteralValue("5000"))

	table := mustTable(t,
		CellMapping{SourceCell: "C18", DestColumn: "C"},
		CellMapping{SourceCell: "D20", DestColumn: "D"},
	)
	partner := Partner{Ordinal: 2, Sheet: "P2-Acme"}

	cells := extractPartner(doc, partner, table, 6)
	require.Len(t, cells, 2)

	assert.Equal(t, "C18", cells[0].SourceCell)
	assert.Equal(t, "C6", cells[0].DestCell)
	assert.Equal(t, -12, cells[0].RowDelta)
	assert.True(t, cells[0].Value.IsFormula)
	assert.Equal(t, "=SUM(A1:A10)", cells[0].Value.Value)
	assert.NoError(t, cells[0].Err)

	assert.Equal(t, "D20", cells[1].SourceCell)
	assert.Equal(t, "D6", cells[1].DestCell)
	assert.Equal(t, -14, cells[1].RowDelta)
	assert.False(t, cells[1].Value.IsFormula)
	assert.Equal(t, "5000", cells[1].Value.Value)
}

func TestExtractPartner_BlankCell(t *testing.T) {
	doc := newFakeDocument("P4-Gamma")
	table := mustTable(t, CellMapping{SourceCell: "C18", DestColumn: "C"})

	cells := extractPartner(doc, Partner{Ordinal: 4, Sheet: "P4-Gamma"}, table, 8)
	require.Len(t, cells, 1)
	assert.NoError(t, cells[0].Err)
	assert.Equal(t, "", cells[0].Value.Value)
	assert.False(t, cells[0].Value.IsFormula)
}

func TestExtractPartner_ReadFailureContinues(t *testing.T) {
	doc := newFakeDocument("P2-Acme")
	doc.set("P2-Acme", "D20", LiteralValue("42"))
	doc.failReads["P2-Acme!C18"] = true

	table := mustTable(t,
		CellMapping{SourceCell: "C18", DestColumn: "C"},
		CellMapping{SourceCell: "D20", DestColumn: "D"},
	)

	cells := extractPartner(doc, Partner{Ordinal: 2, Sheet: "P2-Acme"}, table, 6)
	require.Len(t, cells, 2, "a failed cell must not abort the partner")
	assert.Error(t, cells[0].Err)
	assert.Equal(t, CellValue{}, cells[0].Value)
	assert.NoError(t, cells[1].Err)
	assert.Equal(t, "42", cells[1].Value.Value)
}
