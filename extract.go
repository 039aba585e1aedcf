package xlbudget

// ExtractedCell is one source cell read from a partner sheet, tagged with
// its origin and computed destination. A read failure sets Err and leaves
// Value zero; extraction of sibling cells continues regardless.
type ExtractedCell struct {
	Partner    Partner
	SourceCell string
	DestCell   string
	RowDelta   int
	Value      CellValue
	Err        error
}

// extractPartner reads every mapped source cell from one partner sheet.
// destRow is the 1-based overview row already computed for this partner;
// each cell's RowDelta is the shift its formula text needs, i.e. the
// destination row minus the source cell's own row.
func extractPartner(doc Document, p Partner, table *MappingTable, destRow int) []ExtractedCell {
	cells := make([]ExtractedCell, 0, len(table.entries))
	for _, e := range table.entries {
		ec := ExtractedCell{
			Partner:    p,
			SourceCell: e.src.Name(),
			DestCell:   e.destCell(destRow),
			RowDelta:   destRow - e.src.RowNumber(),
		}
		v, err := doc.GetCell(p.Sheet, ec.SourceCell)
		if err != nil {
			ec.Err = err
		} else {
			ec.Value = v
		}
		cells = append(cells, ec)
	}
	return cells
}
