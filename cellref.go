package xlbudget

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Worksheet bounds for the xlsx grid. Column 16384 is "XFD".
const (
	MaxRows = 1_048_576
	MaxCols = 16_384
)

// ErrInvalidReference reports a malformed or out-of-bounds cell reference.
var ErrInvalidReference = errors.New("invalid cell reference")

// CellRef is a single parsed cell reference. Row and Col are 0-based; the
// absolute flags record whether the component was pinned with a "$" marker.
// A CellRef is immutable once constructed by ParseCellRef.
type CellRef struct {
	Col    int
	Row    int
	ColAbs bool
	RowAbs bool
}

// NewCellRef creates a relative CellRef with explicit 0-based row and column.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// ParseCellRef parses a reference string like "A1", "$C$18" or "b5" into a
// CellRef. Input is normalized to uppercase. It rejects empty or malformed
// strings, row 0, columns beyond "XFD" and rows beyond 1,048,576.
func ParseCellRef(raw string) (CellRef, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return CellRef{}, fmt.Errorf("%w: empty string", ErrInvalidReference)
	}

	var ref CellRef
	i := 0

	if s[i] == '$' {
		ref.ColAbs = true
		i++
	}

	colStart := i
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == colStart {
		return CellRef{}, fmt.Errorf("%w %q: missing column letters", ErrInvalidReference, raw)
	}
	if i-colStart > 3 {
		return CellRef{}, fmt.Errorf("%w %q: column name longer than 3 letters", ErrInvalidReference, raw)
	}
	col, err := NameToCol(s[colStart:i])
	if err != nil {
		return CellRef{}, fmt.Errorf("%w %q: %v", ErrInvalidReference, raw, err)
	}
	if col >= MaxCols {
		return CellRef{}, fmt.Errorf("%w %q: column beyond XFD", ErrInvalidReference, raw)
	}
	ref.Col = col

	if i < len(s) && s[i] == '$' {
		ref.RowAbs = true
		i++
	}

	rowStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == rowStart || i != len(s) {
		return CellRef{}, fmt.Errorf("%w %q: malformed row component", ErrInvalidReference, raw)
	}
	row, err := strconv.Atoi(s[rowStart:])
	if err != nil {
		return CellRef{}, fmt.Errorf("%w %q: %v", ErrInvalidReference, raw, err)
	}
	if row < 1 {
		return CellRef{}, fmt.Errorf("%w %q: row must be positive", ErrInvalidReference, raw)
	}
	if row > MaxRows {
		return CellRef{}, fmt.Errorf("%w %q: row beyond %d", ErrInvalidReference, raw, MaxRows)
	}
	ref.Row = row - 1

	return ref, nil
}

// Name serializes the reference back to "A1" form, including any "$" markers.
func (c CellRef) Name() string {
	var b strings.Builder
	if c.ColAbs {
		b.WriteByte('$')
	}
	b.WriteString(ColToName(c.Col))
	if c.RowAbs {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(c.Row + 1))
	return b.String()
}

// String implements fmt.Stringer.
func (c CellRef) String() string { return c.Name() }

// RowNumber returns the 1-based row number.
func (c CellRef) RowNumber() int { return c.Row + 1 }

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++ // convert to 1-based for algorithm
	for col > 0 {
		col-- // adjust for 0-indexed letter
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// AreaRef is a rectangular range defined by two cell references.
type AreaRef struct {
	First CellRef
	Last  CellRef
}

// ParseAreaRef parses a range string like "A1:C5". Each side of the colon is
// parsed independently.
func ParseAreaRef(raw string) (AreaRef, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return AreaRef{}, fmt.Errorf("%w %q: missing ':'", ErrInvalidReference, raw)
	}
	first, err := ParseCellRef(parts[0])
	if err != nil {
		return AreaRef{}, err
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return AreaRef{}, err
	}
	return AreaRef{First: first, Last: last}, nil
}

// String formats the AreaRef as "A1:C5".
func (a AreaRef) String() string {
	return a.First.Name() + ":" + a.Last.Name()
}
