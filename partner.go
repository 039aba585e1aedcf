package xlbudget

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/expr-lang/expr"
)

// Partner ordinal bounds. P1 is the coordinator and has no overview row;
// the grant scheme caps consortia at 20 partners.
const (
	MinPartnerOrdinal = 2
	MaxPartnerOrdinal = 20
)

// ErrNoPartners reports a workbook with no partner sheets at all.
var ErrNoPartners = errors.New("no partner sheets found")

// Partner identifies one partner worksheet, keyed by its ordinal number.
type Partner struct {
	Ordinal int
	Sheet   string
}

// String formats the partner as "P2 (P2-Acme)".
func (p Partner) String() string {
	return fmt.Sprintf("P%d (%s)", p.Ordinal, p.Sheet)
}

// partnerSheetRe matches the partner sheet naming convention "P<ordinal>-<acronym>".
var partnerSheetRe = regexp.MustCompile(`^P([0-9]+)-`)

// ExtractPartnerOrdinal returns the partner ordinal encoded in a sheet name.
// Sheets follow the convention "P<ordinal>-<acronym>". Names that do not
// match, or whose ordinal falls outside [2,20], return false: non-partner
// sheets are expected and silently skipped, never an error.
func ExtractPartnerOrdinal(sheetName string) (int, bool) {
	m := partnerSheetRe.FindStringSubmatch(sheetName)
	if m == nil {
		return 0, false
	}
	ordinal, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if ordinal < MinPartnerOrdinal || ordinal > MaxPartnerOrdinal {
		return 0, false
	}
	return ordinal, true
}

// DiscoverPartners enumerates the document's sheets and returns every
// partner sheet ordered by ordinal ascending (ties broken by sheet name so
// audit reports are reproducible).
func DiscoverPartners(doc Document) []Partner {
	var partners []Partner
	for _, name := range doc.SheetNames() {
		if ordinal, ok := ExtractPartnerOrdinal(name); ok {
			partners = append(partners, Partner{Ordinal: ordinal, Sheet: name})
		}
	}
	sort.Slice(partners, func(i, j int) bool {
		if partners[i].Ordinal != partners[j].Ordinal {
			return partners[i].Ordinal < partners[j].Ordinal
		}
		return partners[i].Sheet < partners[j].Sheet
	})
	return partners
}

// OverviewSpec configures one overview sheet: where each partner's row goes.
// The destination row is ordinal+RowOffset, or, when RowExpr is set, the
// result of evaluating that expression with "ordinal" bound. RowExpr exists
// for overview layouts that are not a plain offset (e.g. a header block of
// varying height); it is configuration, never derived at runtime.
type OverviewSpec struct {
	Sheet     string `yaml:"sheet"`
	RowOffset int    `yaml:"row_offset"`
	RowExpr   string `yaml:"row_expr,omitempty"`
}

// rowFunc compiles the destination row mapping once per run.
func (o OverviewSpec) rowFunc() (func(ordinal int) (int, error), error) {
	if o.RowExpr == "" {
		offset := o.RowOffset
		return func(ordinal int) (int, error) {
			return ordinal + offset, nil
		}, nil
	}

	program, err := expr.Compile(o.RowExpr, expr.Env(map[string]any{"ordinal": 0}), expr.AsInt())
	if err != nil {
		return nil, fmt.Errorf("compile row expression %q: %w", o.RowExpr, err)
	}
	return func(ordinal int) (int, error) {
		out, err := expr.Run(program, map[string]any{"ordinal": ordinal})
		if err != nil {
			return 0, fmt.Errorf("evaluate row expression %q for P%d: %w", o.RowExpr, ordinal, err)
		}
		row, ok := out.(int)
		if !ok {
			return 0, fmt.Errorf("row expression %q returned %T, expected int", o.RowExpr, out)
		}
		return row, nil
	}, nil
}

// DestinationRow computes the overview row for a partner ordinal. For specs
// without a RowExpr this is the affine mapping ordinal+RowOffset.
func (o OverviewSpec) DestinationRow(ordinal int) (int, error) {
	fn, err := o.rowFunc()
	if err != nil {
		return 0, err
	}
	return fn(ordinal)
}
