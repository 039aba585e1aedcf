package xlbudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftRows_LiteralPassThrough(t *testing.T) {
	for _, literal := range []string{"", "100", "hello", "Cell A1", "SUM(A1)", "-42"} {
		for _, delta := range []int{-12, -1, 0, 1, 7} {
			assert.Equal(t, literal, ShiftRows(literal, delta), "literal %q delta %d", literal, delta)
		}
	}
}

func TestShiftRows_AbsoluteRowsUntouched(t *testing.T) {
	for _, formula := range []string{"=$A$1+$B$1", "=A$1*2", "=SUM($C$18:$C$20)"} {
		for _, delta := range []int{-100, -1, 1, 50} {
			assert.Equal(t, formula, ShiftRows(formula, delta), "formula %q delta %d", formula, delta)
		}
	}
}

func TestShiftRows_RelativeRows(t *testing.T) {
	tests := []struct {
		formula string
		delta   int
		want    string
	}{
		{"=A1", 3, "=A4"},
		{"=A1+B2", 1, "=A2+B3"},
		{"=SUM(A1:A10)", 2, "=SUM(A3:A12)"},
		{"=SUM(A1:A10)", -12, "=SUM(A-11:A-2)"},
		{"=$A1", 2, "=$A3"},      // absolute column, relative row still shifts
		{"=A$1+B2", 5, "=A$1+B7"}, // each reference judged on its own
		{"=C18*0.25", -12, "=C6*0.25"},
		{"=IF(D4>0,D4,0)", 10, "=IF(D14>0,D14,0)"},
		{"=SUM( A1 , B2 )", 1, "=SUM( A2 , B3 )"},
		{"=LOG10(A1)", 1, "=LOG10(A2)"}, // function names ending in digits are not references
		{"=AB1!C3", 5, "=AB1!C8"},       // sheet qualifier left alone, cell shifted
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShiftRows(tt.formula, tt.delta), "formula %q delta %d", tt.formula, tt.delta)
	}
}

func TestShiftRows_StringLiteralsUntouched(t *testing.T) {
	tests := []struct {
		formula string
		delta   int
		want    string
	}{
		{`="Cell A1"`, 5, `="Cell A1"`},
		{`="Cell A1"&B2`, 1, `="Cell A1"&B3`},
		{`=IF(A1>0,"A1 is positive","see B2")`, 2, `=IF(A3>0,"A1 is positive","see B2")`},
		{`="escaped ""A1"" here"&C3`, 1, `="escaped ""A1"" here"&C4`},
		{`='Notes A1'!B2+B2`, 1, `='Notes A1'!B3+B3`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShiftRows(tt.formula, tt.delta), "formula %q", tt.formula)
	}
}

func TestShiftRows_RoundTrip(t *testing.T) {
	formulas := []string{
		"=A10+B20",
		"=SUM(C18:C25)*0.5",
		`=IF(D4>100,"over","under")&E5`,
		"=(A2+B2)/C2",
	}
	for _, formula := range formulas {
		for _, delta := range []int{1, 3, 9} {
			shifted := ShiftRows(formula, delta)
			assert.Equal(t, formula, ShiftRows(shifted, -delta), "round trip %q delta %d", formula, delta)
		}
	}
}

func TestShiftRows_ZeroDelta(t *testing.T) {
	formula := `=SUM(A1:A10)+$B$2&"A1"`
	assert.Equal(t, formula, ShiftRows(formula, 0))
}

func TestRewriteRows_Anomalies(t *testing.T) {
	rw := RewriteRows("=SUM(A1:A10)", -12)
	assert.Equal(t, "=SUM(A-11:A-2)", rw.Formula)
	assert.Equal(t, []string{"A-11", "A-2"}, rw.Anomalies)

	rw = RewriteRows("=C18", -12)
	assert.Equal(t, "=C6", rw.Formula)
	assert.Empty(t, rw.Anomalies)

	rw = RewriteRows("=A5", -5)
	assert.Equal(t, "=A0", rw.Formula)
	assert.Equal(t, []string{"A0"}, rw.Anomalies)

	rw = RewriteRows("=A1048570", 10)
	assert.Equal(t, []string{"A1048580"}, rw.Anomalies)
}
