package xlbudget

import (
	"strconv"
	"strings"
)

// Rewrite is the outcome of shifting a formula's relative row references.
// Anomalies lists rewritten references whose row landed outside the sheet
// bounds (non-positive or beyond MaxRows). Such references are produced
// verbatim rather than corrected; callers report them, they never evaluate.
type Rewrite struct {
	Formula   string
	Anomalies []string
}

// ShiftRows adds delta to the row component of every relative cell reference
// in formula and returns the re-serialized text. Absolute rows ("$" before
// the digits) and columns are never altered. A value that does not start
// with "=" is a literal and is returned unchanged. References appearing
// inside quoted string literals are left untouched.
func ShiftRows(formula string, delta int) string {
	return RewriteRows(formula, delta).Formula
}

// RewriteRows is ShiftRows plus anomaly detection on the rewritten rows.
func RewriteRows(formula string, delta int) Rewrite {
	if formula == "" || formula[0] != '=' {
		return Rewrite{Formula: formula}
	}

	var b strings.Builder
	b.Grow(len(formula) + 8)
	var anomalies []string

	n := len(formula)
	i := 0
	for i < n {
		switch c := formula[i]; {
		case c == '"':
			j := skipStringLiteral(formula, i)
			b.WriteString(formula[i:j])
			i = j
		case c == '\'':
			j := skipQuotedName(formula, i)
			b.WriteString(formula[i:j])
			i = j
		default:
			tok, end, ok := scanRefToken(formula, i)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			if tok.rowAbs {
				b.WriteString(formula[i:end])
				i = end
				continue
			}
			row, err := strconv.Atoi(tok.rowText)
			if err != nil {
				// Row digits overflow int; leave the reference alone.
				b.WriteString(formula[i:end])
				i = end
				continue
			}
			newRow := row + delta
			shifted := rebuildRef(tok, newRow)
			b.WriteString(shifted)
			if newRow < 1 || newRow > MaxRows {
				anomalies = append(anomalies, shifted)
			}
			i = end
		}
	}

	return Rewrite{Formula: b.String(), Anomalies: anomalies}
}

// refToken is one recognized reference candidate inside a formula.
type refToken struct {
	colAbs  bool
	col     string
	rowAbs  bool
	rowText string
}

func rebuildRef(tok refToken, row int) string {
	var b strings.Builder
	if tok.colAbs {
		b.WriteByte('$')
	}
	b.WriteString(tok.col)
	b.WriteString(strconv.Itoa(row))
	return b.String()
}

// scanRefToken tries to match `\$?[A-Z]{1,3}\$?[0-9]+` starting at i.
// A candidate must sit on an identifier boundary: the preceding byte may not
// be part of an identifier, and the byte after the digits may not continue
// one. A trailing "(" (function call, e.g. LOG10) or "!" (sheet qualifier)
// also disqualifies the match.
func scanRefToken(s string, i int) (refToken, int, bool) {
	if i > 0 && isIdentByte(s[i-1]) {
		return refToken{}, 0, false
	}

	var tok refToken
	j := i
	n := len(s)

	if j < n && s[j] == '$' {
		tok.colAbs = true
		j++
	}

	colStart := j
	for j < n && s[j] >= 'A' && s[j] <= 'Z' {
		j++
	}
	if j == colStart || j-colStart > 3 {
		return refToken{}, 0, false
	}
	tok.col = s[colStart:j]

	if j < n && s[j] == '$' {
		tok.rowAbs = true
		j++
	}

	rowStart := j
	for j < n && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == rowStart {
		return refToken{}, 0, false
	}
	tok.rowText = s[rowStart:j]

	if j < n {
		next := s[j]
		if isIdentByte(next) || next == '(' || next == '!' {
			return refToken{}, 0, false
		}
	}

	return tok, j, true
}

func isIdentByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') || b == '_' || b == '$'
}

// skipStringLiteral advances past a double-quoted formula string literal
// starting at i. A doubled quote ("") is the escape for a literal quote.
func skipStringLiteral(s string, i int) int {
	j := i + 1
	for j < len(s) {
		if s[j] == '"' {
			if j+1 < len(s) && s[j+1] == '"' {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return j // unterminated literal runs to end of formula
}

// skipQuotedName advances past a single-quoted sheet name starting at i.
func skipQuotedName(s string, i int) int {
	j := i + 1
	for j < len(s) {
		if s[j] == '\'' {
			if j+1 < len(s) && s[j+1] == '\'' {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return j
}
