package typst

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// markupSpecial lists the characters that carry meaning somewhere in
// Typst markup. Each is written with a backslash escape.
const markupSpecial = "\\*_`$#[]<>@=+-/~\"'"

// normalize returns s in Unicode canonical composition form.
func normalize(s string) string {
	return norm.NFC.String(s)
}

// escapeText renders plain text as Typst markup. Line feeds become
// #linebreak(), tabs a fixed horizontal space, and other control
// characters are dropped. A '(' or '.' at the start of s, or right after
// an emitted call, is escaped so it is not read as that call's
// continuation.
func escapeText(s string) string {
	s = normalize(s)
	var sb strings.Builder
	sb.Grow(len(s))
	afterCall := true
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteString("#linebreak()")
			afterCall = true
			continue
		case r == '\t':
			sb.WriteString("#h(2em)")
			afterCall = true
			continue
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(markupSpecial, r):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case afterCall && (r == '(' || r == '.'):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
		afterCall = false
	}
	return sb.String()
}

// quote renders s as a Typst string literal.
func quote(s string) string {
	s = normalize(s)
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// num formats a number with at most two decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// pt formats a length in points.
func pt(v float64) string {
	return num(v) + "pt"
}
