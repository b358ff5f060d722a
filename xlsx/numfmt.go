package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// builtinFormats are the predefined number formats that change how a value
// is displayed. Ids not listed render as General.
var builtinFormats = map[int]string{
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

var numberPrinter = message.NewPrinter(language.English)

// excelEpoch is day zero of the 1900 date system, shifted to absorb the
// fictitious 29 February 1900.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// formatNumber renders v the way the cell's number format displays it.
// Dates are written in ISO 8601 form; other codes honour decimals,
// grouping, percent, scientific notation and literal affixes.
func formatNumber(v float64, st cellStyle) string {
	code := st.format
	if code == "" {
		code = builtinFormats[st.numFmtID]
	}
	if code == "" || strings.EqualFold(code, "General") || code == "@" {
		return formatGeneral(v)
	}

	sections := strings.Split(code, ";")
	section := sections[0]
	negative := v < 0
	if negative && len(sections) > 1 && strings.TrimSpace(sections[1]) != "" {
		section = sections[1]
		v = -v
		negative = false
	}

	tokens := scanFormat(section)
	if tokens.date {
		return formatDate(v, tokens)
	}
	if !tokens.numeric {
		return formatGeneral(v)
	}

	if tokens.percent {
		v *= 100
	}
	var body string
	switch {
	case tokens.scientific:
		body = strconv.FormatFloat(v, 'E', tokens.decimals, 64)
	case tokens.grouping:
		body = numberPrinter.Sprintf("%."+strconv.Itoa(tokens.decimals)+"f", v)
	default:
		body = strconv.FormatFloat(v, 'f', tokens.decimals, 64)
	}
	if negative && !strings.HasPrefix(body, "-") {
		body = "-" + body
	}
	return strings.TrimSpace(tokens.prefix + body + tokens.suffix)
}

// formatGeneral prints up to fifteen significant digits without trailing
// zeros.
func formatGeneral(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// formatTokens is what scanFormat learns from one format section.
type formatTokens struct {
	numeric    bool
	date       bool
	hasDate    bool
	hasTime    bool
	seconds    bool
	percent    bool
	grouping   bool
	scientific bool
	decimals   int
	prefix     string
	suffix     string
}

func scanFormat(section string) formatTokens {
	var (
		t         formatTokens
		literal   strings.Builder
		afterDot  bool
		seenDigit bool
	)
	flush := func() {
		if seenDigit {
			t.suffix += literal.String()
		} else {
			t.prefix += literal.String()
		}
		literal.Reset()
	}

	for i := 0; i < len(section); i++ {
		c := section[i]
		switch {
		case c == '"':
			end := strings.IndexByte(section[i+1:], '"')
			if end < 0 {
				end = len(section) - i - 1
			}
			literal.WriteString(section[i+1 : i+1+end])
			i += end + 1
		case c == '\\' && i+1 < len(section):
			literal.WriteByte(section[i+1])
			i++
		case c == '_' || c == '*':
			i++ // padding and fill take the next character
		case c == '[':
			end := strings.IndexByte(section[i:], ']')
			if end < 0 {
				i = len(section)
				break
			}
			inner := strings.ToLower(section[i+1 : i+end])
			if symbol, ok := strings.CutPrefix(section[i+1:i+end], "$"); ok {
				symbol, _, _ = strings.Cut(symbol, "-")
				literal.WriteString(symbol)
			} else if strings.HasPrefix(inner, "h") || strings.HasPrefix(inner, "m") || strings.HasPrefix(inner, "s") {
				t.date, t.hasTime = true, true
			}
			i += end
		case c == '0' || c == '#' || c == '?':
			if !seenDigit {
				flush()
			}
			seenDigit = true
			t.numeric = true
			if afterDot {
				t.decimals++
			}
			literal.Reset()
		case c == '.' && t.numeric:
			afterDot = true
		case c == ',' && t.numeric:
			if !afterDot {
				t.grouping = true
			}
		case c == '%':
			t.percent = true
			literal.WriteByte(c)
		case (c == 'E' || c == 'e') && i+1 < len(section) && (section[i+1] == '+' || section[i+1] == '-'):
			t.scientific = true
			afterDot = false
			i++
			for i+1 < len(section) && (section[i+1] == '0' || section[i+1] == '#') {
				i++
			}
		case strings.IndexByte("yYdD", c) >= 0:
			t.date, t.hasDate = true, true
		case strings.IndexByte("hH", c) >= 0:
			t.date, t.hasTime = true, true
		case strings.IndexByte("sS", c) >= 0:
			t.date, t.hasTime, t.seconds = true, true, true
		case c == 'm' || c == 'M':
			t.date = true
		default:
			literal.WriteByte(c)
		}
	}
	if seenDigit {
		t.suffix += literal.String()
	}
	if t.date && !t.hasTime {
		t.hasDate = true
	}
	return t
}

func formatDate(serial float64, t formatTokens) string {
	if serial < 0 {
		return formatGeneral(serial)
	}
	ms := math.Round(serial * 24 * 60 * 60 * 1000)
	when := excelEpoch.Add(time.Duration(ms) * time.Millisecond)

	layout := ""
	if t.hasDate {
		layout = "2006-01-02"
	}
	if t.hasTime {
		clock := "15:04"
		if t.seconds {
			clock = "15:04:05"
		}
		if layout != "" {
			layout += " "
		}
		layout += clock
	}
	return when.Format(layout)
}
