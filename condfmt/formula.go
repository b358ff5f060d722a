package condfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// threshold is a constant rule formula: a signed number or quoted string,
// optionally parenthesised.
type threshold struct {
	Sign   string     `@("-" | "+")?`
	Group  *threshold `( "(" @@ ")"`
	Number *float64   `| @Number`
	String *string    `| @String )`
}

var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`},
	{Name: "String", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Punct", Pattern: `[-+()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var formulaParser = participle.MustBuild[threshold](
	participle.Lexer(formulaLexer),
	participle.Elide("Whitespace"),
)

// ParseThreshold evaluates a rule formula to a number. Cell references,
// function calls and non-numeric strings are rejected.
func ParseThreshold(formula string) (float64, error) {
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	th, err := formulaParser.ParseString("", formula)
	if err != nil {
		return 0, fmt.Errorf("failed to parse formula %q: %w", formula, err)
	}
	return th.value()
}

func (t *threshold) value() (float64, error) {
	var v float64
	switch {
	case t.Group != nil:
		inner, err := t.Group.value()
		if err != nil {
			return 0, err
		}
		v = inner
	case t.Number != nil:
		v = *t.Number
	case t.String != nil:
		s := strings.ReplaceAll(strings.Trim(*t.String, `"`), `""`, `"`)
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric threshold %q", s)
		}
		v = n
	}
	if t.Sign == "-" {
		v = -v
	}
	return v, nil
}
