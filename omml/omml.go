// Package omml lowers Office Math Markup (m:oMath, m:oMathPara) to Typst
// math notation.
package omml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Convert lowers a math fragment to Typst math notation, without the
// surrounding dollar signs. Equation rows of m:oMathPara and m:eqArr are
// joined with a line break.
func Convert(data []byte) (string, error) {
	c := NewConverter()
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decoding math: %w", err)
		}
		c.step(tok)
	}
	return c.Result(), nil
}

// argument elements whose output is handed to the enclosing structure by
// name rather than appended to its body.
var argNames = map[string]bool{
	"e": true, "num": true, "den": true, "sup": true, "sub": true,
	"deg": true, "fName": true, "lim": true, "mr": true, "oMath": true,
}

// frame is one open element.
type frame struct {
	name  string
	prop  bool // inside a property element; content ignored
	props map[string]string
	args  map[string][]string
	buf   strings.Builder
}

func (f *frame) arg(name string) string {
	return strings.Join(f.args[name], " ")
}

func (f *frame) has(prop string) bool {
	_, ok := f.props[prop]
	return ok
}

func (f *frame) flag(prop string) bool {
	v, ok := f.props[prop]
	if !ok {
		return false
	}
	return v != "0" && v != "off" && v != "false"
}

func (f *frame) append(s string) {
	if s == "" {
		return
	}
	if f.buf.Len() > 0 {
		f.buf.WriteByte(' ')
	}
	f.buf.WriteString(s)
}

// Converter is the math state machine: a stack of open elements, each
// rendered when it closes.
type Converter struct {
	stack []*frame
}

// NewConverter returns a converter with an empty root frame.
func NewConverter() *Converter {
	return &Converter{stack: []*frame{newFrame("")}}
}

func newFrame(name string) *frame {
	return &frame{name: name, props: map[string]string{}, args: map[string][]string{}}
}

func (c *Converter) top() *frame {
	return c.stack[len(c.stack)-1]
}

func (c *Converter) step(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		parent := c.top()
		f := newFrame(t.Name.Local)
		switch {
		case parent.prop:
			f.prop = true
			// Direct children of a property element configure the
			// structure that owns it.
			if len(c.stack) >= 2 && !c.stack[len(c.stack)-2].prop {
				owner := c.stack[len(c.stack)-2]
				val, ok := attrVal(t)
				if !ok {
					val = "1"
				}
				owner.props[t.Name.Local] = val
			}
		case strings.HasSuffix(t.Name.Local, "Pr"):
			f.prop = true
		}
		c.stack = append(c.stack, f)
	case xml.CharData:
		if f := c.top(); f.name == "t" && !f.prop {
			f.buf.Write(t)
		}
	case xml.EndElement:
		if len(c.stack) == 1 {
			return
		}
		f := c.top()
		c.stack = c.stack[:len(c.stack)-1]
		if f.prop {
			return
		}
		parent := c.top()
		out := render(f)
		if argNames[f.name] {
			parent.args[f.name] = append(parent.args[f.name], out)
			return
		}
		parent.append(out)
	}
}

// Result returns the notation gathered so far.
func (c *Converter) Result() string {
	return strings.TrimSpace(renderRoot(c.stack[0]))
}

func renderRoot(f *frame) string {
	parts := append([]string{}, f.args["oMath"]...)
	if body := f.buf.String(); body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, ` \ `)
}

func render(f *frame) string {
	body := f.buf.String()
	switch f.name {
	case "t":
		return mathText(body)
	case "r", "e", "num", "den", "sup", "sub", "deg", "fName", "lim":
		return body
	case "oMath", "box", "borderBox", "phant":
		return join(body, f.arg("e"))
	case "oMathPara":
		return strings.Join(f.args["oMath"], ` \ `)
	case "f":
		if f.props["type"] == "lin" {
			return f.arg("num") + ` \/ ` + f.arg("den")
		}
		return fmt.Sprintf("frac(%s, %s)", orEmpty(f.arg("num")), orEmpty(f.arg("den")))
	case "sSup":
		return script(f.arg("e"), "^", f.arg("sup"))
	case "sSub":
		return script(f.arg("e"), "_", f.arg("sub"))
	case "sSubSup":
		return script(script(f.arg("e"), "_", f.arg("sub")), "^", f.arg("sup"))
	case "sPre":
		return fmt.Sprintf("attach(%s, tl: %s, bl: %s)", orEmpty(f.arg("e")), orEmpty(f.arg("sup")), orEmpty(f.arg("sub")))
	case "rad":
		deg := f.arg("deg")
		if f.flag("degHide") || deg == "" {
			return fmt.Sprintf("sqrt(%s)", orEmpty(f.arg("e")))
		}
		return fmt.Sprintf("root(%s, %s)", deg, orEmpty(f.arg("e")))
	case "d":
		return delimited(f)
	case "nary":
		return nary(f)
	case "func":
		return function(f.arg("fName"), f.arg("e"))
	case "acc":
		return accent(f)
	case "bar":
		if f.props["pos"] == "top" {
			return fmt.Sprintf("overline(%s)", orEmpty(f.arg("e")))
		}
		return fmt.Sprintf("underline(%s)", orEmpty(f.arg("e")))
	case "groupChr":
		if f.props["pos"] == "top" {
			return fmt.Sprintf("overbrace(%s)", orEmpty(f.arg("e")))
		}
		return fmt.Sprintf("underbrace(%s)", orEmpty(f.arg("e")))
	case "limLow":
		return script(limitsBase(f.arg("e")), "_", f.arg("lim"))
	case "limUpp":
		return script(limitsBase(f.arg("e")), "^", f.arg("lim"))
	case "eqArr":
		return strings.Join(f.args["e"], ` \ `)
	case "m":
		return fmt.Sprintf("mat(%s)", strings.Join(f.args["mr"], "; "))
	case "mr":
		return strings.Join(f.args["e"], ", ")
	default:
		return join(body, f.arg("e"))
	}
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func orEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}

// script attaches a sub- or superscript, grouping bodies longer than one
// character.
func script(base, op, body string) string {
	base = orEmpty(base)
	if body == "" {
		return base
	}
	if utf8.RuneCountInString(body) == 1 {
		return base + op + body
	}
	return base + op + "(" + body + ")"
}

func limitsBase(base string) string {
	if knownFunctions[base] {
		return base
	}
	return fmt.Sprintf("limits(%s)", orEmpty(base))
}

func delimited(f *frame) string {
	beg, end, sep := "(", ")", "|"
	if f.has("begChr") {
		beg = f.props["begChr"]
	}
	if f.has("endChr") {
		end = f.props["endChr"]
	}
	if f.has("sepChr") {
		sep = f.props["sepChr"]
	}
	content := strings.Join(f.args["e"], " "+sep+" ")
	if beg == "" && end == "" {
		return content
	}
	return "lr(" + beg + content + end + ")"
}

var naryOperators = map[string]string{
	"∑": "sum",
	"∏": "product",
	"∐": "product.co",
	"∫": "integral",
	"∬": "integral.double",
	"∭": "integral.triple",
	"∮": "integral.cont",
	"⋃": "union.big",
	"⋂": "inter.big",
	"⋁": "or.big",
	"⋀": "and.big",
}

func nary(f *frame) string {
	chr := "∫"
	if f.has("chr") {
		chr = f.props["chr"]
	}
	op, ok := naryOperators[chr]
	if !ok {
		op = chr
	}
	if !f.flag("subHide") {
		op = script(op, "_", f.arg("sub"))
	}
	if !f.flag("supHide") {
		op = script(op, "^", f.arg("sup"))
	}
	return join(op, f.arg("e"))
}

func function(name, arg string) string {
	name = strings.TrimSpace(name)
	if unquoted := strings.Trim(name, `"`); knownFunctions[unquoted] {
		name = unquoted
	}
	if strings.HasPrefix(arg, "lr(") {
		return name + " " + arg
	}
	return name + "(" + orEmpty(arg) + ")"
}

var accents = map[string]string{
	"\u0302": "hat",
	"\u0303": "tilde",
	"\u0307": "dot",
	"\u0308": "dot.double",
	"\u20D7": "arrow",
	"\u20D6": "arrow.l",
	"\u0304": "macron",
	"\u0305": "overline",
	"\u0306": "breve",
	"\u030C": "caron",
	"\u0301": "acute",
	"\u0300": "grave",
	"\u030A": "circle",
	"^":      "hat",
	"~":      "tilde",
	"→":      "arrow",
	"¯":      "macron",
}

func accent(f *frame) string {
	chr := "\u0302"
	if f.has("chr") {
		chr = f.props["chr"]
	}
	if name, ok := accents[chr]; ok {
		return fmt.Sprintf("%s(%s)", name, orEmpty(f.arg("e")))
	}
	return fmt.Sprintf("accent(%s, %s)", orEmpty(f.arg("e")), chr)
}

var knownFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "coth": true, "log": true, "ln": true, "lg": true, "exp": true,
	"lim": true, "liminf": true, "limsup": true, "max": true, "min": true,
	"sup": true, "inf": true, "det": true, "dim": true, "ker": true, "gcd": true,
	"mod": true, "deg": true, "arg": true, "hom": true, "Pr": true,
}

// mathText tokenizes run text: single letters verbatim, known function
// names bare, other ASCII words quoted, syntax characters escaped.
func mathText(s string) string {
	var tokens []string
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isASCIILetter(r):
			j := i
			for j < len(runes) && isASCIILetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			switch {
			case j-i == 1, knownFunctions[word]:
				tokens = append(tokens, word)
			default:
				tokens = append(tokens, `"`+word+`"`)
			}
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		case strings.ContainsRune(`\"#$_^/()[]{},;@~`, r):
			tokens = append(tokens, `\`+string(r))
			i++
		default:
			tokens = append(tokens, string(r))
			i++
		}
	}
	return strings.Join(tokens, " ")
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func attrVal(t xml.StartElement) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == "val" {
			return a.Value, true
		}
	}
	return "", false
}
