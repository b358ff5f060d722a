package omml

import (
	"encoding/xml"
	"testing"
)

const ns = `xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"`

func wrap(body string) []byte {
	return []byte(`<m:oMath ` + ns + `>` + body + `</m:oMath>`)
}

func run(text string) string {
	return `<m:r><m:t>` + text + `</m:t></m:r>`
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "fraction",
			body: `<m:f><m:num>` + run("a") + `</m:num><m:den>` + run("b") + `</m:den></m:f>`,
			want: "frac(a, b)",
		},
		{
			name: "linear fraction",
			body: `<m:f><m:fPr><m:type m:val="lin"/></m:fPr><m:num>` + run("1") + `</m:num><m:den>` + run("2") + `</m:den></m:f>`,
			want: `1 \/ 2`,
		},
		{
			name: "single char superscript",
			body: `<m:sSup><m:e>` + run("x") + `</m:e><m:sup>` + run("2") + `</m:sup></m:sSup>`,
			want: "x^2",
		},
		{
			name: "multi char subscript grouped",
			body: `<m:sSub><m:e>` + run("a") + `</m:e><m:sub>` + run("i+1") + `</m:sub></m:sSub>`,
			want: "a_(i + 1)",
		},
		{
			name: "sub and sup",
			body: `<m:sSubSup><m:e>` + run("x") + `</m:e><m:sub>` + run("0") + `</m:sub><m:sup>` + run("10") + `</m:sup></m:sSubSup>`,
			want: "x_0^(10)",
		},
		{
			name: "square root",
			body: `<m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/><m:e>` + run("x") + `</m:e></m:rad>`,
			want: "sqrt(x)",
		},
		{
			name: "nth root",
			body: `<m:rad><m:deg>` + run("3") + `</m:deg><m:e>` + run("y") + `</m:e></m:rad>`,
			want: "root(3, y)",
		},
		{
			name: "delimiter default parens",
			body: `<m:d><m:e>` + run("a+b") + `</m:e></m:d>`,
			want: "lr((a + b))",
		},
		{
			name: "delimiter brackets",
			body: `<m:d><m:dPr><m:begChr m:val="["/><m:endChr m:val="]"/></m:dPr><m:e>` + run("x") + `</m:e></m:d>`,
			want: "lr([x])",
		},
		{
			name: "sum with limits",
			body: `<m:nary><m:naryPr><m:chr m:val="∑"/></m:naryPr><m:sub>` + run("i=1") + `</m:sub><m:sup>` + run("n") + `</m:sup><m:e>` + run("i") + `</m:e></m:nary>`,
			want: "sum_(i = 1)^n i",
		},
		{
			name: "integral default",
			body: `<m:nary><m:naryPr><m:subHide m:val="1"/><m:supHide m:val="1"/></m:naryPr><m:sub/><m:sup/><m:e>` + run("f") + `</m:e></m:nary>`,
			want: "integral f",
		},
		{
			name: "function",
			body: `<m:func><m:fName>` + run("sin") + `</m:fName><m:e>` + run("x") + `</m:e></m:func>`,
			want: "sin(x)",
		},
		{
			name: "accent",
			body: `<m:acc><m:e>` + run("v") + `</m:e></m:acc>`,
			want: "hat(v)",
		},
		{
			name: "overline",
			body: `<m:bar><m:barPr><m:pos m:val="top"/></m:barPr><m:e>` + run("z") + `</m:e></m:bar>`,
			want: "overline(z)",
		},
		{
			name: "equation array",
			body: `<m:eqArr><m:e>` + run("x=1") + `</m:e><m:e>` + run("y=2") + `</m:e></m:eqArr>`,
			want: `x = 1 \ y = 2`,
		},
		{
			name: "matrix",
			body: `<m:m><m:mr><m:e>` + run("1") + `</m:e><m:e>` + run("0") + `</m:e></m:mr><m:mr><m:e>` + run("0") + `</m:e><m:e>` + run("1") + `</m:e></m:mr></m:m>`,
			want: "mat(1, 0; 0, 1)",
		},
		{
			name: "multi letter word quoted",
			body: run("rate"),
			want: `"rate"`,
		},
		{
			name: "unknown element keeps children",
			body: `<m:mystery><m:e>` + run("q") + `</m:e></m:mystery>`,
			want: "q",
		},
		{
			name: "properties ignored",
			body: `<m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t>k</m:t></m:r>`,
			want: "k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(wrap(tt.body))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertMissingArguments(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty fraction", `<m:f/>`, `frac("", "")`},
		{"fraction without denominator", `<m:f><m:num>` + run("a") + `</m:num></m:f>`, `frac(a, "")`},
		{"empty radical", `<m:rad/>`, `sqrt("")`},
		{"radical with degree only", `<m:rad><m:deg>` + run("3") + `</m:deg></m:rad>`, `root(3, "")`},
		{"empty accent", `<m:acc/>`, `hat("")`},
		{"empty bar", `<m:bar><m:barPr><m:pos m:val="top"/></m:barPr></m:bar>`, `overline("")`},
		{"function without argument", `<m:func><m:fName>` + run("sin") + `</m:fName></m:func>`, `sin("")`},
		{"empty superscript", `<m:sSup/>`, `""`},
		{"empty delimiter", `<m:d/>`, "lr(())"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(wrap(tt.body))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertParagraphJoinsEquations(t *testing.T) {
	data := `<m:oMathPara ` + ns + `><m:oMath>` + run("a") + `</m:oMath><m:oMath>` + run("b") + `</m:oMath></m:oMathPara>`
	got, err := Convert([]byte(data))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != `a \ b` {
		t.Errorf("Convert() = %q", got)
	}
}

func TestConvertMalformed(t *testing.T) {
	if _, err := Convert([]byte(`<m:oMath><m:f>`)); err == nil {
		t.Error("truncated input should fail")
	}
}

func TestMathTextEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a/b", `a \/ b`},
		{"f(x)", `f \( x \)`},
		{"3.14", "3.14"},
		{"αβ", "α β"},
		{"x, y", `x \, y`},
		{"log", "log"},
	}
	for _, tt := range tests {
		if got := mathText(tt.in); got != tt.want {
			t.Errorf("mathText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStepTracksProperties(t *testing.T) {
	c := NewConverter()
	c.step(xml.StartElement{Name: xml.Name{Local: "d"}})
	c.step(xml.StartElement{Name: xml.Name{Local: "dPr"}})
	c.step(xml.StartElement{Name: xml.Name{Local: "begChr"}, Attr: []xml.Attr{{Name: xml.Name{Local: "val"}, Value: "|"}}})
	if got := c.stack[1].props["begChr"]; got != "|" {
		t.Errorf("begChr recorded as %q", got)
	}
}
