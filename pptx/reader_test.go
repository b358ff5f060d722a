package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
)

const (
	pNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" ` +
		`xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
		`xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram"`

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`

	themeXML = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office">
<a:themeElements><a:clrScheme name="Office">
<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
<a:dk2><a:srgbClr val="44546A"/></a:dk2>
<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>
<a:accent1><a:srgbClr val="4472C4"/></a:accent1>
<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>
</a:clrScheme></a:themeElements></a:theme>`

	chartXML = `<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart">
<c:chart><c:plotArea><c:barChart><c:barDir val="bar"/><c:ser><c:idx val="0"/><c:order val="0"/>
<c:cat><c:strRef><c:strCache><c:pt idx="0"><c:v>Q1</c:v></c:pt><c:pt idx="1"><c:v>Q2</c:v></c:pt></c:strCache></c:strRef></c:cat>
<c:val><c:numRef><c:numCache><c:pt idx="0"><c:v>5</c:v></c:pt><c:pt idx="1"><c:v>8</c:v></c:pt></c:numCache></c:numRef></c:val>
</c:ser></c:barChart></c:plotArea></c:chart></c:chartSpace>`

	diagramXML = `<dgm:dataModel xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><dgm:ptLst>
<dgm:pt modelId="0" type="doc"/>
<dgm:pt modelId="1"><dgm:t><a:p><a:r><a:t>Plan</a:t></a:r></a:p></dgm:t></dgm:pt>
<dgm:pt modelId="2"><dgm:t><a:p><a:r><a:t>Ship</a:t></a:r></a:p></dgm:t></dgm:pt>
</dgm:ptLst><dgm:cxnLst>
<dgm:cxn modelId="c1" srcId="0" destId="1" srcOrd="0"/>
<dgm:cxn modelId="c2" srcId="1" destId="2" srcOrd="0"/>
</dgm:cxnLst></dgm:dataModel>`
)

// rel is one relationship of a test package.
type rel struct {
	id, typ, target string
}

func relsXML(rels ...rel) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		mode := ""
		if strings.HasPrefix(r.target, "http") {
			mode = ` TargetMode="External"`
		}
		sb.WriteString(`<Relationship Id="` + r.id + `" Type="` + r.typ + `" Target="` + r.target + `"` + mode + `/>`)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func presentationXMLFor(n int, size string) string {
	var sb strings.Builder
	sb.WriteString(`<p:presentation ` + pNS + `><p:sldIdLst>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	sb.WriteString(`</p:sldIdLst>` + size + `</p:presentation>`)
	return sb.String()
}

// slideXML wraps shape-tree content (and an optional background) in a
// p:sld.
func slideXML(bg, shapes string) string {
	return `<p:sld ` + pNS + `><p:cSld>` + bg + `<p:spTree>
<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

func xfrm(x, y, cx, cy int) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, x, y, cx, cy)
}

// textShape builds a p:sp with the given shape properties and text body
// paragraphs.
func textShape(name, spPr, paragraphs string) string {
	body := ""
	if paragraphs != "" {
		body = `<p:txBody><a:bodyPr/><a:lstStyle/>` + paragraphs + `</p:txBody>`
	}
	return `<p:sp><p:nvSpPr><p:cNvPr id="2" name="` + name + `"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
		`<p:spPr>` + spPr + `</p:spPr>` + body + `</p:sp>`
}

func textPara(text string) string {
	return `<a:p><a:r><a:rPr lang="en-US"/><a:t>` + text + `</a:t></a:r></a:p>`
}

// buildPPTX creates an in-memory PPTX with one part per slide. extra maps
// part names to content and may override the defaults.
func buildPPTX(t *testing.T, slides []string, extra map[string]string) []byte {
	t.Helper()

	presRels := []rel{{"rId1", opc.RelTheme, "theme/theme1.xml"}}
	parts := map[string]string{
		"[Content_Types].xml":  contentTypesXML,
		"_rels/.rels":          packageRelsXML,
		"ppt/presentation.xml": presentationXMLFor(len(slides), `<p:sldSz cx="9144000" cy="6858000"/>`),
		"ppt/theme/theme1.xml": themeXML,
	}
	for i, s := range slides {
		target := fmt.Sprintf("slides/slide%d.xml", i+1)
		presRels = append(presRels, rel{fmt.Sprintf("rId%d", i+2), opc.RelSlide, target})
		parts["ppt/"+target] = s
	}
	parts["ppt/_rels/presentation.xml.rels"] = relsXML(presRels...)
	for name, content := range extra {
		parts[name] = content
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// parseSlide parses a one-slide deck and returns its page.
func parseSlide(t *testing.T, slide string, extra map[string]string) (*model.FixedPage, []model.Warning) {
	t.Helper()
	doc, warnings, err := Parse(buildPPTX(t, []string{slide}, extra), Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1 (warnings %v)", doc.PageCount(), warnings)
	}
	page, ok := doc.Pages[0].(*model.FixedPage)
	if !ok {
		t.Fatalf("page is %T, want *model.FixedPage", doc.Pages[0])
	}
	return page, warnings
}

func elementKinds(elems []model.FixedElement) string {
	kinds := make([]string, len(elems))
	for i, e := range elems {
		kinds[i] = e.Kind.FixedKindType().String()
	}
	return strings.Join(kinds, " ")
}

func TestParse_TextBox(t *testing.T) {
	para := `<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="2400" b="1" i="1" u="sng" strike="sngStrike">` +
		`<a:solidFill><a:srgbClr val="FF0000"/></a:solidFill><a:latin typeface="Arial"/></a:rPr>` +
		`<a:t>Quarterly results</a:t></a:r><a:br/><a:r><a:rPr sz="1800"><a:latin typeface="+mn-lt"/></a:rPr><a:t>Plain</a:t></a:r></a:p>`
	slide := slideXML("", textShape("Title 1", xfrm(914400, 457200, 1828800, 914400), para))

	page, warnings := parseSlide(t, slide, nil)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if page.Size != model.SizeSlide4x3 {
		t.Errorf("Size = %+v, want 720x540", page.Size)
	}
	if got := elementKinds(page.Elements); got != "TextBox" {
		t.Fatalf("elements = %s, want a single TextBox", got)
	}

	e := page.Elements[0]
	if e.X != 72 || e.Y != 36 || e.Width != 144 || e.Height != 72 {
		t.Errorf("frame = (%v, %v, %v, %v), want (72, 36, 144, 72)", e.X, e.Y, e.Width, e.Height)
	}
	box := e.Kind.(*model.TextBox)
	p := box.Blocks[0].(*model.Paragraph)
	if p.Style.Alignment != model.AlignCenter {
		t.Errorf("Alignment = %v, want center", p.Style.Alignment)
	}
	if len(p.Runs) != 3 {
		t.Fatalf("runs = %+v, want text, break, text", p.Runs)
	}
	s := p.Runs[0].Style
	if !s.Bold || !s.Italic || !s.Underline || !s.Strike {
		t.Errorf("flags = %+v", s)
	}
	if s.Size == nil || *s.Size != 24 {
		t.Errorf("Size = %v, want 24", s.Size)
	}
	if s.Color == nil || *s.Color != (model.Color{R: 255}) || s.FontFamily != "Arial" {
		t.Errorf("color/font = %v %q", s.Color, s.FontFamily)
	}
	if p.Runs[1].Text != "\n" {
		t.Errorf("break run = %q", p.Runs[1].Text)
	}
	if last := p.Runs[2].Style; last.Bold || last.FontFamily != "" || *last.Size != 18 {
		t.Errorf("theme font should be dropped, got %+v", last)
	}
}

func TestParse_ShapeWithoutTextBody(t *testing.T) {
	tests := []struct {
		name  string
		paras string
		want  int
	}{
		{"no text body", "", 0},
		{"empty paragraph", `<a:p><a:endParaRPr/></a:p>`, 1},
		{"whitespace only", textPara("   "), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := parseSlide(t, slideXML("", textShape("Shape", xfrm(12700, 25400, 127000, 63500), tt.paras)), nil)
			if len(page.Elements) != tt.want {
				t.Fatalf("elements = %s, want %d", elementKinds(page.Elements), tt.want)
			}
			if tt.want == 0 {
				return
			}
			e := page.Elements[0]
			box, ok := e.Kind.(*model.TextBox)
			if !ok || len(box.Blocks) != 0 {
				t.Errorf("element = %T %+v, want an empty TextBox", e.Kind, e.Kind)
			}
			if e.X != 1 || e.Y != 2 || e.Width != 10 || e.Height != 5 {
				t.Errorf("frame = (%v, %v, %v, %v), want (1, 2, 10, 5)", e.X, e.Y, e.Width, e.Height)
			}
		})
	}
}

func TestParse_ShapeAndText(t *testing.T) {
	spPr := xfrm(0, 0, 1270000, 635000) + `<a:prstGeom prst="ellipse"><a:avLst/></a:prstGeom>` +
		`<a:solidFill><a:schemeClr val="accent1"><a:alpha val="50000"/></a:schemeClr></a:solidFill>` +
		`<a:ln w="25400"><a:solidFill><a:srgbClr val="000000"/></a:solidFill><a:prstDash val="dash"/></a:ln>` +
		`<a:effectLst><a:outerShdw blurRad="50800" dist="38100" dir="2700000"><a:srgbClr val="000000"><a:alpha val="40000"/></a:srgbClr></a:outerShdw></a:effectLst>`
	slide := slideXML("", textShape("Oval", spPr, textPara("Inside")))

	page, _ := parseSlide(t, slide, nil)
	if got := elementKinds(page.Elements); got != "Shape TextBox" {
		t.Fatalf("elements = %s, want Shape TextBox", got)
	}
	s := page.Elements[0].Kind.(*model.Shape)
	if s.Geometry != model.GeometryEllipse {
		t.Errorf("Geometry = %v", s.Geometry)
	}
	if s.Fill == nil || s.Fill.Solid == nil || *s.Fill.Solid != (model.Color{R: 0x44, G: 0x72, B: 0xC4}) {
		t.Errorf("Fill = %+v, want theme accent1", s.Fill)
	}
	if s.Opacity == nil || *s.Opacity != 0.5 {
		t.Errorf("Opacity = %v, want 0.5", s.Opacity)
	}
	if s.Stroke == nil || s.Stroke.Width != 2 || s.Stroke.Dash != model.BorderDashed {
		t.Errorf("Stroke = %+v", s.Stroke)
	}
	if s.Shadow == nil || s.Shadow.BlurRadius != 4 || s.Shadow.Distance != 3 || s.Shadow.Direction != 45 || s.Shadow.Opacity != 0.4 {
		t.Errorf("Shadow = %+v", s.Shadow)
	}
	if page.Elements[1].Width != 100 || page.Elements[1].Height != 50 {
		t.Errorf("text box frame = %+v", page.Elements[1])
	}
}

func TestParse_PolygonAndRotation(t *testing.T) {
	spPr := `<a:xfrm rot="5400000" flipH="1"><a:off x="0" y="0"/><a:ext cx="1270000" cy="635000"/></a:xfrm>` +
		`<a:prstGeom prst="triangle"/><a:solidFill><a:srgbClr val="00FF00"/></a:solidFill>`
	page, _ := parseSlide(t, slideXML("", textShape("Tri", spPr, "")), nil)

	s := page.Elements[0].Kind.(*model.Shape)
	if s.Geometry != model.GeometryPolygon || s.Rotation != 90 || !s.FlipH {
		t.Errorf("shape = %+v", s)
	}
	want := []model.Point{{X: 50, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50}}
	if len(s.Points) != len(want) {
		t.Fatalf("Points = %v", s.Points)
	}
	for i := range want {
		if s.Points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, s.Points[i], want[i])
		}
	}
}

func TestParse_SlideOrderAndSize(t *testing.T) {
	pres := `<p:presentation ` + pNS + `><p:sldIdLst><p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/></p:sldIdLst>` +
		`<p:sldSz cx="12192000" cy="6858000"/></p:presentation>`
	slides := []string{
		slideXML("", textShape("A", xfrm(0, 0, 12700, 12700), textPara("first file"))),
		slideXML("", textShape("B", xfrm(0, 0, 12700, 12700), textPara("second file"))),
	}

	doc, _, err := Parse(buildPPTX(t, slides, map[string]string{"ppt/presentation.xml": pres}), Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d", doc.PageCount())
	}
	want := []string{"second file", "first file"}
	for i, page := range doc.Pages {
		fp := page.(*model.FixedPage)
		if fp.Size.Width != 960 || fp.Size.Height != 540 {
			t.Errorf("slide %d size = %+v, want 960x540", i, fp.Size)
		}
		text := fp.Elements[0].Kind.(*model.TextBox).Blocks[0].(*model.Paragraph).PlainText()
		if text != want[i] {
			t.Errorf("slide %d = %q, want %q", i, text, want[i])
		}
	}
}

func TestParse_DefaultSlideSize(t *testing.T) {
	data := buildPPTX(t, []string{slideXML("", "")}, map[string]string{
		"ppt/presentation.xml": presentationXMLFor(1, ""),
	})
	r, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	defer r.Close()
	if r.SlideSize() != model.SizeSlide4x3 || r.SlideCount() != 1 {
		t.Errorf("SlideSize() = %+v, SlideCount() = %d", r.SlideSize(), r.SlideCount())
	}
}

func TestParse_SlideRange(t *testing.T) {
	var slides []string
	for i := 1; i <= 4; i++ {
		slides = append(slides, slideXML("", textShape("T", xfrm(0, 0, 12700, 12700), textPara(fmt.Sprintf("slide %d", i)))))
	}
	data := buildPPTX(t, slides, nil)

	tests := []struct {
		name  string
		rng   *[2]int
		first string
		count int
	}{
		{"all", nil, "slide 1", 4},
		{"middle", &[2]int{2, 3}, "slide 2", 2},
		{"clamped", &[2]int{0, 99}, "slide 1", 4},
		{"past end", &[2]int{5, 9}, "", 0},
		{"inverted", &[2]int{3, 2}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := Parse(data, Options{SlideRange: tt.rng})
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if doc.PageCount() != tt.count {
				t.Fatalf("PageCount() = %d, want %d", doc.PageCount(), tt.count)
			}
			if tt.count == 0 {
				return
			}
			first := doc.Pages[0].(*model.FixedPage).Elements[0].Kind.(*model.TextBox)
			if got := first.Blocks[0].(*model.Paragraph).PlainText(); got != tt.first {
				t.Errorf("first slide = %q, want %q", got, tt.first)
			}
		})
	}
}

func TestParse_MissingAndBrokenSlides(t *testing.T) {
	good := slideXML("", textShape("T", xfrm(0, 0, 12700, 12700), textPara("ok")))
	data := buildPPTX(t, []string{good, good, good}, map[string]string{
		"ppt/presentation.xml": presentationXMLFor(4, ""),
		"ppt/slides/slide2.xml": `<p:sld ` + pNS + `><p:cSld><p:spTree><p:sp>`,
	})
	// Slide 2 is truncated and slide 4 (rId5) has no relationship.
	doc, warnings, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", doc.PageCount())
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want one for the broken slide and one for the missing relationship", warnings)
	}
	if warnings[0].Element != "slide 2" || warnings[1].Element != "slide 4" {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, _, err := Parse([]byte("not a zip"), Options{}); err == nil {
		t.Error("expected error for non-zip input")
	}

	data := buildPPTX(t, nil, map[string]string{"ppt/presentation.xml": "<p:presentation"})
	if _, _, err := Parse(data, Options{}); err == nil {
		t.Error("expected error for malformed presentation.xml")
	}
}

func TestParse_Background(t *testing.T) {
	bg := `<p:bg><p:bgPr><a:gradFill><a:gsLst>` +
		`<a:gs pos="100000"><a:srgbClr val="0000FF"/></a:gs><a:gs pos="0"><a:schemeClr val="bg1"/></a:gs>` +
		`</a:gsLst><a:lin ang="5400000" scaled="0"/></a:gradFill><a:effectLst/></p:bgPr></p:bg>`
	page, _ := parseSlide(t, slideXML(bg, ""), nil)

	if page.Background == nil || page.Background.Gradient == nil {
		t.Fatalf("Background = %+v, want gradient", page.Background)
	}
	g := page.Background.Gradient
	if g.Angle != 90 || len(g.Stops) != 2 {
		t.Fatalf("gradient = %+v", g)
	}
	stops := g.NormalizedStops()
	if stops[0].Color != model.White || stops[1].Color != (model.Color{B: 255}) {
		t.Errorf("stops = %+v", stops)
	}

	solid := `<p:bg><p:bgRef idx="1001"><a:schemeClr val="tx2"/></p:bgRef></p:bg>`
	page, _ = parseSlide(t, slideXML(solid, ""), nil)
	if page.Background == nil || page.Background.Solid == nil || *page.Background.Solid != (model.Color{R: 0x44, G: 0x54, B: 0x6A}) {
		t.Errorf("Background = %+v, want dk2", page.Background)
	}
}

func TestParse_GroupTransform(t *testing.T) {
	group := `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="5" name="Group"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
<p:grpSpPr><a:xfrm><a:off x="1270000" y="0"/><a:ext cx="2540000" cy="2540000"/>
<a:chOff x="0" y="0"/><a:chExt cx="1270000" cy="1270000"/></a:xfrm></p:grpSpPr>` +
		textShape("Inner", xfrm(127000, 127000, 127000, 127000), textPara("grouped")) +
		`</p:grpSp>` +
		textShape("After", xfrm(0, 0, 127000, 127000), textPara("top level"))

	page, _ := parseSlide(t, slideXML("", group), nil)
	if len(page.Elements) != 2 {
		t.Fatalf("elements = %s", elementKinds(page.Elements))
	}
	inner := page.Elements[0]
	if inner.X != 120 || inner.Y != 20 || inner.Width != 20 || inner.Height != 20 {
		t.Errorf("grouped frame = (%v, %v, %v, %v), want (120, 20, 20, 20)", inner.X, inner.Y, inner.Width, inner.Height)
	}
	after := page.Elements[1]
	if after.X != 0 || after.Width != 10 {
		t.Errorf("shape after group = %+v, group transform leaked", after)
	}
}

func TestParse_AlternateContent(t *testing.T) {
	shapes := `<mc:AlternateContent><mc:Choice Requires="p14">` +
		textShape("Choice", xfrm(0, 0, 12700, 12700), textPara("modern")) +
		`</mc:Choice><mc:Fallback>` +
		textShape("Fallback", xfrm(0, 0, 12700, 12700), textPara("legacy")) +
		`</mc:Fallback></mc:AlternateContent>`

	page, _ := parseSlide(t, slideXML("", shapes), nil)
	if len(page.Elements) != 1 {
		t.Fatalf("elements = %s, want only the choice", elementKinds(page.Elements))
	}
	if got := page.Elements[0].Kind.(*model.TextBox).Blocks[0].(*model.Paragraph).PlainText(); got != "modern" {
		t.Errorf("text = %q", got)
	}
}

func TestParse_PlaceholderFromLayout(t *testing.T) {
	layout := `<p:sldLayout ` + pNS + `><p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:spPr>` + xfrm(254000, 127000, 2540000, 635000) + `</p:spPr></p:sp>
</p:spTree></p:cSld></p:sldLayout>`
	title := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:spPr/><p:txBody><a:bodyPr/>` + textPara("Inherited") + `</p:txBody></p:sp>`
	body := `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph idx="9"/></p:nvPr></p:nvSpPr>
<p:spPr/><p:txBody><a:bodyPr/>` + textPara("Unplaced") + `</p:txBody></p:sp>`

	page, _ := parseSlide(t, slideXML("", title+body), map[string]string{
		"ppt/slides/_rels/slide1.xml.rels":  relsXML(rel{"rId1", opc.RelSlideLayout, "../slideLayouts/slideLayout1.xml"}),
		"ppt/slideLayouts/slideLayout1.xml": layout,
	})
	if len(page.Elements) != 2 {
		t.Fatalf("elements = %s", elementKinds(page.Elements))
	}
	e := page.Elements[0]
	if e.X != 20 || e.Y != 10 || e.Width != 200 || e.Height != 50 {
		t.Errorf("title frame = %+v, want the layout's", e)
	}
	if e := page.Elements[1]; e.X != 0 || e.Width != 720 || e.Height != 540 {
		t.Errorf("unmatched placeholder frame = %+v, want the whole slide", e)
	}
}

func TestParse_Bullets(t *testing.T) {
	paras := `<a:p><a:pPr marL="342900" indent="-342900"><a:buChar char="•"/></a:pPr><a:r><a:t>One</a:t></a:r></a:p>` +
		`<a:p><a:pPr lvl="1"><a:buChar char="–"/></a:pPr><a:r><a:t>Sub</a:t></a:r></a:p>` +
		`<a:p><a:pPr><a:buAutoNum type="arabicPeriod" startAt="4"/></a:pPr><a:r><a:t>Four</a:t></a:r></a:p>` +
		`<a:p><a:pPr><a:buNone/><a:lnSpc><a:spcPct val="150000"/></a:lnSpc><a:spcBef><a:spcPts val="600"/></a:spcBef></a:pPr><a:r><a:t>Plain</a:t></a:r></a:p>`
	page, _ := parseSlide(t, slideXML("", textShape("Body", xfrm(0, 0, 12700, 12700), paras)), nil)

	blocks := page.Elements[0].Kind.(*model.TextBox).Blocks
	if len(blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want bullet list, numbered list, paragraph", len(blocks))
	}
	bullets := blocks[0].(*model.List)
	if bullets.Kind != model.ListUnordered || len(bullets.Items) != 2 || bullets.Items[1].Level != 1 {
		t.Errorf("bullet list = %+v", bullets)
	}
	first := bullets.Items[0].Content[0].(*model.Paragraph)
	if first.Style.IndentLeft != 27 || first.Style.IndentFirstLine != -27 {
		t.Errorf("indent = %v / %v, want 27 / -27", first.Style.IndentLeft, first.Style.IndentFirstLine)
	}
	numbered := blocks[1].(*model.List)
	if numbered.Kind != model.ListOrdered || numbered.Start != 4 {
		t.Errorf("numbered list = %+v", numbered)
	}
	plain := blocks[2].(*model.Paragraph)
	ls := plain.Style.LineSpacing
	if ls == nil || ls.Kind != model.LineSpacingProportional || ls.Value != 1.5 {
		t.Errorf("LineSpacing = %+v", ls)
	}
	if plain.Style.SpaceBefore == nil || *plain.Style.SpaceBefore != 6 {
		t.Errorf("SpaceBefore = %v", plain.Style.SpaceBefore)
	}
}

func TestParse_Hyperlink(t *testing.T) {
	para := `<a:p><a:r><a:rPr><a:hlinkClick r:id="rId7"/></a:rPr><a:t>site</a:t></a:r>` +
		`<a:r><a:rPr><a:hlinkClick r:id="rId404"/></a:rPr><a:t>dangling</a:t></a:r></a:p>`
	page, _ := parseSlide(t, slideXML("", textShape("Link", xfrm(0, 0, 12700, 12700), para)), map[string]string{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(rel{"rId7", opc.RelHyperlink, "https://example.com"}),
	})
	runs := page.Elements[0].Kind.(*model.TextBox).Blocks[0].(*model.Paragraph).Runs
	if runs[0].Href != "https://example.com" || runs[1].Href != "" {
		t.Errorf("hrefs = %q, %q", runs[0].Href, runs[1].Href)
	}
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParse_Picture(t *testing.T) {
	pic := func(embed string) string {
		return `<p:pic><p:nvPicPr><p:cNvPr id="4" name="Picture 3" descr="Logo"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>
<p:blipFill><a:blip r:embed="` + embed + `"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
<p:spPr>` + xfrm(127000, 254000, 635000, 635000) + `<a:prstGeom prst="rect"/></p:spPr></p:pic>`
	}
	page, warnings := parseSlide(t, slideXML("", pic("rId2")+pic("rId9")), map[string]string{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(rel{"rId2", opc.RelImage, "../media/image1.png"}),
		"ppt/media/image1.png":             string(encodePNG(t)),
	})

	if got := elementKinds(page.Elements); got != "Image" {
		t.Fatalf("elements = %s", got)
	}
	e := page.Elements[0]
	img := e.Kind.(*model.ImageElement).Image
	if img.Format != model.ImageFormatPNG || img.AltText != "Logo" || *img.Width != 50 {
		t.Errorf("image = %+v", img)
	}
	if e.X != 10 || e.Y != 20 {
		t.Errorf("position = (%v, %v)", e.X, e.Y)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Reason, "rId9") {
		t.Errorf("warnings = %v, want one for the missing image", warnings)
	}
}

func graphicFrame(data string) string {
	return `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="6" name="Frame"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>
<p:xfrm><a:off x="0" y="127000"/><a:ext cx="2540000" cy="1270000"/></p:xfrm>
<a:graphic>` + data + `</a:graphic></p:graphicFrame>`
}

func TestParse_Table(t *testing.T) {
	cell := func(attrs, text string) string {
		return `<a:tc` + attrs + `><a:txBody><a:bodyPr/>` + textPara(text) + `</a:txBody><a:tcPr/></a:tc>`
	}
	tbl := `<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>
<a:tblGrid><a:gridCol w="1270000"/><a:gridCol w="1270000"/></a:tblGrid>
<a:tr h="254000">` + cell(` gridSpan="2"`, "Header") + cell(` hMerge="1"`, "") + `</a:tr>
<a:tr h="254000">` + cell(` rowSpan="2"`, "Tall") +
		`<a:tc><a:txBody><a:bodyPr/>` + textPara("B") + `</a:txBody><a:tcPr anchor="ctr">
<a:lnB w="12700"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:lnB>
<a:solidFill><a:srgbClr val="DDDDDD"/></a:solidFill></a:tcPr></a:tc></a:tr>
<a:tr h="254000">` + cell(` vMerge="1"`, "") + cell("", "C") + `</a:tr>
</a:tbl></a:graphicData>`

	page, _ := parseSlide(t, slideXML("", graphicFrame(tbl)), nil)
	if got := elementKinds(page.Elements); got != "Table" {
		t.Fatalf("elements = %s", got)
	}
	e := page.Elements[0]
	if e.Y != 10 || e.Width != 200 {
		t.Errorf("frame = %+v", e)
	}
	table := e.Kind.(*model.TableElement).Table
	if len(table.ColumnWidths) != 2 || table.ColumnWidths[0] != 100 {
		t.Errorf("ColumnWidths = %v", table.ColumnWidths)
	}
	if len(table.Rows) != 3 || *table.Rows[0].Height != 20 {
		t.Fatalf("rows = %+v", table.Rows)
	}

	r0 := table.Rows[0].Cells
	if r0[0].ColSpan != 2 || r0[0].PlainText() != "Header" || r0[1].ColSpan != 0 || len(r0[1].Content) != 0 {
		t.Errorf("row 0 = %+v", r0)
	}
	r1 := table.Rows[1].Cells
	if r1[0].RowSpan != 2 {
		t.Errorf("RowSpan = %d, want 2", r1[0].RowSpan)
	}
	b := r1[1]
	if b.Background == nil || *b.Background != (model.Color{R: 0xDD, G: 0xDD, B: 0xDD}) || b.VerticalAlign != model.VAlignMiddle {
		t.Errorf("cell B = %+v", b)
	}
	if b.Border == nil || b.Border.Bottom == nil || b.Border.Bottom.Width != 1 || b.Border.Top != nil {
		t.Errorf("cell B border = %+v", b.Border)
	}
	if !table.Rows[2].Cells[0].IsContinuation() {
		t.Errorf("vMerge cell should be a continuation: %+v", table.Rows[2].Cells[0])
	}
	if table.ColumnCount() != 2 {
		t.Errorf("ColumnCount() = %d", table.ColumnCount())
	}
}

func TestParse_ChartAndDiagram(t *testing.T) {
	chart := `<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart r:id="rId3"/></a:graphicData>`
	diagram := `<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/diagram">` +
		`<dgm:relIds r:dm="rId4" r:lo="rId5" r:qs="rId6" r:cs="rId7"/></a:graphicData>`
	unknown := `<a:graphicData uri="urn:ole"/>`

	page, warnings := parseSlide(t, slideXML("", graphicFrame(chart)+graphicFrame(diagram)+graphicFrame(unknown)), map[string]string{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(
			rel{"rId3", opc.RelChart, "../charts/chart1.xml"},
			rel{"rId4", opc.RelDiagramData, "../diagrams/data1.xml"},
		),
		"ppt/charts/chart1.xml":  chartXML,
		"ppt/diagrams/data1.xml": diagramXML,
	})

	if got := elementKinds(page.Elements); got != "Chart Diagram" {
		t.Fatalf("elements = %s", got)
	}
	ch := page.Elements[0].Kind.(*model.ChartElement).Chart
	if ch.Type != model.ChartBar || len(ch.Categories) != 2 || ch.Series[0].Values[1] != 8 {
		t.Errorf("chart = %+v", ch)
	}
	nodes := page.Elements[1].Kind.(*model.Diagram).Nodes
	if len(nodes) != 2 || nodes[0].Text != "Plan" || nodes[1].Depth != 1 {
		t.Errorf("nodes = %+v", nodes)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Reason, "urn:ole") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestParse_Metadata(t *testing.T) {
	core := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Deck</dc:title><dc:creator>Sam</dc:creator></cp:coreProperties>`
	doc, _, err := Parse(buildPPTX(t, []string{slideXML("", "")}, map[string]string{"docProps/core.xml": core}), Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Metadata.Title != "Deck" || doc.Metadata.Author != "Sam" {
		t.Errorf("Metadata = %+v", doc.Metadata)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, buildPPTX(t, []string{slideXML("", "")}, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	doc, _, err := r.Document()
	if err != nil || doc.PageCount() != 1 {
		t.Fatalf("Document() = %v, %v", doc, err)
	}
	r.Close()
	if _, _, err := r.Document(); err == nil {
		t.Error("Document() after Close() should fail")
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("Open() of a missing file should fail")
	}
}

func TestIsolateRecoversPanic(t *testing.T) {
	c := &converter{slide: 1}
	c.isolate("slide 1 shape 0", func() { panic("boom") })
	if len(c.warnings) != 1 || c.warnings[0].Element != "slide 1 shape 0" {
		t.Errorf("warnings = %v", c.warnings)
	}
}
