package model

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"
)

// ============================================================================
// Color Tests
// ============================================================================

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Color
		ok    bool
	}{
		{"plain", "FF0000", Color{255, 0, 0}, true},
		{"hash", "#00ff80", Color{0, 255, 128}, true},
		{"argb", "FF1F497D", Color{0x1F, 0x49, 0x7D}, true},
		{"auto", "auto", Color{}, false},
		{"short", "FFF", Color{}, false},
		{"garbage", "GGGGGG", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHexColor(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestColorLerpEndpoints(t *testing.T) {
	a := Color{10, 20, 30}
	b := Color{250, 128, 0}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != (Color{130, 74, 15}) {
		t.Errorf("Lerp(0.5) = %v, want {130 74 15}", got)
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{0x1F, 0x49, 0x7D}).Hex(); got != "#1f497d" {
		t.Errorf("Hex() = %q, want #1f497d", got)
	}
}

// ============================================================================
// Gradient Tests
// ============================================================================

func TestNormalizedStops(t *testing.T) {
	tests := []struct {
		name  string
		stops []GradientStop
	}{
		{"already bounded", []GradientStop{{0, Black}, {1, White}}},
		{"unsorted", []GradientStop{{0.8, White}, {0.2, Black}, {0.5, Color{1, 2, 3}}}},
		{"inner only", []GradientStop{{0.3, Black}, {0.6, White}}},
		{"out of range", []GradientStop{{-0.5, Black}, {0.4, White}, {1.7, Black}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gradient{Stops: tt.stops}
			got := g.NormalizedStops()
			if len(got) != len(tt.stops) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.stops))
			}
			if got[0].Offset != 0 {
				t.Errorf("first offset = %v, want 0", got[0].Offset)
			}
			if got[len(got)-1].Offset != 1 {
				t.Errorf("last offset = %v, want 1", got[len(got)-1].Offset)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Offset < got[i-1].Offset {
					t.Errorf("offsets not non-decreasing at %d: %v", i, got)
				}
			}
		})
	}
}

func TestNormalizedStopsLeavesSourceUntouched(t *testing.T) {
	g := &Gradient{Stops: []GradientStop{{0.7, White}, {0.1, Black}}}
	_ = g.NormalizedStops()
	if g.Stops[0].Offset != 0.7 || g.Stops[1].Offset != 0.1 {
		t.Errorf("source stops mutated: %v", g.Stops)
	}
}

func TestFillIsEmpty(t *testing.T) {
	var nilFill *Fill
	if !nilFill.IsEmpty() {
		t.Error("nil fill should be empty")
	}
	if SolidFill(White).IsEmpty() {
		t.Error("solid fill should not be empty")
	}
	if !(&Fill{Gradient: &Gradient{}}).IsEmpty() {
		t.Error("gradient without stops should be empty")
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestNewTable(t *testing.T) {
	table := NewTable(2, 3)
	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", table.RowCount())
	}
	if table.ColumnCount() != 3 {
		t.Errorf("ColumnCount() = %d, want 3", table.ColumnCount())
	}
	cell := table.GetCell(1, 2)
	if cell == nil || cell.ColSpan != 1 || cell.RowSpan != 1 {
		t.Errorf("GetCell(1, 2) = %+v, want unit spans", cell)
	}
	if table.GetCell(2, 0) != nil {
		t.Error("GetCell out of range should be nil")
	}
}

func TestTableColumnCountWithSpans(t *testing.T) {
	span := func(c, r int) TableCell {
		cell := NewTableCell()
		cell.ColSpan, cell.RowSpan = c, r
		return cell
	}

	table := &Table{Rows: []TableRow{
		{Cells: []TableCell{span(1, 3), span(2, 1)}},
		{Cells: []TableCell{span(1, 1), span(1, 1)}},
		{Cells: []TableCell{span(2, 1)}},
	}}
	if got := table.ColumnCount(); got != 3 {
		t.Errorf("ColumnCount() = %d, want 3", got)
	}

	table.ColumnWidths = []float64{10, 10, 10, 10}
	if got := table.ColumnCount(); got != 4 {
		t.Errorf("ColumnCount() with widths = %d, want 4", got)
	}
}

func TestTableColumnCountBounded(t *testing.T) {
	cell := func(c, r int) TableCell {
		cell := NewTableCell()
		cell.ColSpan, cell.RowSpan = c, r
		return cell
	}
	tests := []struct {
		name  string
		table *Table
		want  int
	}{
		{"huge span", &Table{Rows: []TableRow{{Cells: []TableCell{cell(1<<30, 1)}}}}, MaxTableColumns},
		{"huge span with row span", &Table{Rows: []TableRow{
			{Cells: []TableCell{cell(1<<30, 5)}},
			{Cells: []TableCell{cell(1, 1)}},
		}}, MaxTableColumns},
		{"span after cells", &Table{Rows: []TableRow{{Cells: []TableCell{cell(1, 1), cell(1, 1), cell(1<<30, 1)}}}}, MaxTableColumns},
		{"cells past limit", &Table{Rows: []TableRow{{Cells: []TableCell{cell(MaxTableColumns, 1), cell(1, 1)}}}}, MaxTableColumns},
		{"widths past limit", &Table{ColumnWidths: make([]float64, MaxTableColumns+10)}, MaxTableColumns},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.ColumnCount(); got != tt.want {
				t.Errorf("ColumnCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTableCellIsContinuation(t *testing.T) {
	tests := []struct {
		colSpan, rowSpan int
		want             bool
	}{
		{1, 1, false},
		{0, 1, true},
		{1, 0, true},
		{3, 2, false},
	}
	for _, tt := range tests {
		c := TableCell{ColSpan: tt.colSpan, RowSpan: tt.rowSpan}
		if got := c.IsContinuation(); got != tt.want {
			t.Errorf("IsContinuation(%d,%d) = %v, want %v", tt.colSpan, tt.rowSpan, got, tt.want)
		}
	}
}

func TestTableCellPlainText(t *testing.T) {
	cell := NewTableCell(
		&Paragraph{Runs: []Run{{Text: "Hello "}, {Text: "world"}}},
		&Paragraph{Runs: []Run{{Text: "1", Footnote: []Block{}}, {Text: "Second"}}},
	)
	if got := cell.PlainText(); got != "Hello world\nSecond" {
		t.Errorf("PlainText() = %q", got)
	}
}

// ============================================================================
// Chart Tests
// ============================================================================

func TestChartValueZeroPads(t *testing.T) {
	c := &Chart{
		Categories: []string{"a", "b", "c"},
		Series: []ChartSeries{
			{Name: "full", Values: []float64{1, 2, 3}},
			{Name: "short", Values: []float64{4}},
		},
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if got := c.Value(1, 2); got != 0 {
		t.Errorf("Value(1, 2) = %v, want 0", got)
	}
	if got := c.Value(0, 2); got != 3 {
		t.Errorf("Value(0, 2) = %v, want 3", got)
	}
	if got := c.Value(5, 0); got != 0 {
		t.Errorf("Value(5, 0) = %v, want 0", got)
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDetectImageFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want ImageFormat
	}{
		{"png", encodePNG(t, 1, 1), ImageFormatPNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ImageFormatJPEG},
		{"gif", []byte("GIF89a...."), ImageFormatGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), ImageFormatWebP},
		{"svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`), ImageFormatSVG},
		{"unknown", []byte("hello"), ImageFormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectImageFormat(tt.data); got != tt.want {
				t.Errorf("DetectImageFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageIntrinsicSize(t *testing.T) {
	img := NewImage(encodePNG(t, 96, 192))
	w, h, ok := img.IntrinsicSize()
	if !ok {
		t.Fatal("IntrinsicSize() not ok")
	}
	if math.Abs(w-72) > 0.001 || math.Abs(h-144) > 0.001 {
		t.Errorf("IntrinsicSize() = %v x %v, want 72 x 144", w, h)
	}

	bad := NewImage([]byte("not an image"))
	if _, _, ok := bad.IntrinsicSize(); ok {
		t.Error("IntrinsicSize() of garbage should not be ok")
	}
}

// ============================================================================
// Misc Tests
// ============================================================================

func TestUnitConversions(t *testing.T) {
	if got := TwipsToPoints(1440); got != 72 {
		t.Errorf("TwipsToPoints(1440) = %v", got)
	}
	if got := EMUToPoints(914400); got != 72 {
		t.Errorf("EMUToPoints(914400) = %v", got)
	}
	if got := HalfPointsToPoints(24); got != 12 {
		t.Errorf("HalfPointsToPoints(24) = %v", got)
	}
	if got := HundredthsToPoints(1800); got != 18 {
		t.Errorf("HundredthsToPoints(1800) = %v", got)
	}
	if got := ColumnWidthToPoints(10); got != 70 {
		t.Errorf("ColumnWidthToPoints(10) = %v", got)
	}
}

func TestKindsString(t *testing.T) {
	if (&FlowPage{}).Kind().String() != "Flow" || (&FixedPage{}).Kind().String() != "Fixed" ||
		(&TablePage{}).Kind().String() != "Table" {
		t.Error("unexpected page kind names")
	}
	if (&MathEquation{}).BlockKind().String() != "MathEquation" {
		t.Error("unexpected block kind name")
	}
	if (&Diagram{}).FixedKindType().String() != "Diagram" {
		t.Error("unexpected fixed kind name")
	}
}

func TestWarningString(t *testing.T) {
	w := Warnf("body element 3", "unexpected %s", "panic")
	if w.String() != "body element 3: unexpected panic" {
		t.Errorf("String() = %q", w.String())
	}
	if (Warning{Reason: "only"}).String() != "only" {
		t.Error("reason-only warning should print reason")
	}
}

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument()
	doc.AddPage(&FlowPage{Size: SizeLetter})
	doc.AddPage(&FixedPage{Size: SizeSlide4x3})
	if doc.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", doc.PageCount())
	}
	if !SizeSlide4x3.Landscape() || SizeLetter.Landscape() {
		t.Error("Landscape() wrong")
	}
}
