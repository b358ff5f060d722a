package model

// PageKind identifies the variant of a Page.
type PageKind int

const (
	PageKindFlow PageKind = iota
	PageKindFixed
	PageKindTable
)

func (k PageKind) String() string {
	switch k {
	case PageKindFlow:
		return "Flow"
	case PageKindFixed:
		return "Fixed"
	case PageKindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Page is implemented by *FlowPage, *FixedPage and *TablePage only.
type Page interface {
	Kind() PageKind
	PageSize() Size
	isPage()
}

// Size is a width/height pair in points.
type Size struct {
	Width  float64
	Height float64
}

// Landscape reports whether the size is wider than it is tall.
func (s Size) Landscape() bool {
	return s.Width > s.Height
}

// Margins holds page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargins returns margins with the same value on every side.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// Standard page geometries.
var (
	// SizeLetter is US Letter portrait.
	SizeLetter = Size{Width: 612, Height: 792}
	// SizeA4 is ISO A4 portrait.
	SizeA4 = Size{Width: 595.28, Height: 841.89}
	// SizeSlide4x3 is the default 10in x 7.5in presentation slide.
	SizeSlide4x3 = Size{Width: 720, Height: 540}
	// DefaultMargins is one inch on every side.
	DefaultMargins = UniformMargins(72)
)

// HeaderFooter is the repeating content at the top or bottom of a page.
type HeaderFooter struct {
	Blocks []Block
}

// FlowPage is a reflowable text page.
type FlowPage struct {
	Size    Size
	Margins Margins
	Blocks  []Block
	Header  *HeaderFooter
	Footer  *HeaderFooter
}

func (p *FlowPage) Kind() PageKind { return PageKindFlow }
func (p *FlowPage) PageSize() Size { return p.Size }
func (p *FlowPage) isPage()        {}

// FixedPage is an absolutely positioned page such as a slide.
type FixedPage struct {
	Size       Size
	Background *Fill
	Elements   []FixedElement
}

func (p *FixedPage) Kind() PageKind { return PageKindFixed }
func (p *FixedPage) PageSize() Size { return p.Size }
func (p *FixedPage) isPage()        {}

// AnchoredChart is a chart placed before the given 0-indexed table row.
type AnchoredChart struct {
	Row   int
	Chart *Chart
}

// TablePage holds a single spreadsheet sheet.
type TablePage struct {
	Name    string
	Size    Size
	Margins Margins
	Table   *Table
	Header  *HeaderFooter
	Footer  *HeaderFooter
	Charts  []AnchoredChart
}

func (p *TablePage) Kind() PageKind { return PageKindTable }
func (p *TablePage) PageSize() Size { return p.Size }
func (p *TablePage) isPage()        {}
