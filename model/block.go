package model

// BlockKind identifies the variant of a Block.
type BlockKind int

const (
	BlockKindParagraph BlockKind = iota
	BlockKindTable
	BlockKindImage
	BlockKindFloatingImage
	BlockKindList
	BlockKindMath
	BlockKindChart
	BlockKindPageBreak
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindParagraph:
		return "Paragraph"
	case BlockKindTable:
		return "Table"
	case BlockKindImage:
		return "Image"
	case BlockKindFloatingImage:
		return "FloatingImage"
	case BlockKindList:
		return "List"
	case BlockKindMath:
		return "MathEquation"
	case BlockKindChart:
		return "Chart"
	case BlockKindPageBreak:
		return "PageBreak"
	default:
		return "Unknown"
	}
}

// Block is flow content. The variant set is closed; see BlockKind.
type Block interface {
	BlockKind() BlockKind
	isBlock()
}

// TextAlignment represents horizontal paragraph alignment.
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// LineSpacingKind distinguishes proportional from exact line spacing.
type LineSpacingKind int

const (
	// LineSpacingProportional multiplies the nominal single line height.
	LineSpacingProportional LineSpacingKind = iota
	// LineSpacingExact is a literal length in points.
	LineSpacingExact
)

// LineSpacing is either a multiplier or an exact length.
type LineSpacing struct {
	Kind  LineSpacingKind
	Value float64
}

// ParagraphStyle holds paragraph-level formatting. Lengths are in points.
type ParagraphStyle struct {
	Alignment       TextAlignment
	IndentLeft      float64
	IndentRight     float64
	IndentFirstLine float64 // negative for hanging indents
	LineSpacing     *LineSpacing
	SpaceBefore     *float64
	SpaceAfter      *float64
	HeadingLevel    int // 1-6, 0 for body text
}

// TextStyle holds run-level formatting.
type TextStyle struct {
	Bold       bool
	Italic     bool
	Underline  bool
	Strike     bool
	Size       *float64
	Color      *Color
	FontFamily string
}

// IsZero reports whether the style carries no formatting at all.
func (s TextStyle) IsZero() bool {
	return !s.Bold && !s.Italic && !s.Underline && !s.Strike &&
		s.Size == nil && s.Color == nil && s.FontFamily == ""
}

// Run is a span of uniformly formatted text.
type Run struct {
	Text  string
	Style TextStyle
	Href  string
	// Footnote, when set, makes the run a footnote reference; its Text is
	// not rendered inline.
	Footnote []Block
}

// Paragraph is a styled sequence of runs.
type Paragraph struct {
	Style ParagraphStyle
	Runs  []Run
}

func (p *Paragraph) BlockKind() BlockKind { return BlockKindParagraph }
func (p *Paragraph) isBlock()             {}

// PlainText returns the concatenated run text, skipping footnote references.
func (p *Paragraph) PlainText() string {
	var text string
	for _, r := range p.Runs {
		if r.Footnote != nil {
			continue
		}
		text += r.Text
	}
	return text
}

func (t *Table) BlockKind() BlockKind { return BlockKindTable }
func (t *Table) isBlock()             {}

// Image is an embedded raster or vector picture. Width and Height are the
// display size in points when the source specified one.
type Image struct {
	Data    []byte
	Format  ImageFormat
	Width   *float64
	Height  *float64
	AltText string
}

func (i *Image) BlockKind() BlockKind { return BlockKindImage }
func (i *Image) isBlock()             {}

// WrapMode is how flow text wraps around a floating image.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapSquare
	WrapTight
	WrapTopAndBottom
	WrapBehind
	WrapInFront
)

func (w WrapMode) String() string {
	switch w {
	case WrapSquare:
		return "square"
	case WrapTight:
		return "tight"
	case WrapTopAndBottom:
		return "topAndBottom"
	case WrapBehind:
		return "behind"
	case WrapInFront:
		return "inFront"
	default:
		return "none"
	}
}

// FloatingImage is an image anchored at an absolute offset from its
// paragraph.
type FloatingImage struct {
	Image   Image
	Wrap    WrapMode
	OffsetX float64
	OffsetY float64
}

func (f *FloatingImage) BlockKind() BlockKind { return BlockKindFloatingImage }
func (f *FloatingImage) isBlock()             {}

// ListKind distinguishes numbered from bulleted lists.
type ListKind int

const (
	ListUnordered ListKind = iota
	ListOrdered
)

// ListItem is a list entry. Level is the nesting depth, 0 for top level.
type ListItem struct {
	Content []Block
	Level   int
}

// List is an ordered or unordered list.
type List struct {
	Kind  ListKind
	Start int
	Items []ListItem
}

func (l *List) BlockKind() BlockKind { return BlockKindList }
func (l *List) isBlock()             {}

// MathEquation holds an equation already lowered to Typst math notation.
type MathEquation struct {
	Content string
	Display bool
}

func (m *MathEquation) BlockKind() BlockKind { return BlockKindMath }
func (m *MathEquation) isBlock()             {}

func (c *Chart) BlockKind() BlockKind { return BlockKindChart }
func (c *Chart) isBlock()             {}

// PageBreak forces subsequent content onto a new page.
type PageBreak struct{}

func (b *PageBreak) BlockKind() BlockKind { return BlockKindPageBreak }
func (b *PageBreak) isBlock()             {}
