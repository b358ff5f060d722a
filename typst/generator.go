package typst

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// PaperSize is a standard paper size a caller can force on flow and table
// pages.
type PaperSize int

const (
	PaperA4 PaperSize = iota
	PaperLetter
	PaperLegal
	PaperA3
	PaperA5
)

var paperNames = []string{"a4", "letter", "legal", "a3", "a5"}

func (p PaperSize) String() string {
	if int(p) < 0 || int(p) >= len(paperNames) {
		return "unknown"
	}
	return paperNames[p]
}

// Size returns the portrait dimensions of the paper in points.
func (p PaperSize) Size() model.Size {
	switch p {
	case PaperLetter:
		return model.SizeLetter
	case PaperLegal:
		return model.Size{Width: 612, Height: 1008}
	case PaperA3:
		return model.Size{Width: 841.89, Height: 1190.55}
	case PaperA5:
		return model.Size{Width: 419.53, Height: 595.28}
	default:
		return model.SizeA4
	}
}

// ParsePaperSize parses a case-insensitive paper name such as "a4" or
// "Letter".
func ParsePaperSize(s string) (PaperSize, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range paperNames {
		if s == name {
			return PaperSize(i), true
		}
	}
	return 0, false
}

// Options adjusts page geometry during generation. Both overrides apply to
// flow and table pages only; slides keep their authored size.
type Options struct {
	// PaperSize replaces the page size.
	PaperSize *PaperSize
	// Landscape forces the orientation. Width and height are swapped only
	// when the page's orientation disagrees.
	Landscape *bool
}

// pageSize applies the overrides to a flow or table page size.
func (o Options) pageSize(size model.Size) model.Size {
	if o.PaperSize != nil {
		size = o.PaperSize.Size()
	}
	if o.Landscape != nil && *o.Landscape != size.Landscape() {
		size.Width, size.Height = size.Height, size.Width
	}
	return size
}

// ErrNilDocument is returned by Generate when given no document.
var ErrNilDocument = errors.New("nil document")

// generator accumulates markup and image assets for one document.
type generator struct {
	opts   Options
	sb     strings.Builder
	assets *assetSet
}

// Generate lowers doc into Typst markup and the image assets it
// references.
func Generate(doc *model.Document, opts Options) (string, []model.ImageAsset, error) {
	if doc == nil {
		return "", nil, ErrNilDocument
	}

	g := &generator{opts: opts, assets: newAssetSet()}
	g.preamble(doc.Metadata)

	for i, page := range doc.Pages {
		var err error
		switch p := page.(type) {
		case *model.FlowPage:
			g.flowPage(p)
		case *model.FixedPage:
			g.fixedPage(p)
		case *model.TablePage:
			g.tablePage(p)
		default:
			err = fmt.Errorf("page %d: unsupported page type %T", i+1, page)
		}
		if err != nil {
			return "", nil, err
		}
	}
	return g.sb.String(), g.assets.list(), nil
}

func (g *generator) preamble(meta model.Metadata) {
	var args []string
	if meta.Title != "" {
		args = append(args, "title: "+quote(meta.Title))
	}
	if meta.Author != "" {
		args = append(args, "author: "+quote(meta.Author))
	}
	if meta.Created != nil {
		t := meta.Created.UTC()
		args = append(args, fmt.Sprintf("date: datetime(year: %d, month: %d, day: %d)", t.Year(), int(t.Month()), t.Day()))
	}
	if len(args) > 0 {
		fmt.Fprintf(&g.sb, "#set document(%s)\n", strings.Join(args, ", "))
	}
	g.sb.WriteString("#set table(stroke: none)\n\n")
}

// pageCall writes #page(args)[body].
func (g *generator) pageCall(args []string, body string) {
	fmt.Fprintf(&g.sb, "#page(%s)[\n%s\n]\n\n", strings.Join(args, ", "), body)
}

func sizeArgs(size model.Size) []string {
	return []string{"width: " + pt(size.Width), "height: " + pt(size.Height)}
}

func marginArg(m model.Margins) string {
	return fmt.Sprintf("margin: (top: %s, right: %s, bottom: %s, left: %s)",
		pt(m.Top), pt(m.Right), pt(m.Bottom), pt(m.Left))
}

func (g *generator) headerFooterArgs(header, footer *model.HeaderFooter) []string {
	var args []string
	if header != nil && len(header.Blocks) > 0 {
		args = append(args, "header: ["+g.blocks(header.Blocks)+"]")
	}
	if footer != nil && len(footer.Blocks) > 0 {
		args = append(args, "footer: ["+g.blocks(footer.Blocks)+"]")
	}
	return args
}

func (g *generator) flowPage(p *model.FlowPage) {
	args := sizeArgs(g.opts.pageSize(p.Size))
	args = append(args, marginArg(p.Margins))
	args = append(args, g.headerFooterArgs(p.Header, p.Footer)...)
	g.pageCall(args, g.blocks(p.Blocks))
}

func (g *generator) tablePage(p *model.TablePage) {
	args := sizeArgs(g.opts.pageSize(p.Size))
	args = append(args, marginArg(p.Margins))
	args = append(args, g.headerFooterArgs(p.Header, p.Footer)...)

	var parts []string
	if p.Table == nil || len(p.Table.Rows) == 0 {
		for _, ac := range p.Charts {
			parts = append(parts, g.chart(ac.Chart))
		}
		g.pageCall(args, strings.Join(parts, "\n\n"))
		return
	}

	// Charts sit between row groups: each chart anchored at row r is
	// emitted before the slice of the table that starts at r.
	plan := planGrid(p.Table)
	start := 0
	for _, ac := range p.Charts {
		row := min(max(ac.Row, 0), len(p.Table.Rows))
		if row > start {
			parts = append(parts, g.tableRows(p.Table, plan, start, row))
			start = row
		}
		parts = append(parts, g.chart(ac.Chart))
	}
	if start < len(p.Table.Rows) {
		parts = append(parts, g.tableRows(p.Table, plan, start, len(p.Table.Rows)))
	}
	g.pageCall(args, strings.Join(parts, "\n\n"))
}

func (g *generator) fixedPage(p *model.FixedPage) {
	args := sizeArgs(p.Size)
	args = append(args, "margin: 0pt")
	if fill := fillValue(p.Background, nil); fill != "" {
		args = append(args, "fill: "+fill)
	}

	var parts []string
	for i := range p.Elements {
		parts = append(parts, g.fixedElement(&p.Elements[i])...)
	}
	g.pageCall(args, strings.Join(parts, "\n"))
}
