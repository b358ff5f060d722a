package typst

import (
	"fmt"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// defaultLeading is Typst's line gap for single spacing, in em.
const defaultLeading = 0.65

// blocks renders flow content, one block per markup paragraph.
func (g *generator) blocks(blocks []model.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := g.block(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (g *generator) block(b model.Block) string {
	switch v := b.(type) {
	case *model.Paragraph:
		return g.paragraph(v)
	case *model.Table:
		return g.table(v)
	case *model.Image:
		return g.image(v, v.Width, v.Height)
	case *model.FloatingImage:
		return g.floatingImage(v)
	case *model.List:
		return g.list(v)
	case *model.MathEquation:
		return mathEquation(v)
	case *model.Chart:
		return g.chart(v)
	case *model.PageBreak:
		return "#pagebreak()"
	default:
		return ""
	}
}

// paragraph wraps the run markup in heading, par, align and pad calls as
// the style requires, with vertical space before and after.
func (g *generator) paragraph(p *model.Paragraph) string {
	body := g.runs(p.Runs)
	style := p.Style
	if body == "" && style.HeadingLevel == 0 {
		return "#v(1em)"
	}

	if style.HeadingLevel > 0 {
		body = fmt.Sprintf("#heading(level: %d)[%s]", min(style.HeadingLevel, 6), body)
	} else if args := parArgs(style); len(args) > 0 {
		body = "#par(" + strings.Join(args, ", ") + ")[" + body + "]"
	}

	switch style.Alignment {
	case model.AlignCenter:
		body = "#align(center)[" + body + "]"
	case model.AlignRight:
		body = "#align(right)[" + body + "]"
	}

	var pad []string
	if style.IndentLeft > 0 {
		pad = append(pad, "left: "+pt(style.IndentLeft))
	}
	if style.IndentRight > 0 {
		pad = append(pad, "right: "+pt(style.IndentRight))
	}
	if len(pad) > 0 {
		body = "#pad(" + strings.Join(pad, ", ") + ")[" + body + "]"
	}

	if v := style.SpaceBefore; v != nil && *v > 0 {
		body = "#v(" + pt(*v) + ", weak: true)\n" + body
	}
	if v := style.SpaceAfter; v != nil && *v > 0 {
		body += "\n#v(" + pt(*v) + ", weak: true)"
	}
	return body
}

func parArgs(style model.ParagraphStyle) []string {
	var args []string
	if style.Alignment == model.AlignJustify {
		args = append(args, "justify: true")
	}
	if ls := style.LineSpacing; ls != nil && ls.Value > 0 {
		switch ls.Kind {
		case model.LineSpacingProportional:
			if ls.Value != 1 {
				args = append(args, "leading: "+num(defaultLeading*ls.Value)+"em")
			}
		case model.LineSpacingExact:
			// The line height includes the glyphs; approximate them
			// with three quarters of an 11pt body size.
			args = append(args, "leading: "+pt(max(ls.Value-8.25, 1)))
		}
	}
	switch {
	case style.IndentFirstLine > 0:
		args = append(args, "first-line-indent: "+pt(style.IndentFirstLine))
	case style.IndentFirstLine < 0:
		args = append(args, "hanging-indent: "+pt(-style.IndentFirstLine))
	}
	return args
}

// runs renders a run sequence as inline markup.
func (g *generator) runs(runs []model.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(g.run(r))
	}
	return sb.String()
}

func (g *generator) run(r model.Run) string {
	if r.Footnote != nil {
		return "#footnote[" + g.blocks(r.Footnote) + "]"
	}
	if r.Text == "" {
		return ""
	}

	body := escapeText(r.Text)
	s := r.Style
	var args []string
	if s.Bold {
		args = append(args, `weight: "bold"`)
	}
	if s.Italic {
		args = append(args, `style: "italic"`)
	}
	if s.Size != nil && *s.Size > 0 {
		args = append(args, "size: "+pt(*s.Size))
	}
	if s.Color != nil {
		args = append(args, "fill: "+colorValue(*s.Color))
	}
	if font := fontValue(s.FontFamily); font != "" {
		args = append(args, "font: "+font)
	}
	if len(args) > 0 {
		body = "#text(" + strings.Join(args, ", ") + ")[" + body + "]"
	}
	if s.Underline {
		body = "#underline[" + body + "]"
	}
	if s.Strike {
		body = "#strike[" + body + "]"
	}
	if r.Href != "" {
		body = "#link(" + quote(r.Href) + ")[" + body + "]"
	}
	return body
}

// list renders items as markup list lines, indenting two spaces per
// nesting level. An ordered list numbers its first top-level item
// explicitly so a non-default start survives.
func (g *generator) list(l *model.List) string {
	var lines []string
	first := true
	for _, item := range l.Items {
		indent := strings.Repeat("  ", max(item.Level, 0))
		marker := "-"
		if l.Kind == model.ListOrdered {
			marker = "+"
			if first && item.Level == 0 && l.Start > 1 {
				marker = fmt.Sprintf("%d.", l.Start)
			}
		}
		if item.Level == 0 {
			first = false
		}
		lines = append(lines, indent+marker+" "+g.listItem(item.Content))
	}
	return strings.Join(lines, "\n")
}

// listItem renders item content on a single markup line. Anything but a
// lone plain paragraph is wrapped in a content block.
func (g *generator) listItem(content []model.Block) string {
	if len(content) == 1 {
		if p, ok := content[0].(*model.Paragraph); ok && p.Style.HeadingLevel == 0 {
			return g.runs(p.Runs)
		}
	}
	return "#[" + g.blocks(content) + "]"
}

func mathEquation(m *model.MathEquation) string {
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return ""
	}
	if m.Display {
		return "$ " + content + " $"
	}
	return "$" + content + "$"
}

// image renders a picture at the given size, or its intrinsic size when
// none is given. Formats Typst cannot embed become a labelled frame.
func (g *generator) image(img *model.Image, width, height *float64) string {
	w, h := imageSize(img, width, height)

	path, ok := g.assets.add(img)
	if !ok {
		return placeholder(img.AltText, w, h)
	}

	args := []string{quote(path)}
	if w > 0 {
		args = append(args, "width: "+pt(w))
	}
	if h > 0 {
		args = append(args, "height: "+pt(h))
	}
	if w > 0 && h > 0 {
		args = append(args, `fit: "stretch"`)
	}
	if img.AltText != "" {
		args = append(args, "alt: "+quote(img.AltText))
	}
	return "#image(" + strings.Join(args, ", ") + ")"
}

func imageSize(img *model.Image, width, height *float64) (float64, float64) {
	var w, h float64
	if width != nil {
		w = *width
	}
	if height != nil {
		h = *height
	}
	if w == 0 && h == 0 {
		if iw, ih, ok := img.IntrinsicSize(); ok {
			w, h = iw, ih
		}
	}
	return w, h
}

func placeholder(alt string, w, h float64) string {
	if w <= 0 {
		w = 72
	}
	if h <= 0 {
		h = 48
	}
	label := "image"
	if alt != "" {
		label = escapeText(alt)
	}
	return fmt.Sprintf("#rect(width: %s, height: %s, stroke: 0.5pt + luma(150))[#align(center + horizon)[%s]]",
		pt(w), pt(h), label)
}

// floatingImage places images that text does not flow around at their
// offset from the paragraph. Top-and-bottom wrapping keeps the image in
// the flow.
func (g *generator) floatingImage(f *model.FloatingImage) string {
	body := g.image(&f.Image, f.Image.Width, f.Image.Height)
	if f.Wrap == model.WrapTopAndBottom {
		return "#block(" + body[1:] + ")"
	}
	return fmt.Sprintf("#place(top + left, dx: %s, dy: %s)[%s]", pt(f.OffsetX), pt(f.OffsetY), body)
}
