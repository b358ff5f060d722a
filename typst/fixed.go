package typst

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/officeconv/model"
)

func colorValue(c model.Color) string {
	return fmt.Sprintf("rgb(%q)", c.Hex())
}

// withOpacity applies an opacity in [0, 1] to a rendered paint.
func withOpacity(paint string, opacity *float64) string {
	if opacity == nil || *opacity >= 1 {
		return paint
	}
	transparent := (1 - max(*opacity, 0)) * 100
	return paint + ".transparentize(" + num(transparent) + "%)"
}

// fillValue renders a fill as a Typst paint, or "" for an empty fill. A
// gradient wins over a solid colour; a gradient with a single stop is
// painted as that colour.
func fillValue(f *model.Fill, opacity *float64) string {
	if f.IsEmpty() {
		return ""
	}
	if f.Gradient != nil {
		stops := f.Gradient.NormalizedStops()
		switch {
		case len(stops) >= 2:
			return gradientValue(stops, f.Gradient.Angle, opacity)
		case len(stops) == 1:
			return withOpacity(colorValue(stops[0].Color), opacity)
		}
	}
	if f.Solid != nil {
		return withOpacity(colorValue(*f.Solid), opacity)
	}
	return ""
}

func gradientValue(stops []model.GradientStop, angle float64, opacity *float64) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = fmt.Sprintf("(%s, %s%%)", withOpacity(colorValue(s.Color), opacity), num(s.Offset*100))
	}
	return fmt.Sprintf("gradient.linear(%s, angle: %sdeg)", strings.Join(parts, ", "), num(angle))
}

// fixedElement renders one absolutely positioned element. A shape with a
// shadow yields two placements, the shadow first.
func (g *generator) fixedElement(e *model.FixedElement) []string {
	place := func(dx, dy float64, body string) string {
		return fmt.Sprintf("#place(top + left, dx: %s, dy: %s)[%s]", pt(dx), pt(dy), body)
	}

	switch k := e.Kind.(type) {
	case *model.TextBox:
		body := g.blocks(k.Blocks)
		if body == "" {
			return nil
		}
		return []string{place(e.X, e.Y, fmt.Sprintf("#block(width: %s, height: %s)[%s]", pt(e.Width), pt(e.Height), body))}
	case *model.ImageElement:
		w, h := e.Width, e.Height
		return []string{place(e.X, e.Y, g.image(&k.Image, &w, &h))}
	case *model.Shape:
		var out []string
		if sh := k.Shadow; sh != nil && (sh.Distance > 0 || sh.BlurRadius > 0) {
			rad := sh.Direction * math.Pi / 180
			dx := e.X + sh.Distance*math.Cos(rad)
			dy := e.Y + sh.Distance*math.Sin(rad)
			opacity := sh.Opacity
			if opacity <= 0 {
				opacity = 1
			}
			shadow := &model.Shape{
				Geometry: k.Geometry,
				Points:   k.Points,
				Fill:     model.SolidFill(sh.Color),
				Rotation: k.Rotation,
				Opacity:  &opacity,
				FlipH:    k.FlipH,
				FlipV:    k.FlipV,
			}
			if k.Geometry == model.GeometryLine && k.Stroke != nil {
				shadow.Stroke = &model.Stroke{Width: k.Stroke.Width, Color: sh.Color}
			}
			out = append(out, place(dx, dy, shape(shadow, e.Width, e.Height)))
		}
		return append(out, place(e.X, e.Y, shape(k, e.Width, e.Height)))
	case *model.TableElement:
		body := g.table(k.Table)
		if body == "" {
			return nil
		}
		return []string{place(e.X, e.Y, fmt.Sprintf("#block(width: %s)[%s]", pt(e.Width), body))}
	case *model.Diagram:
		body := diagram(k)
		if body == "" {
			return nil
		}
		return []string{place(e.X, e.Y, fmt.Sprintf("#block(width: %s)[%s]", pt(e.Width), body))}
	case *model.ChartElement:
		body := g.chart(k.Chart)
		if body == "" {
			return nil
		}
		return []string{place(e.X, e.Y, fmt.Sprintf("#block(width: %s)[%s]", pt(e.Width), body))}
	default:
		return nil
	}
}

// shape renders a geometric primitive sized w x h, rotated about its
// centre.
func shape(s *model.Shape, w, h float64) string {
	var args []string
	if fill := fillValue(s.Fill, s.Opacity); fill != "" && s.Geometry != model.GeometryLine {
		args = append(args, "fill: "+fill)
	}
	if st := s.Stroke; st != nil && st.Width > 0 {
		args = append(args, "stroke: "+strokeValue(st.Width, st.Color, st.Dash))
	} else if s.Geometry != model.GeometryLine {
		args = append(args, "stroke: none")
	}

	var body string
	switch s.Geometry {
	case model.GeometryEllipse:
		body = fmt.Sprintf("ellipse(width: %s, height: %s, %s)", pt(w), pt(h), strings.Join(args, ", "))
	case model.GeometryLine:
		x0, y0, x1, y1 := 0.0, 0.0, w, h
		if s.FlipH {
			x0, x1 = x1, x0
		}
		if s.FlipV {
			y0, y1 = y1, y0
		}
		line := []string{fmt.Sprintf("start: (%s, %s)", pt(x0), pt(y0)), fmt.Sprintf("end: (%s, %s)", pt(x1), pt(y1))}
		body = "line(" + strings.Join(append(line, args...), ", ") + ")"
	case model.GeometryPolygon:
		if len(s.Points) < 3 {
			body = fmt.Sprintf("rect(width: %s, height: %s, %s)", pt(w), pt(h), strings.Join(args, ", "))
			break
		}
		verts := make([]string, len(s.Points))
		for i, p := range s.Points {
			verts[i] = fmt.Sprintf("(%s, %s)", pt(p.X), pt(p.Y))
		}
		body = "polygon(" + strings.Join(append(args, verts...), ", ") + ")"
	case model.GeometryRoundedRectangle:
		radius := min(w, h) / 6
		body = fmt.Sprintf("rect(width: %s, height: %s, radius: %s, %s)", pt(w), pt(h), pt(radius), strings.Join(args, ", "))
	default:
		body = fmt.Sprintf("rect(width: %s, height: %s, %s)", pt(w), pt(h), strings.Join(args, ", "))
	}

	if s.Rotation != 0 {
		return fmt.Sprintf("#rotate(%sdeg, origin: center, %s)", num(s.Rotation), body)
	}
	return "#" + body
}

// diagram renders nodes as a vertical stack of framed boxes indented by
// depth.
func diagram(d *model.Diagram) string {
	var nodes []string
	for _, n := range d.Nodes {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			continue
		}
		nodes = append(nodes, fmt.Sprintf("pad(left: %s, box(stroke: 0.5pt + luma(120), inset: 4pt, radius: 2pt)[%s])",
			pt(float64(max(n.Depth, 0))*12), escapeText(text)))
	}
	if len(nodes) == 0 {
		return ""
	}
	return "#stack(spacing: 4pt, " + strings.Join(nodes, ", ") + ")"
}

// chart renders a chart as a captioned data table with one row per
// category and one column per series. Pie charts add each slice's share
// of the first series.
func (g *generator) chart(c *model.Chart) string {
	if c == nil {
		return ""
	}
	n := c.Len()
	if n == 0 && len(c.Series) == 0 {
		return ""
	}

	pie := c.Type == model.ChartPie && len(c.Series) > 0
	var total float64
	if pie {
		for i := 0; i < n; i++ {
			total += c.Value(0, i)
		}
	}

	columns := 1 + len(c.Series)
	if pie {
		columns++
	}

	cells := []string{"[]"}
	for i, s := range c.Series {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		cells = append(cells, "[*"+escapeText(name)+"*]")
	}
	if pie {
		cells = append(cells, "[*%*]")
	}

	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%d", i+1)
		if i < len(c.Categories) && c.Categories[i] != "" {
			label = c.Categories[i]
		}
		cells = append(cells, "["+escapeText(label)+"]")
		for s := range c.Series {
			cells = append(cells, "["+escapeText(num(c.Value(s, i)))+"]")
		}
		if pie {
			share := 0.0
			if total != 0 {
				share = c.Value(0, i) / total * 100
			}
			cells = append(cells, "["+escapeText(num(math.Round(share*10)/10)+"%")+"]")
		}
	}

	table := fmt.Sprintf("table(columns: %d, stroke: 0.5pt + luma(180), %s)", columns, strings.Join(cells, ", "))
	caption := c.Type.String() + " chart"
	if c.Title != "" {
		caption = c.Title
	}
	return fmt.Sprintf("#figure(%s, caption: [%s])", table, escapeText(caption))
}
