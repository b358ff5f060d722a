package model

import "sort"

// FixedKindType identifies the variant of a FixedKind.
type FixedKindType int

const (
	FixedTextBox FixedKindType = iota
	FixedImage
	FixedShape
	FixedTable
	FixedDiagram
	FixedChart
)

func (k FixedKindType) String() string {
	switch k {
	case FixedTextBox:
		return "TextBox"
	case FixedImage:
		return "Image"
	case FixedShape:
		return "Shape"
	case FixedTable:
		return "Table"
	case FixedDiagram:
		return "Diagram"
	case FixedChart:
		return "Chart"
	default:
		return "Unknown"
	}
}

// FixedElement is an absolutely positioned element on a FixedPage. All
// geometry is in points relative to the page's top-left corner.
type FixedElement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Kind   FixedKind
}

// FixedKind is implemented by *TextBox, *ImageElement, *Shape,
// *TableElement, *Diagram and *ChartElement.
type FixedKind interface {
	FixedKindType() FixedKindType
	isFixedKind()
}

// TextBox holds flow blocks clipped to the element's frame.
type TextBox struct {
	Blocks []Block
}

func (t *TextBox) FixedKindType() FixedKindType { return FixedTextBox }
func (t *TextBox) isFixedKind()                 {}

// ImageElement is a positioned picture.
type ImageElement struct {
	Image Image
}

func (i *ImageElement) FixedKindType() FixedKindType { return FixedImage }
func (i *ImageElement) isFixedKind()                 {}

// ShapeGeometry is the outline of a Shape.
type ShapeGeometry int

const (
	GeometryRectangle ShapeGeometry = iota
	GeometryEllipse
	GeometryLine
	GeometryRoundedRectangle
	GeometryPolygon
)

func (g ShapeGeometry) String() string {
	switch g {
	case GeometryEllipse:
		return "ellipse"
	case GeometryLine:
		return "line"
	case GeometryRoundedRectangle:
		return "roundRect"
	case GeometryPolygon:
		return "polygon"
	default:
		return "rect"
	}
}

// Point is a 2D point in points.
type Point struct {
	X, Y float64
}

// Shape is a drawn geometric primitive.
type Shape struct {
	Geometry ShapeGeometry
	// Points are polygon vertices relative to the element origin.
	Points   []Point
	Fill     *Fill
	Stroke   *Stroke
	Rotation float64  // degrees clockwise
	Opacity  *float64 // 0-1
	Shadow   *Shadow
	// FlipH and FlipV mirror a line across its frame.
	FlipH bool
	FlipV bool
}

func (s *Shape) FixedKindType() FixedKindType { return FixedShape }
func (s *Shape) isFixedKind()                 {}

// TableElement is a positioned table.
type TableElement struct {
	Table *Table
}

func (t *TableElement) FixedKindType() FixedKindType { return FixedTable }
func (t *TableElement) isFixedKind()                 {}

// DiagramNode is one node of a flattened diagram graph.
type DiagramNode struct {
	Text  string
	Depth int
}

// Diagram is a positioned diagram rendered as a nested node list.
type Diagram struct {
	Nodes []DiagramNode
}

func (d *Diagram) FixedKindType() FixedKindType { return FixedDiagram }
func (d *Diagram) isFixedKind()                 {}

// ChartElement is a positioned chart.
type ChartElement struct {
	Chart *Chart
}

func (c *ChartElement) FixedKindType() FixedKindType { return FixedChart }
func (c *ChartElement) isFixedKind()                 {}

// Fill is a solid colour or a linear gradient. When both are set the
// gradient wins.
type Fill struct {
	Solid    *Color
	Gradient *Gradient
}

// SolidFill returns a fill of a single colour.
func SolidFill(c Color) *Fill {
	return &Fill{Solid: &c}
}

// IsEmpty reports whether the fill paints nothing.
func (f *Fill) IsEmpty() bool {
	return f == nil || (f.Solid == nil && (f.Gradient == nil || len(f.Gradient.Stops) == 0))
}

// Gradient is a linear gradient. Angle is in degrees, 0 running left to
// right and increasing clockwise.
type Gradient struct {
	Stops []GradientStop
	Angle float64
}

// GradientStop is a colour at a relative offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// NormalizedStops returns the stops sorted by offset with the first pinned
// to 0 and the last to 1, clamping every offset into [0, 1]. The receiver is
// left untouched.
func (g *Gradient) NormalizedStops() []GradientStop {
	if g == nil || len(g.Stops) == 0 {
		return nil
	}
	stops := make([]GradientStop, len(g.Stops))
	copy(stops, g.Stops)
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Offset < stops[j].Offset
	})
	for i := range stops {
		if stops[i].Offset < 0 {
			stops[i].Offset = 0
		}
		if stops[i].Offset > 1 {
			stops[i].Offset = 1
		}
	}
	stops[0].Offset = 0
	if len(stops) > 1 {
		stops[len(stops)-1].Offset = 1
	}
	return stops
}

// Stroke is an outline.
type Stroke struct {
	Width float64 // points
	Color Color
	Dash  BorderStyle
}

// Shadow is an outer drop shadow. Distance is in points and Direction in
// degrees clockwise from the positive x axis.
type Shadow struct {
	Color      Color
	BlurRadius float64
	Distance   float64
	Direction  float64
	Opacity    float64
}
