package pptx

import (
	"math"

	"github.com/tsawler/officeconv/model"
)

// presetGeometry maps a prstGeom name to a geometry, computing polygon
// vertices for the frame size w x h where the preset is a polygon.
// Unknown presets fall back to a rectangle.
func presetGeometry(prst string, w, h float64) (model.ShapeGeometry, []model.Point) {
	pts := func(coords ...float64) []model.Point {
		out := make([]model.Point, 0, len(coords)/2)
		for i := 0; i+1 < len(coords); i += 2 {
			out = append(out, model.Point{X: coords[i] * w, Y: coords[i+1] * h})
		}
		return out
	}

	switch prst {
	case "", "rect":
		return model.GeometryRectangle, nil
	case "ellipse", "circle":
		return model.GeometryEllipse, nil
	case "roundRect", "snipRoundRect", "round1Rect", "round2SameRect":
		return model.GeometryRoundedRectangle, nil
	case "line", "straightConnector1", "bentConnector2", "bentConnector3", "curvedConnector3":
		return model.GeometryLine, nil
	case "triangle":
		return model.GeometryPolygon, pts(0.5, 0, 1, 1, 0, 1)
	case "rtTriangle":
		return model.GeometryPolygon, pts(0, 0, 1, 1, 0, 1)
	case "diamond":
		return model.GeometryPolygon, pts(0.5, 0, 1, 0.5, 0.5, 1, 0, 0.5)
	case "parallelogram":
		return model.GeometryPolygon, pts(0.25, 0, 1, 0, 0.75, 1, 0, 1)
	case "trapezoid":
		return model.GeometryPolygon, pts(0.25, 0, 0.75, 0, 1, 1, 0, 1)
	case "pentagon", "homePlate":
		return model.GeometryPolygon, pts(0, 0, 0.8, 0, 1, 0.5, 0.8, 1, 0, 1)
	case "chevron":
		return model.GeometryPolygon, pts(0, 0, 0.8, 0, 1, 0.5, 0.8, 1, 0, 1, 0.2, 0.5)
	case "rightArrow":
		return model.GeometryPolygon, pts(0, 0.25, 0.6, 0.25, 0.6, 0, 1, 0.5, 0.6, 1, 0.6, 0.75, 0, 0.75)
	case "leftArrow":
		return model.GeometryPolygon, pts(1, 0.25, 0.4, 0.25, 0.4, 0, 0, 0.5, 0.4, 1, 0.4, 0.75, 1, 0.75)
	case "upArrow":
		return model.GeometryPolygon, pts(0.25, 1, 0.25, 0.4, 0, 0.4, 0.5, 0, 1, 0.4, 0.75, 0.4, 0.75, 1)
	case "downArrow":
		return model.GeometryPolygon, pts(0.25, 0, 0.75, 0, 0.75, 0.6, 1, 0.6, 0.5, 1, 0, 0.6, 0.25, 0.6)
	case "hexagon":
		return model.GeometryPolygon, pts(0.25, 0, 0.75, 0, 1, 0.5, 0.75, 1, 0.25, 1, 0, 0.5)
	case "octagon":
		return model.GeometryPolygon, pts(0.3, 0, 0.7, 0, 1, 0.3, 1, 0.7, 0.7, 1, 0.3, 1, 0, 0.7, 0, 0.3)
	case "plus":
		return model.GeometryPolygon, pts(0.25, 0, 0.75, 0, 0.75, 0.25, 1, 0.25, 1, 0.75, 0.75, 0.75,
			0.75, 1, 0.25, 1, 0.25, 0.75, 0, 0.75, 0, 0.25, 0.25, 0.25)
	case "star5":
		return model.GeometryPolygon, regularStar(5, w, h)
	default:
		return model.GeometryRectangle, nil
	}
}

// regularStar returns the vertices of an n-pointed star inscribed in the
// frame, starting at the top.
func regularStar(n int, w, h float64) []model.Point {
	const innerRatio = 0.382
	out := make([]model.Point, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		r := 0.5
		if i%2 == 1 {
			r *= innerRatio
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/float64(n)
		out = append(out, model.Point{
			X: w * (0.5 + r*math.Cos(angle)),
			Y: h * (0.5 + r*math.Sin(angle)),
		})
	}
	return out
}
