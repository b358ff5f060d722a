package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tsawler/officeconv/model"
)

// transform maps shape coordinates (EMU in the enclosing group's child
// space) to page points.
type transform struct {
	scaleX, scaleY float64
	offX, offY     float64
}

var rootTransform = transform{scaleX: 1, scaleY: 1}

func (t transform) x(v int64) float64 { return model.EMUToPoints(float64(v))*t.scaleX + t.offX }
func (t transform) y(v int64) float64 { return model.EMUToPoints(float64(v))*t.scaleY + t.offY }

// width and height scale a length without offsetting it.
func (t transform) width(v int64) float64  { return model.EMUToPoints(float64(v)) * t.scaleX }
func (t transform) height(v int64) float64 { return model.EMUToPoints(float64(v)) * t.scaleY }

// child returns the transform for the members of a group whose own frame
// is xf.
func (t transform) child(xf *xfrmXML) transform {
	if xf == nil {
		return t
	}
	sx, sy := 1.0, 1.0
	if xf.ChExt.Cx > 0 {
		sx = float64(xf.Ext.Cx) / float64(xf.ChExt.Cx)
	}
	if xf.ChExt.Cy > 0 {
		sy = float64(xf.Ext.Cy) / float64(xf.ChExt.Cy)
	}
	return transform{
		scaleX: t.scaleX * sx,
		scaleY: t.scaleY * sy,
		offX:   t.x(xf.Off.X) - t.width(xf.ChOff.X)*sx,
		offY:   t.y(xf.Off.Y) - t.height(xf.ChOff.Y)*sy,
	}
}

// frame returns the page-space box of xf.
func (t transform) frame(xf *xfrmXML) (x, y, w, h float64) {
	return t.x(xf.Off.X), t.y(xf.Off.Y), t.width(xf.Ext.Cx), t.height(xf.Ext.Cy)
}

// walkerState is where the walker sits in the slide tree.
type walkerState int

const (
	stateOutside walkerState = iota // before p:cSld
	stateSlide                      // inside p:cSld, outside the shape tree
	stateTree                       // inside p:spTree or a p:grpSp
)

// slideWalker streams a slide part. Shapes are decoded whole, so their
// descendants never reach the walker; only groups nest, and each open
// group pushes a transform.
type slideWalker struct {
	c      *converter
	d      *xml.Decoder
	page   *model.FixedPage
	state  walkerState
	groups []transform
	shapes int
}

func (c *converter) walkSlide(data []byte, page *model.FixedPage) error {
	w := &slideWalker{
		c:    c,
		d:    xml.NewDecoder(bytes.NewReader(data)),
		page: page,
	}
	for {
		tok, err := w.d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := w.step(tok); err != nil {
			return err
		}
	}
}

func (w *slideWalker) step(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return w.start(t)
	case xml.EndElement:
		switch t.Name.Local {
		case "spTree", "grpSp":
			if len(w.groups) > 0 {
				w.groups = w.groups[:len(w.groups)-1]
			}
			if len(w.groups) == 0 {
				w.state = stateSlide
			}
		}
	}
	return nil
}

func (w *slideWalker) start(t xml.StartElement) error {
	switch w.state {
	case stateOutside:
		if t.Name.Local == "cSld" {
			w.state = stateSlide
		}
		return nil
	case stateSlide:
		switch t.Name.Local {
		case "bg":
			var bg bgXML
			if err := w.d.DecodeElement(&bg, &t); err != nil {
				return err
			}
			w.page.Background = w.c.background(&bg)
		case "spTree":
			w.groups = append(w.groups, rootTransform)
			w.state = stateTree
		default:
			return w.d.Skip()
		}
		return nil
	}

	top := w.groups[len(w.groups)-1]
	switch t.Name.Local {
	case "grpSp":
		// The group's own grpSpPr replaces this entry once read.
		w.groups = append(w.groups, top)
	case "grpSpPr":
		var pr grpSpPrXML
		if err := w.d.DecodeElement(&pr, &t); err != nil {
			return err
		}
		if len(w.groups) > 1 {
			parent := w.groups[len(w.groups)-2]
			w.groups[len(w.groups)-1] = parent.child(pr.Xfrm)
		}
	case "sp", "cxnSp":
		var sp spXML
		if err := w.d.DecodeElement(&sp, &t); err != nil {
			return err
		}
		w.emit(func() []model.FixedElement { return w.c.shape(&sp, top) })
	case "pic":
		var pic picXML
		if err := w.d.DecodeElement(&pic, &t); err != nil {
			return err
		}
		w.emit(func() []model.FixedElement { return w.c.picture(&pic, top) })
	case "graphicFrame":
		var gf graphicFrameXML
		if err := w.d.DecodeElement(&gf, &t); err != nil {
			return err
		}
		w.emit(func() []model.FixedElement { return w.c.graphicFrame(&gf, top) })
	case "AlternateContent", "Choice":
		// Transparent: the preferred choice is walked in place.
	default:
		// Fallback, nvGrpSpPr, extLst and anything unknown.
		return w.d.Skip()
	}
	return nil
}

// emit converts one shape in isolation and appends its elements.
func (w *slideWalker) emit(convert func() []model.FixedElement) {
	element := fmt.Sprintf("slide %d shape %d", w.c.slide, w.shapes)
	w.shapes++
	w.c.isolate(element, func() {
		w.page.Elements = append(w.page.Elements, convert()...)
	})
}
