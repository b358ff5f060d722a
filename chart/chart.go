// Package chart reads DrawingML chart parts (c:chartSpace) into model.Chart.
package chart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// ErrNoChart is returned when a part holds no recognisable plot.
var ErrNoChart = errors.New("no chart plot found")

// ErrPointIndex is returned when a cached point carries an idx outside
// [0, MaxPoints).
var ErrPointIndex = errors.New("chart point index out of range")

// MaxPoints bounds the number of cached points read per series.
const MaxPoints = 1 << 16

// Parse decodes a chart part.
func Parse(data []byte) (*model.Chart, error) {
	p := NewParser()
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding chart: %w", err)
		}
		p.step(tok)
	}
	return p.Result()
}

// points collects cached values keyed by their idx attribute.
type points map[int]string

func (pts points) strings() []string {
	if len(pts) == 0 {
		return nil
	}
	max := -1
	for idx := range pts {
		if idx > max {
			max = idx
		}
	}
	out := make([]string, max+1)
	for idx, v := range pts {
		out[idx] = v
	}
	return out
}

func (pts points) floats() []float64 {
	strs := pts.strings()
	out := make([]float64, len(strs))
	for i, s := range strs {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			out[i] = v
		}
	}
	return out
}

// seriesState is a c:ser element being read.
type seriesState struct {
	order int
	name  string
	cats  points
	vals  points
	xVals points
}

// Parser is the chart state machine. Feed it tokens with step and collect
// the chart with Result.
type Parser struct {
	chartType model.ChartType
	typeFound bool
	barDir    string

	// Element flags.
	inTitle   bool // c:title directly under c:chart
	inTitleT  bool // a:t inside the chart title
	inSer     bool
	inTx      bool
	inCat     bool
	inVal     bool
	inXVal    bool
	inYVal    bool
	inV       bool
	depth     int
	titleFrom int // depth of the chart title element

	stack   []string
	ptIdx   int    // -1 while inside a rejected c:pt
	badIdx  string // first rejected idx attribute
	title   strings.Builder
	text    strings.Builder
	current *seriesState
	series  []*seriesState
}

// NewParser returns an empty chart parser.
func NewParser() *Parser {
	return &Parser{chartType: model.ChartOther}
}

func (p *Parser) parent() string {
	if len(p.stack) < 2 {
		return ""
	}
	return p.stack[len(p.stack)-2]
}

func (p *Parser) step(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		p.stack = append(p.stack, t.Name.Local)
		p.depth++
		p.start(t)
	case xml.CharData:
		if p.inTitleT {
			p.title.Write(t)
		}
		if p.inV {
			p.text.Write(t)
		}
	case xml.EndElement:
		p.end(t)
		p.depth--
		if len(p.stack) > 0 {
			p.stack = p.stack[:len(p.stack)-1]
		}
	}
}

func (p *Parser) start(t xml.StartElement) {
	switch t.Name.Local {
	case "barChart", "bar3DChart":
		p.setType(model.ChartColumn)
	case "lineChart", "line3DChart", "stockChart":
		p.setType(model.ChartLine)
	case "pieChart", "pie3DChart", "doughnutChart", "ofPieChart":
		p.setType(model.ChartPie)
	case "areaChart", "area3DChart":
		p.setType(model.ChartArea)
	case "scatterChart", "bubbleChart":
		p.setType(model.ChartScatter)
	case "radarChart", "surfaceChart", "surface3DChart":
		p.setType(model.ChartOther)
	case "barDir":
		if p.barDir == "" {
			p.barDir = attr(t, "val")
		}
	case "title":
		if p.parent() == "chart" {
			p.inTitle = true
			p.titleFrom = p.depth
		}
	case "t":
		if p.inTitle {
			p.inTitleT = true
		}
	case "ser":
		p.inSer = true
		p.current = &seriesState{
			order: len(p.series),
			cats:  points{},
			vals:  points{},
			xVals: points{},
		}
	case "order":
		if p.inSer && p.current != nil {
			if v, err := strconv.Atoi(attr(t, "val")); err == nil {
				p.current.order = v
			}
		}
	case "tx":
		if p.inSer {
			p.inTx = true
		}
	case "cat":
		p.inCat = p.inSer
	case "val":
		p.inVal = p.inSer
	case "xVal":
		p.inXVal = p.inSer
	case "yVal":
		p.inYVal = p.inSer
	case "pt":
		p.ptIdx = 0
		if v := attr(t, "idx"); v != "" {
			idx, err := strconv.Atoi(v)
			if err != nil || idx < 0 || idx >= MaxPoints {
				idx = -1
				if p.badIdx == "" {
					p.badIdx = v
				}
			}
			p.ptIdx = idx
		}
	case "v":
		p.inV = p.inSer
		p.text.Reset()
	}
}

func (p *Parser) end(t xml.EndElement) {
	switch t.Name.Local {
	case "title":
		if p.inTitle && p.depth == p.titleFrom {
			p.inTitle = false
		}
	case "t":
		p.inTitleT = false
	case "p":
		if p.inTitle && p.title.Len() > 0 {
			p.title.WriteString(" ")
		}
	case "ser":
		if p.current != nil {
			p.series = append(p.series, p.current)
		}
		p.current = nil
		p.inSer = false
	case "tx":
		p.inTx = false
	case "cat":
		p.inCat = false
	case "val":
		p.inVal = false
	case "xVal":
		p.inXVal = false
	case "yVal":
		p.inYVal = false
	case "v":
		if p.inV && p.current != nil {
			p.store(p.text.String())
		}
		p.inV = false
	}
}

func (p *Parser) store(v string) {
	switch {
	case p.inTx:
		p.current.name = strings.TrimSpace(v)
	case p.ptIdx < 0:
	case p.inCat:
		p.current.cats[p.ptIdx] = v
	case p.inXVal:
		p.current.xVals[p.ptIdx] = v
	case p.inVal, p.inYVal:
		p.current.vals[p.ptIdx] = v
	}
}

func (p *Parser) setType(ct model.ChartType) {
	if p.typeFound {
		return
	}
	p.chartType = ct
	p.typeFound = true
}

// Result returns the chart assembled from the tokens seen so far.
func (p *Parser) Result() (*model.Chart, error) {
	if !p.typeFound && len(p.series) == 0 {
		return nil, ErrNoChart
	}
	if p.badIdx != "" {
		return nil, fmt.Errorf("%w: idx %q", ErrPointIndex, p.badIdx)
	}

	c := &model.Chart{
		Type:  p.chartType,
		Title: strings.TrimSpace(p.title.String()),
	}
	if c.Type == model.ChartColumn && p.barDir == "bar" {
		c.Type = model.ChartBar
	}

	sort.SliceStable(p.series, func(i, j int) bool {
		return p.series[i].order < p.series[j].order
	})

	for i, s := range p.series {
		if c.Categories == nil && len(s.cats) > 0 {
			c.Categories = s.cats.strings()
		}
		name := s.name
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		c.Series = append(c.Series, model.ChartSeries{Name: name, Values: s.vals.floats()})
	}

	// The independent axis doubles as the category axis for scatter plots.
	if c.Categories == nil {
		for _, s := range p.series {
			if len(s.xVals) > 0 {
				c.Categories = s.xVals.strings()
				break
			}
		}
	}
	return c, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
