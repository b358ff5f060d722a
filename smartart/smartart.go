// Package smartart flattens diagram data parts (dgm:dataModel) into an
// ordered list of text nodes with their depth.
package smartart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/model"
)

type point struct {
	id    string
	kind  string
	text  strings.Builder
	order int
}

type connection struct {
	src, dest string
	srcOrd    int
	seq       int
}

// Parser is the diagram state machine.
type Parser struct {
	points []*point
	byID   map[string]*point
	cxns   []connection

	current *point
	inRun   bool
	inT     bool // a:t inside the current point
	para    int  // a:p count inside the current point
}

// NewParser returns an empty diagram parser.
func NewParser() *Parser {
	return &Parser{byID: make(map[string]*point)}
}

// Parse decodes a diagram data part.
func Parse(data []byte) ([]model.DiagramNode, error) {
	p := NewParser()
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding diagram data: %w", err)
		}
		p.step(tok)
	}
	return p.Nodes(), nil
}

func (p *Parser) step(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		switch t.Name.Local {
		case "pt":
			p.current = &point{
				id:    attr(t, "modelId"),
				kind:  attr(t, "type"),
				order: len(p.points),
			}
			if p.current.kind == "" {
				p.current.kind = "node"
			}
			p.para = 0
		case "p":
			if p.current != nil {
				if p.para > 0 && p.current.text.Len() > 0 {
					p.current.text.WriteByte(' ')
				}
				p.para++
			}
		case "r", "fld":
			p.inRun = true
		case "t":
			// dgm:t is the text body; only a:t inside a run holds text.
			p.inT = p.current != nil && p.inRun
		case "cxn":
			kind := attr(t, "type")
			if kind != "" && kind != "parOf" {
				return
			}
			ord, _ := strconv.Atoi(attr(t, "srcOrd"))
			p.cxns = append(p.cxns, connection{
				src:    attr(t, "srcId"),
				dest:   attr(t, "destId"),
				srcOrd: ord,
				seq:    len(p.cxns),
			})
		}
	case xml.CharData:
		if p.inT && p.current != nil {
			p.current.text.Write(t)
		}
	case xml.EndElement:
		switch t.Name.Local {
		case "pt":
			if p.current != nil && p.current.id != "" {
				p.points = append(p.points, p.current)
				p.byID[p.current.id] = p.current
			}
			p.current = nil
		case "r", "fld":
			p.inRun = false
		case "t":
			p.inT = false
		}
	}
}

func skipped(kind string) bool {
	switch kind {
	case "parTrans", "sibTrans", "pres":
		return true
	}
	return false
}

// Nodes walks the parent-of graph breadth first from the document point.
func (p *Parser) Nodes() []model.DiagramNode {
	children := make(map[string][]connection)
	hasParent := make(map[string]bool)
	for _, c := range p.cxns {
		children[c.src] = append(children[c.src], c)
		hasParent[c.dest] = true
	}
	for src := range children {
		kids := children[src]
		sort.SliceStable(kids, func(i, j int) bool {
			if kids[i].srcOrd != kids[j].srcOrd {
				return kids[i].srcOrd < kids[j].srcOrd
			}
			return kids[i].seq < kids[j].seq
		})
	}

	type queued struct {
		id    string
		depth int
	}
	var queue []queued
	for _, pt := range p.points {
		if pt.kind == "doc" {
			queue = append(queue, queued{pt.id, -1})
			break
		}
	}
	if len(queue) == 0 {
		// No document point: start from every parentless content point.
		for _, pt := range p.points {
			if !hasParent[pt.id] && !skipped(pt.kind) {
				queue = append(queue, queued{pt.id, 0})
			}
		}
		for i := range queue {
			queue[i].depth = 0
		}
	}

	var nodes []model.DiagramNode
	visited := make(map[string]bool)
	emitted := func(q queued) {
		pt := p.byID[q.id]
		if pt == nil || pt.kind == "doc" || skipped(pt.kind) {
			return
		}
		text := strings.TrimSpace(pt.text.String())
		if text == "" {
			return
		}
		nodes = append(nodes, model.DiagramNode{Text: text, Depth: q.depth})
	}

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		if visited[q.id] {
			continue
		}
		visited[q.id] = true
		emitted(q)
		for _, c := range children[q.id] {
			if pt := p.byID[c.dest]; pt != nil && skipped(pt.kind) {
				continue
			}
			queue = append(queue, queued{c.dest, q.depth + 1})
		}
	}
	return nodes
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
