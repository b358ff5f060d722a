// Package opc gives read access to Open Packaging Conventions containers,
// the zip layout shared by every OOXML format: named parts, relationship
// maps, content types and core document properties.
package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
)

var (
	// ErrNotZip is returned when the input is not a readable zip archive.
	ErrNotZip = errors.New("not a zip container")
	// ErrPartNotFound is returned when a named part is absent.
	ErrPartNotFound = errors.New("part not found")
)

// Relationship types referenced by the parsers.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelDrawing        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	RelSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	RelStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelDiagramData    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/diagramData"
)

// Package is an opened OOXML container.
type Package struct {
	files map[string]*zip.File
	order []string
}

// Open reads a package from an in-memory archive.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	p := &Package{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "/")
		p.files[name] = f
		p.order = append(p.order, name)
	}
	return p, nil
}

// Parts returns every part name in archive order.
func (p *Package) Parts() []string {
	return p.order
}

// Has reports whether the named part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.files[strings.TrimPrefix(name, "/")]
	return ok
}

// Read returns the content of the named part.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.files[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Require checks that every named part exists.
func (p *Package) Require(names ...string) error {
	for _, name := range names {
		if !p.Has(name) {
			return fmt.Errorf("missing required file: %w: %s", ErrPartNotFound, name)
		}
	}
	return nil
}

// Metadata holds the core document properties.
type Metadata struct {
	Title   string
	Creator string
	Created *time.Time
}

// CoreProperties reads docProps/core.xml. A missing or malformed part
// yields empty metadata.
func (p *Package) CoreProperties() Metadata {
	var meta Metadata
	data, err := p.Read("docProps/core.xml")
	if err != nil {
		return meta
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return meta
	}

	meta.Title = queryText(doc, "//*[local-name()='title']")
	meta.Creator = queryText(doc, "//*[local-name()='creator']")
	if created := queryText(doc, "//*[local-name()='created']"); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			meta.Created = &t
		}
	}
	return meta
}

// ContentType returns the declared MIME type of a part: an Override entry
// wins over the Default entry for its extension.
func (p *Package) ContentType(part string) string {
	data, err := p.Read("[Content_Types].xml")
	if err != nil {
		return ""
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	partName := "/" + strings.TrimPrefix(part, "/")
	overrides, _ := xmlquery.QueryAll(doc, "//*[local-name()='Override']")
	for _, n := range overrides {
		if strings.EqualFold(n.SelectAttr("PartName"), partName) {
			return n.SelectAttr("ContentType")
		}
	}

	ext := strings.TrimPrefix(path.Ext(part), ".")
	defaults, _ := xmlquery.QueryAll(doc, "//*[local-name()='Default']")
	for _, n := range defaults {
		if strings.EqualFold(n.SelectAttr("Extension"), ext) {
			return n.SelectAttr("ContentType")
		}
	}
	return ""
}

// MainDocument returns the part targeted by the package-level
// officeDocument relationship.
func (p *Package) MainDocument() (string, error) {
	rels, err := p.Relationships("")
	if err != nil {
		return "", err
	}
	if rel, ok := rels.FirstOfType(RelOfficeDocument); ok {
		return rel.Target, nil
	}
	return "", fmt.Errorf("%w: officeDocument relationship", ErrPartNotFound)
}

func queryText(doc *xmlquery.Node, expr string) string {
	n, err := xmlquery.Query(doc, expr)
	if err != nil || n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
