// Package docx parses DOCX (Office Open XML word-processing) documents into
// a single reflowable page of the IR.
package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
)

const defaultMainPart = "word/document.xml"

// ErrNoBody is returned when the main document part has no w:body.
var ErrNoBody = errors.New("document body not found")

// Options controls DOCX parsing. The zero value converts everything.
type Options struct {
	// SkipHeaderFooter leaves page headers and footers out of the result.
	SkipHeaderFooter bool
	// SkipFootnotes drops footnote bodies; references are kept as empty
	// footnotes.
	SkipFootnotes bool
}

// Reader provides access to DOCX document content.
type Reader struct {
	pkg       *opc.Package
	main      string
	styles    *stylesXML
	numbering *numberingXML
	footnotes *footnotesXML
	opts      Options
}

// Parse converts a DOCX archive held in memory.
func Parse(data []byte, opts Options) (*model.Document, []model.Warning, error) {
	r, err := OpenBytes(data)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	r.opts = opts
	return r.Document()
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a DOCX archive held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	pkg, err := opc.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	if err := pkg.Require("[Content_Types].xml"); err != nil {
		return nil, err
	}

	main, err := pkg.MainDocument()
	if err != nil || !pkg.Has(main) {
		main = defaultMainPart
	}
	if err := pkg.Require(main); err != nil {
		return nil, err
	}

	r := &Reader{pkg: pkg, main: main}

	// Styles, numbering and footnotes are optional.
	dir := path.Dir(main)
	r.styles = &stylesXML{}
	if !r.parseOptional(path.Join(dir, "styles.xml"), r.styles) {
		r.styles = nil
	}
	r.numbering = &numberingXML{}
	if !r.parseOptional(path.Join(dir, "numbering.xml"), r.numbering) {
		r.numbering = nil
	}
	r.footnotes = &footnotesXML{}
	if !r.parseOptional(path.Join(dir, "footnotes.xml"), r.footnotes) {
		r.footnotes = nil
	}

	return r, nil
}

// parseOptional unmarshals a part if it exists and is well formed.
func (r *Reader) parseOptional(name string, v any) bool {
	data, err := r.pkg.Read(name)
	if err != nil {
		return false
	}
	return xml.Unmarshal(data, v) == nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	r.pkg = nil
	return nil
}

// Document converts the package into a document with one FlowPage.
func (r *Reader) Document() (*model.Document, []model.Warning, error) {
	if r.pkg == nil {
		return nil, nil, errors.New("reader is closed")
	}

	data, err := r.pkg.Read(r.main)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", r.main, err)
	}

	c := newConverter(r.pkg, r.main, NewStyleResolver(r.styles), NewNumberingResolver(r.numbering))
	if r.footnotes != nil && !r.opts.SkipFootnotes {
		for _, fn := range r.footnotes.Footnotes {
			switch fn.Type {
			case "separator", "continuationSeparator", "continuationNotice":
				continue
			}
			c.footnotes[fn.ID] = fn.Body
		}
	}

	blocks, sect, err := r.walkBody(data, c)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing document: %w", err)
	}

	page := &model.FlowPage{
		Size:    model.SizeLetter,
		Margins: model.DefaultMargins,
		Blocks:  blocks,
	}
	if sect != nil {
		applySection(page, sect)
		if !r.opts.SkipHeaderFooter {
			page.Header = c.headerFooter(sect.Headers)
			page.Footer = c.headerFooter(sect.Footers)
		}
	}

	doc := model.NewDocument()
	meta := r.pkg.CoreProperties()
	doc.Metadata = model.Metadata{Title: meta.Title, Author: meta.Creator, Created: meta.Created}
	doc.AddPage(page)
	return doc, c.warnings, nil
}

// walkBody streams the children of w:body in document order. Each
// paragraph or table is converted in isolation so one bad element only
// costs a warning. It returns the blocks and the first section's
// properties.
func (r *Reader) walkBody(data []byte, c *converter) ([]model.Block, *sectPrXML, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	if err := findBody(d); err != nil {
		return nil, nil, err
	}

	sink := c.newSink()
	var first, last *sectPrXML
	index := 0
	depth := 0

	element := func() string { return "body element " + strconv.Itoa(index) }

	for {
		tok, err := d.Token()
		if err != nil {
			// A truncated or malformed body keeps what was read so far.
			if err != io.EOF {
				c.warn(model.Warnf(element(), "%v", err))
			}
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					c.warn(model.Warnf(element(), "%v", err))
					return sink.blocks(), section(first, last), nil
				}
				if first == nil && p.Properties.SectPr != nil {
					first = p.Properties.SectPr
				}
				c.isolate(element(), func() { sink.add(bodyElement{Paragraph: &p}) })
				index++
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					c.warn(model.Warnf(element(), "%v", err))
					return sink.blocks(), section(first, last), nil
				}
				c.isolate(element(), func() { sink.add(bodyElement{Table: &tbl}) })
				index++
			case "sectPr":
				last = &sectPrXML{}
				if err := d.DecodeElement(last, &t); err != nil {
					last = nil
				}
			case "sdt", "sdtContent", "customXml":
				depth++
			default:
				if err := d.Skip(); err != nil {
					c.warn(model.Warnf(element(), "%v", err))
					return sink.blocks(), section(first, last), nil
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return sink.blocks(), section(first, last), nil
			}
			depth--
		}
	}
	return sink.blocks(), section(first, last), nil
}

// findBody advances d to just inside w:body.
func findBody(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return ErrNoBody
		}
		if err != nil {
			return err
		}
		if t, ok := tok.(xml.StartElement); ok && t.Name.Local == "body" {
			return nil
		}
	}
}

// section picks the first section's properties. A document with a single
// section only carries the body-level sectPr.
func section(first, last *sectPrXML) *sectPrXML {
	if first != nil {
		return first
	}
	return last
}

// applySection sets the page size and margins from w:pgSz and w:pgMar.
func applySection(page *model.FlowPage, sect *sectPrXML) {
	if w := parseTwips(sect.PageSize.W); w > 0 {
		page.Size.Width = w
	}
	if h := parseTwips(sect.PageSize.H); h > 0 {
		page.Size.Height = h
	}
	if sect.PageSize.Orient == "landscape" && !page.Size.Landscape() {
		page.Size.Width, page.Size.Height = page.Size.Height, page.Size.Width
	}

	m := sect.PageMargin
	if m.Top != "" {
		page.Margins.Top = abs(parseTwips(m.Top))
	}
	if m.Right != "" {
		page.Margins.Right = parseTwips(m.Right)
	}
	if m.Bottom != "" {
		page.Margins.Bottom = abs(parseTwips(m.Bottom))
	}
	if m.Left != "" {
		page.Margins.Left = parseTwips(m.Left)
	}
}

// abs folds Word's negative top/bottom margins, which mean "do not grow
// around the header", to their magnitude.
func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
