package officeconv

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/officeconv/format"
	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/typst"
)

// Converter provides a fluent interface for converting one office file.
// Each configuration method returns a new Converter, so a partially
// configured Converter can be shared and extended safely.
type Converter struct {
	// Source
	filename string
	data     []byte
	format   format.Format

	// Configuration
	options ConvertOptions

	// Parsed document, filled on first use
	doc      *model.Document
	warnings []Warning

	// Accumulated error (fail-fast)
	err error
}

// Open returns a Converter for the named file. The format is taken from
// the extension, or from the archive contents when the extension is not
// recognised. Nothing is read until a terminal method runs.
func Open(filename string) *Converter {
	return &Converter{filename: filename, format: format.Detect(filename)}
}

// FromBytes returns a Converter for an archive held in memory. ext may be
// empty to detect the format from the contents.
func FromBytes(data []byte, ext string) *Converter {
	c := &Converter{data: data}
	if ext == "" {
		c.format = format.DetectFromBytes(data)
		if c.format == format.Unknown {
			c.err = &UnsupportedFormatError{}
		}
		return c
	}
	f, ok := DetectFormat(ext)
	if !ok {
		c.err = &UnsupportedFormatError{Extension: ext}
	}
	c.format = f
	return c
}

// clone copies the Converter with a deep copy of its options. The parsed
// document is not carried over because options may change it.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		format:   c.format,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Sheets limits spreadsheet conversion to the named sheets. Multiple calls
// are cumulative.
func (c *Converter) Sheets(names ...string) *Converter {
	n := c.clone()
	n.options.SheetNames = append(n.options.SheetNames, names...)
	return n
}

// Slides limits presentation conversion to slides first through last
// (1-indexed, inclusive).
func (c *Converter) Slides(first, last int) *Converter {
	n := c.clone()
	n.options.SlideRange = &SlideRange{First: first, Last: last}
	return n
}

// Paper forces the page size of documents and spreadsheets.
func (c *Converter) Paper(p typst.PaperSize) *Converter {
	n := c.clone()
	n.options.PaperSize = &p
	return n
}

// Landscape forces the page orientation of documents and spreadsheets.
func (c *Converter) Landscape(landscape bool) *Converter {
	n := c.clone()
	n.options.Landscape = &landscape
	return n
}

// PDFA requests PDF/A-2b output from the backend.
func (c *Converter) PDFA() *Converter {
	n := c.clone()
	std := PDFA2B
	n.options.PDFStandard = &std
	return n
}

// FontPaths adds font directories for the backend.
func (c *Converter) FontPaths(dirs ...string) *Converter {
	n := c.clone()
	n.options.FontPaths = append(n.options.FontPaths, dirs...)
	return n
}

// WithLogger sets the logger that receives conversion warnings.
func (c *Converter) WithLogger(log *slog.Logger) *Converter {
	n := c.clone()
	n.options.Logger = log
	return n
}

// WithOptions replaces the whole configuration.
func (c *Converter) WithOptions(opts ConvertOptions) *Converter {
	n := c.clone()
	n.options = opts.clone()
	return n
}

// ============================================================================
// Terminal Methods
// ============================================================================

// load reads the source if it has not been read yet.
func (c *Converter) load() error {
	if c.err != nil {
		return c.err
	}
	if c.data != nil {
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no input specified")
	}
	data, err := os.ReadFile(c.filename)
	if err != nil {
		return &IOError{Path: c.filename, Err: err}
	}
	c.data = data
	if c.format == format.Unknown {
		c.format = format.DetectFromBytes(data)
		if c.format == format.Unknown {
			return &UnsupportedFormatError{Extension: c.filename}
		}
	}
	return nil
}

// Document parses the source into the intermediate representation.
func (c *Converter) Document() (*model.Document, []Warning, error) {
	if c.doc != nil {
		return c.doc, c.warnings, nil
	}
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	doc, warnings, err := Parse(c.data, c.format, c.options)
	if err != nil {
		return nil, nil, err
	}
	c.doc, c.warnings = doc, warnings
	return doc, warnings, nil
}

// Markup parses the source and generates Typst markup plus the image
// assets it references.
func (c *Converter) Markup() (string, []ImageAsset, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return "", nil, nil, err
	}
	markup, images, err := Generate(doc, c.options)
	if err != nil {
		return "", nil, warnings, err
	}
	return markup, images, warnings, nil
}

// PDF runs the full conversion with backend.
func (c *Converter) PDF(ctx context.Context, backend Backend) (*Result, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return Convert(ctx, c.data, c.format.Extension(), c.options, backend)
}

// PageCount returns the number of pages in the parsed document: one per
// section of a word-processing file, per slide, or per sheet.
func (c *Converter) PageCount() (int, error) {
	doc, _, err := c.Document()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Format returns the detected format of the source.
func (c *Converter) Format() format.Format {
	return c.format
}
