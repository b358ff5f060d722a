// Package officeconv converts DOCX, XLSX and PPTX files to PDF by way of
// Typst markup.
//
// Basic usage:
//
//	res, err := officeconv.Open("report.docx").PDF(ctx, officeconv.TypstCLI{})
//	if err != nil {
//	    // handle error
//	}
//	if len(res.Warnings) > 0 {
//	    log.Println("Warnings:", officeconv.FormatWarnings(res.Warnings))
//	}
//
// With options:
//
//	markup, images, warnings, err := officeconv.Open("budget.xlsx").
//	    Sheets("Summary").
//	    Paper(typst.PaperA4).
//	    Landscape(true).
//	    Markup()
//
// The pipeline is also exposed step by step through [Parse], [Generate]
// and [Convert]. Parsers never fail on a single bad element: they drop it
// and report a [Warning] instead.
package officeconv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/officeconv/docx"
	"github.com/tsawler/officeconv/format"
	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/pdfops"
	"github.com/tsawler/officeconv/pptx"
	"github.com/tsawler/officeconv/typst"
	"github.com/tsawler/officeconv/xlsx"
)

// Warning describes one element that was skipped or degraded.
type Warning = model.Warning

// ImageAsset is an image file referenced by generated markup.
type ImageAsset = model.ImageAsset

// Result is the outcome of a successful conversion.
type Result struct {
	PDF       []byte
	Warnings  []Warning
	PageCount int
}

// DetectFormat maps a file extension such as "docx" or ".PPTX" to its
// format.
func DetectFormat(ext string) (format.Format, bool) {
	f := format.FromExtension(ext)
	return f, f != format.Unknown
}

// Parse converts data of format f into a document. Structural failures and
// parser faults are returned as *ParseError.
func Parse(data []byte, f format.Format, opts ConvertOptions) (doc *model.Document, warnings []Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, warnings = nil, nil
			err = &ParseError{Format: f, Err: fmt.Errorf("internal fault: %v", r)}
		}
	}()

	switch f {
	case format.DOCX:
		doc, warnings, err = docx.Parse(data, docx.Options{})
	case format.XLSX:
		doc, warnings, err = xlsx.Parse(data, opts.xlsxOptions())
	case format.PPTX:
		doc, warnings, err = pptx.Parse(data, opts.pptxOptions())
	default:
		return nil, nil, &UnsupportedFormatError{Extension: f.Extension()}
	}
	if err != nil {
		return nil, nil, &ParseError{Format: f, Err: err}
	}
	return doc, warnings, nil
}

// Generate lowers doc into Typst markup and its image assets.
func Generate(doc *model.Document, opts ConvertOptions) (string, []ImageAsset, error) {
	markup, images, err := typst.Generate(doc, opts.typstOptions())
	if err != nil {
		return "", nil, &RenderError{Stage: "generate", Err: err}
	}
	return markup, images, nil
}

// Convert runs the whole pipeline on data. ext selects the parser; when
// it is empty the format is detected from the archive contents. Warnings
// are logged at WARN level and returned with the PDF.
func Convert(ctx context.Context, data []byte, ext string, opts ConvertOptions, backend Backend) (*Result, error) {
	var f format.Format
	if ext == "" {
		f = format.DetectFromBytes(data)
		if f == format.Unknown {
			return nil, &UnsupportedFormatError{}
		}
	} else {
		var ok bool
		if f, ok = DetectFormat(ext); !ok {
			return nil, &UnsupportedFormatError{Extension: ext}
		}
	}
	if backend == nil {
		backend = TypstCLI{}
	}
	log := opts.logger()

	doc, warnings, err := Parse(data, f, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("conversion warning", "format", f.String(), "element", w.Element, "reason", w.Reason)
	}

	markup, images, err := Generate(doc, opts)
	if err != nil {
		return nil, err
	}

	pdf, err := backend.Render(ctx, markup, images, opts.renderOptions())
	if err != nil {
		var re *RenderError
		if !errors.As(err, &re) {
			err = &RenderError{Stage: "backend", Err: err}
		}
		return nil, err
	}

	pages, err := pdfops.PageCount(pdf)
	if err != nil {
		log.Debug("page count unavailable, using document pages", "error", err)
		pages = doc.PageCount()
	}
	log.Info("converted", "format", f.String(), "pages", pages, "images", len(images), "warnings", len(warnings))

	return &Result{PDF: pdf, Warnings: warnings, PageCount: pages}, nil
}

// FormatWarnings joins warnings into one line each.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	pages := officeconv.Must(officeconv.Open("deck.pptx").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is like Must for calls that also return warnings, such as
// Document(). The warnings are discarded.
//
// Example:
//
//	doc := officeconv.MustResult(officeconv.Open("deck.pptx").Document())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
