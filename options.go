package officeconv

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/pptx"
	"github.com/tsawler/officeconv/typst"
	"github.com/tsawler/officeconv/xlsx"
)

// PDFStandard is an archival PDF profile requested from the backend.
type PDFStandard string

// PDFA2B is PDF/A-2b.
const PDFA2B PDFStandard = "a-2b"

// SlideRange selects presentation slides First through Last, 1-indexed and
// inclusive.
type SlideRange struct {
	First int
	Last  int
}

// ParseSlideRange parses "3" or "2-5".
func ParseSlideRange(s string) (SlideRange, error) {
	s = strings.TrimSpace(s)
	first, last, found := strings.Cut(s, "-")
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return SlideRange{}, fmt.Errorf("invalid slide range %q", s)
	}
	b := a
	if found {
		if b, err = strconv.Atoi(strings.TrimSpace(last)); err != nil {
			return SlideRange{}, fmt.Errorf("invalid slide range %q", s)
		}
	}
	if a < 1 || b < a {
		return SlideRange{}, fmt.Errorf("invalid slide range %q", s)
	}
	return SlideRange{First: a, Last: b}, nil
}

// ConvertOptions holds configuration for a conversion. The zero value
// converts everything with the authored page geometry.
type ConvertOptions struct {
	// SheetNames limits spreadsheet conversion to the named sheets.
	SheetNames []string
	// SlideRange limits presentation conversion to a range of slides.
	SlideRange *SlideRange
	// PDFStandard requests an archival profile from the backend.
	PDFStandard *PDFStandard
	// PaperSize forces the page size of documents and spreadsheets.
	PaperSize *typst.PaperSize
	// FontPaths are extra font directories for the backend.
	FontPaths []string
	// Landscape forces the orientation of documents and spreadsheets.
	Landscape *bool
	// Logger receives conversion warnings; nil uses slog.Default().
	Logger *slog.Logger
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	out := o
	if o.SheetNames != nil {
		out.SheetNames = append([]string(nil), o.SheetNames...)
	}
	if o.FontPaths != nil {
		out.FontPaths = append([]string(nil), o.FontPaths...)
	}
	if o.SlideRange != nil {
		r := *o.SlideRange
		out.SlideRange = &r
	}
	if o.PDFStandard != nil {
		s := *o.PDFStandard
		out.PDFStandard = &s
	}
	if o.PaperSize != nil {
		p := *o.PaperSize
		out.PaperSize = &p
	}
	if o.Landscape != nil {
		l := *o.Landscape
		out.Landscape = &l
	}
	return out
}

func (o ConvertOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o ConvertOptions) xlsxOptions() xlsx.Options {
	return xlsx.Options{SheetNames: o.SheetNames}
}

func (o ConvertOptions) pptxOptions() pptx.Options {
	var opts pptx.Options
	if o.SlideRange != nil {
		opts.SlideRange = &[2]int{o.SlideRange.First, o.SlideRange.Last}
	}
	return opts
}

func (o ConvertOptions) typstOptions() typst.Options {
	return typst.Options{PaperSize: o.PaperSize, Landscape: o.Landscape}
}

func (o ConvertOptions) renderOptions() RenderOptions {
	return RenderOptions{FontPaths: o.FontPaths, PDFStandard: o.PDFStandard}
}
