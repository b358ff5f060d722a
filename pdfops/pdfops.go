// Package pdfops merges, splits and counts the pages of whole PDF
// documents held in memory.
package pdfops

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoInput is returned by Merge when given no documents.
var ErrNoInput = errors.New("no input documents")

// PageRange selects pages From through To, 1-indexed and inclusive.
type PageRange struct {
	From int
	To   int
}

func (r PageRange) String() string {
	if r.From == r.To {
		return fmt.Sprintf("%d", r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

func (r PageRange) validate(pages int) error {
	if r.From < 1 || r.To < r.From || r.To > pages {
		return fmt.Errorf("page range %s outside 1-%d", r, pages)
	}
	return nil
}

func config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in pdf.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), config())
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// Merge concatenates the documents in order.
func Merge(pdfs [][]byte) ([]byte, error) {
	if len(pdfs) == 0 {
		return nil, ErrNoInput
	}
	if len(pdfs) == 1 {
		return append([]byte(nil), pdfs[0]...), nil
	}

	readers := make([]io.ReadSeeker, len(pdfs))
	for i, pdf := range pdfs {
		readers[i] = bytes.NewReader(pdf)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, config()); err != nil {
		return nil, fmt.Errorf("merging %d documents: %w", len(pdfs), err)
	}
	return out.Bytes(), nil
}

// Split returns one document per range.
func Split(pdf []byte, ranges []PageRange) ([][]byte, error) {
	pages, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	for _, r := range ranges {
		if err := r.validate(pages); err != nil {
			return nil, err
		}
	}

	parts := make([][]byte, 0, len(ranges))
	for _, r := range ranges {
		var out bytes.Buffer
		if err := api.Trim(bytes.NewReader(pdf), &out, []string{r.String()}, config()); err != nil {
			return nil, fmt.Errorf("extracting pages %s: %w", r, err)
		}
		parts = append(parts, out.Bytes())
	}
	return parts, nil
}

// SplitEvery splits pdf into documents of n pages; the last may be
// shorter.
func SplitEvery(pdf []byte, n int) ([][]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid split size %d", n)
	}
	pages, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	return Split(pdf, Chunks(pages, n))
}

// Chunks returns consecutive ranges of n pages covering 1..pages.
func Chunks(pages, n int) []PageRange {
	if n < 1 {
		return nil
	}
	var ranges []PageRange
	for from := 1; from <= pages; from += n {
		ranges = append(ranges, PageRange{From: from, To: min(from+n-1, pages)})
	}
	return ranges
}
