package model

import (
	"fmt"
	"time"
)

// Document is the root of the IR.
type Document struct {
	Metadata Metadata
	Pages    []Page
	// Styles is reserved for shared named styles; parsers currently resolve
	// styles inline.
	Styles StyleSheet
}

// Metadata contains document-level information. All fields are optional.
type Metadata struct {
	Title   string
	Author  string
	Created *time.Time
}

// StyleSheet is a placeholder for document-wide named styles.
type StyleSheet struct{}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages: make([]Page, 0),
	}
}

// AddPage appends a page to the document.
func (d *Document) AddPage(page Page) {
	d.Pages = append(d.Pages, page)
}

// PageCount returns the number of IR pages. A FlowPage may still lay out
// onto several physical pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Warning records an element that was skipped or degraded during parsing.
type Warning struct {
	Element string
	Reason  string
}

// String returns a human-readable form of the warning.
func (w Warning) String() string {
	if w.Element == "" {
		return w.Reason
	}
	return fmt.Sprintf("%s: %s", w.Element, w.Reason)
}

// Warnf builds a Warning with a formatted reason.
func Warnf(element, format string, args ...any) Warning {
	return Warning{Element: element, Reason: fmt.Sprintf(format, args...)}
}

// ImageAsset is a binary image referenced from generated markup by its
// virtual path.
type ImageAsset struct {
	Path string
	Data []byte
}
