package xlsx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path"
	"slices"

	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
)

const defaultMainPart = "xl/workbook.xml"

// Options controls XLSX parsing. The zero value converts every visible
// sheet.
type Options struct {
	// SheetNames limits conversion to the named sheets, kept in workbook
	// order. Hidden sheets are converted only when named here.
	SheetNames []string
}

// sheetEntry is one sheet declared by the workbook.
type sheetEntry struct {
	name   string
	hidden bool
	relID  string
	part   string // empty when the relationship is missing
}

// Reader provides access to XLSX workbook content.
type Reader struct {
	pkg    *opc.Package
	main   string
	sheets []sheetEntry
	sst    []string
	styles *styleSheet
	opts   Options

	// Problems with optional parts, reported as warnings by Document.
	setupWarnings []model.Warning
}

// Parse converts an XLSX archive held in memory.
func Parse(data []byte, opts Options) (*model.Document, []model.Warning, error) {
	r, err := OpenBytes(data)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	r.opts = opts
	return r.Document()
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens an XLSX archive held in memory. The workbook part is
// mandatory; shared strings and styles are optional.
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
	raw, err := pkg.Read(main)
	if err != nil {
		return nil, err
	}

	var wb workbookXML
	if err := xml.Unmarshal(raw, &wb); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	rels, err := pkg.Relationships(main)
	if err != nil {
		return nil, fmt.Errorf("parsing workbook relationships: %w", err)
	}

	r := &Reader{pkg: pkg, main: main}
	for _, s := range wb.Sheets {
		entry := sheetEntry{
			name:   s.Name,
			hidden: s.State == "hidden" || s.State == "veryHidden",
			relID:  s.RID,
		}
		if rel, ok := rels[s.RID]; ok && !rel.External {
			entry.part = rel.Target
		}
		r.sheets = append(r.sheets, entry)
	}

	r.parseSharedStrings(rels)
	r.parseStyles(rels)
	return r, nil
}

// optionalPart returns the target of the first relationship of relType,
// or fallback beside the workbook.
func (r *Reader) optionalPart(rels opc.Relationships, relType, fallback string) string {
	if rel, ok := rels.FirstOfType(relType); ok && !rel.External {
		return rel.Target
	}
	return path.Join(path.Dir(r.main), fallback)
}

func (r *Reader) parseSharedStrings(rels opc.Relationships) {
	part := r.optionalPart(rels, opc.RelSharedStrings, "sharedStrings.xml")
	data, err := r.pkg.Read(part)
	if errors.Is(err, opc.ErrPartNotFound) {
		return
	}
	if err != nil {
		r.setupWarnings = append(r.setupWarnings, model.Warnf("shared strings", "%v", err))
		return
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		r.setupWarnings = append(r.setupWarnings, model.Warnf("shared strings", "parsing %s: %v", part, err))
		return
	}
	r.sst = make([]string, len(sst.Items))
	for i := range sst.Items {
		r.sst[i] = sst.Items[i].text()
	}
}

func (r *Reader) parseStyles(rels opc.Relationships) {
	r.styles = newStyleSheet(nil)
	part := r.optionalPart(rels, opc.RelStyles, "styles.xml")
	data, err := r.pkg.Read(part)
	if errors.Is(err, opc.ErrPartNotFound) {
		return
	}
	if err != nil {
		r.setupWarnings = append(r.setupWarnings, model.Warnf("styles", "%v", err))
		return
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		r.setupWarnings = append(r.setupWarnings, model.Warnf("styles", "parsing %s: %v", part, err))
		return
	}
	r.styles = newStyleSheet(&styles)
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	r.pkg = nil
	return nil
}

// SheetCount returns the number of sheets declared by the workbook.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the names of all sheets in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.name
	}
	return names
}

// selected returns the indexes of the sheets to convert and a warning for
// every requested name the workbook does not have.
func (r *Reader) selected() ([]int, []model.Warning) {
	var (
		indexes  []int
		warnings []model.Warning
	)
	if len(r.opts.SheetNames) == 0 {
		for i, s := range r.sheets {
			if !s.hidden {
				indexes = append(indexes, i)
			}
		}
		return indexes, nil
	}

	for i, s := range r.sheets {
		if slices.Contains(r.opts.SheetNames, s.name) {
			indexes = append(indexes, i)
		}
	}
	names := r.SheetNames()
	for _, want := range r.opts.SheetNames {
		if !slices.Contains(names, want) {
			warnings = append(warnings, model.Warnf("workbook", "sheet %q not found", want))
		}
	}
	return indexes, warnings
}

// Document converts the selected sheets into one TablePage each. Empty
// sheets are skipped; a sheet that cannot be read is skipped with a
// warning.
func (r *Reader) Document() (*model.Document, []model.Warning, error) {
	if r.pkg == nil {
		return nil, nil, errors.New("reader is closed")
	}

	c := &converter{pkg: r.pkg, sst: r.sst, styles: r.styles}
	c.warnings = append(c.warnings, r.setupWarnings...)

	doc := model.NewDocument()
	meta := r.pkg.CoreProperties()
	doc.Metadata = model.Metadata{Title: meta.Title, Author: meta.Creator, Created: meta.Created}

	indexes, missing := r.selected()
	c.warnings = append(c.warnings, missing...)

	for _, i := range indexes {
		entry := r.sheets[i]
		element := fmt.Sprintf("sheet %q", entry.name)
		if entry.part == "" {
			c.warn(model.Warnf(element, "relationship %q not found", entry.relID))
			continue
		}
		data, err := r.pkg.Read(entry.part)
		if err != nil {
			c.warn(model.Warnf(element, "%v", err))
			continue
		}

		c.isolate(element, func() {
			page, err := c.convertSheet(i, entry.name, entry.part, data)
			if err != nil {
				c.warn(model.Warnf(element, "%v", err))
				return
			}
			if page != nil {
				doc.AddPage(page)
			}
		})
	}
	return doc, c.warnings, nil
}
