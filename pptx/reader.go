package pptx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
)

const defaultMainPart = "ppt/presentation.xml"

// Options controls PPTX parsing. The zero value converts every slide.
type Options struct {
	// SlideRange limits conversion to slides first..last, 1-indexed and
	// inclusive. Bounds outside the deck are clamped.
	SlideRange *[2]int
}

// slideRef is one entry of the presentation's slide list.
type slideRef struct {
	relID string
	part  string // empty when the relationship is missing
}

// Reader provides access to PPTX presentation content.
type Reader struct {
	pkg    *opc.Package
	main   string
	size   model.Size
	slides []slideRef
	theme  Theme
	opts   Options
}

// Parse converts a PPTX archive held in memory.
func Parse(data []byte, opts Options) (*model.Document, []model.Warning, error) {
	r, err := OpenBytes(data)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	r.opts = opts
	return r.Document()
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a PPTX archive held in memory.
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

	var pres presentationXML
	if err := xml.Unmarshal(raw, &pres); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	r := &Reader{pkg: pkg, main: main, size: model.SizeSlide4x3}
	if sz := pres.SlideSz; sz != nil && sz.Cx > 0 && sz.Cy > 0 {
		r.size = model.Size{
			Width:  model.EMUToPoints(float64(sz.Cx)),
			Height: model.EMUToPoints(float64(sz.Cy)),
		}
	}

	rels, err := pkg.Relationships(main)
	if err != nil {
		return nil, fmt.Errorf("parsing presentation relationships: %w", err)
	}
	if pres.SlideIdList != nil {
		for _, id := range pres.SlideIdList.SlideId {
			ref := slideRef{relID: id.RID}
			if rel, ok := rels[id.RID]; ok && !rel.External {
				ref.part = rel.Target
			}
			r.slides = append(r.slides, ref)
		}
	}

	// A missing or broken theme only costs scheme colours.
	themePart := path.Join(path.Dir(main), "theme/theme1.xml")
	if rel, ok := rels.FirstOfType(opc.RelTheme); ok {
		themePart = rel.Target
	}
	if data, err := pkg.Read(themePart); err == nil {
		r.theme, _ = ParseTheme(data)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	r.pkg = nil
	return nil
}

// SlideCount returns the number of slides declared by the presentation.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// SlideSize returns the slide size in points.
func (r *Reader) SlideSize() model.Size {
	return r.size
}

// selected returns the 0-based slide index range [lo, hi) to convert.
func (r *Reader) selected() (int, int) {
	lo, hi := 0, len(r.slides)
	if rng := r.opts.SlideRange; rng != nil {
		if rng[0] > 1 {
			lo = rng[0] - 1
		}
		if rng[1] < hi {
			hi = rng[1]
		}
		if lo > hi {
			lo = hi
		}
	}
	return lo, hi
}

// Document converts the selected slides into one FixedPage each. A slide
// that cannot be read is skipped with a warning.
func (r *Reader) Document() (*model.Document, []model.Warning, error) {
	if r.pkg == nil {
		return nil, nil, errors.New("reader is closed")
	}

	c := &converter{pkg: r.pkg, theme: r.theme, size: r.size}
	doc := model.NewDocument()
	meta := r.pkg.CoreProperties()
	doc.Metadata = model.Metadata{Title: meta.Title, Author: meta.Creator, Created: meta.Created}

	lo, hi := r.selected()
	for i := lo; i < hi; i++ {
		ref := r.slides[i]
		element := fmt.Sprintf("slide %d", i+1)
		if ref.part == "" {
			c.warn(model.Warnf(element, "relationship %q not found", ref.relID))
			continue
		}
		data, err := r.pkg.Read(ref.part)
		if err != nil {
			c.warn(model.Warnf(element, "%v", err))
			continue
		}

		page := &model.FixedPage{Size: r.size}
		c.setSlide(i+1, ref.part)
		if err := c.walkSlide(data, page); err != nil {
			c.warn(model.Warnf(element, "parsing %s: %v", ref.part, err))
			continue
		}
		doc.AddPage(page)
	}
	return doc, c.warnings, nil
}
