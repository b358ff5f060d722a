package xlsx

import (
	"strings"

	"github.com/tsawler/officeconv/model"
)

// paperSizes maps pageSetup/@paperSize codes to portrait sizes.
var paperSizes = map[int]model.Size{
	1:  model.SizeLetter,
	5:  {Width: 612, Height: 1008},       // Legal
	8:  {Width: 841.89, Height: 1190.55}, // A3
	9:  model.SizeA4,
	11: {Width: 419.53, Height: 595.28}, // A5
}

// defaultSheetMargins are the print margins a new worksheet starts with:
// 0.7in at the sides and 0.75in at the top and bottom.
var defaultSheetMargins = model.Margins{Top: 54, Right: 50.4, Bottom: 54, Left: 50.4}

// pageGeometry returns the printed page size and margins of a worksheet.
func pageGeometry(ws *worksheetXML) (model.Size, model.Margins) {
	size := model.SizeLetter
	if ps := ws.PageSetup; ps != nil {
		if s, ok := paperSizes[ps.PaperSize]; ok {
			size = s
		}
		if ps.Orientation == "landscape" {
			size.Width, size.Height = size.Height, size.Width
		}
	}

	margins := defaultSheetMargins
	if pm := ws.PageMargins; pm != nil {
		margins = model.Margins{
			Top:    model.InchesToPoints(pm.Top),
			Right:  model.InchesToPoints(pm.Right),
			Bottom: model.InchesToPoints(pm.Bottom),
			Left:   model.InchesToPoints(pm.Left),
		}
	}
	return size, margins
}

// headerFooter converts an oddHeader or oddFooter string into one
// paragraph per non-empty section. &L, &C and &R select the left, centre
// and right sections; text before any of them is centred. Formatting
// codes are dropped, &A becomes the sheet name and && a literal ampersand.
func headerFooter(code, sheetName string) *model.HeaderFooter {
	if code == "" {
		return nil
	}

	var sections [3]strings.Builder
	current := 1
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch != '&' || i+1 >= len(code) {
			sections[current].WriteByte(ch)
			continue
		}
		i++
		switch next := code[i]; {
		case next == 'L':
			current = 0
		case next == 'C':
			current = 1
		case next == 'R':
			current = 2
		case next == '&':
			sections[current].WriteByte('&')
		case next == 'A':
			sections[current].WriteString(sheetName)
		case next == '"':
			// &"font,style"
			if end := strings.IndexByte(code[i+1:], '"'); end >= 0 {
				i += end + 1
			} else {
				i = len(code)
			}
		case next == 'K':
			// &Krrggbb or &KttSnnn colour
			i = min(i+6, len(code)-1)
		case next >= '0' && next <= '9':
			for i+1 < len(code) && code[i+1] >= '0' && code[i+1] <= '9' {
				i++
			}
		default:
			// Page fields, dates, file names and style toggles.
		}
	}

	alignments := [3]model.TextAlignment{model.AlignLeft, model.AlignCenter, model.AlignRight}
	hf := &model.HeaderFooter{}
	for i := range sections {
		text := strings.Join(strings.Fields(sections[i].String()), " ")
		if text == "" {
			continue
		}
		hf.Blocks = append(hf.Blocks, &model.Paragraph{
			Style: model.ParagraphStyle{Alignment: alignments[i]},
			Runs:  []model.Run{{Text: text}},
		})
	}
	if len(hf.Blocks) == 0 {
		return nil
	}
	return hf
}
