// Package xlsx parses XLSX (Office Open XML spreadsheet) workbooks into one
// table page per sheet.
package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName xml.Name      `xml:"workbook"`
	Sheets  []sheetRefXML `xml:"sheets>sheet"`
}

type sheetRefXML struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	State   string `xml:"state,attr"` // visible, hidden, veryHidden
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName      xml.Name                   `xml:"worksheet"`
	FormatPr     *sheetFormatPrXML          `xml:"sheetFormatPr"`
	Cols         []colXML                   `xml:"cols>col"`
	Rows         []rowXML                   `xml:"sheetData>row"`
	MergeCells   []mergeCellXML             `xml:"mergeCells>mergeCell"`
	CondFormats  []conditionalFormattingXML `xml:"conditionalFormatting"`
	PageMargins  *pageMarginsXML            `xml:"pageMargins"`
	PageSetup    *pageSetupXML              `xml:"pageSetup"`
	HeaderFooter *headerFooterXML           `xml:"headerFooter"`
	Drawing      *relIDXML                  `xml:"drawing"`
}

type sheetFormatPrXML struct {
	DefaultColWidth  float64 `xml:"defaultColWidth,attr"`
	BaseColWidth     float64 `xml:"baseColWidth,attr"`
	DefaultRowHeight float64 `xml:"defaultRowHeight,attr"`
}

type colXML struct {
	Min         int     `xml:"min,attr"`
	Max         int     `xml:"max,attr"`
	Width       float64 `xml:"width,attr"`
	CustomWidth string  `xml:"customWidth,attr"`
	Hidden      string  `xml:"hidden,attr"`
}

type rowXML struct {
	R            int       `xml:"r,attr"` // 1-indexed
	Ht           float64   `xml:"ht,attr"`
	CustomHeight string    `xml:"customHeight,attr"`
	Cells        []cellXML `xml:"c"`
}

type cellXML struct {
	R  string         `xml:"r,attr"` // e.g. "A1"
	T  string         `xml:"t,attr"` // s, n, b, str, inlineStr, e, d
	S  int            `xml:"s,attr"` // cellXfs index
	V  string         `xml:"v"`
	F  string         `xml:"f"`
	Is *stringItemXML `xml:"is"`
}

// stringItemXML is a shared or inline string: plain text or rich runs.
type stringItemXML struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (s *stringItemXML) text() string {
	if len(s.Runs) == 0 {
		return s.T
	}
	text := s.T
	for _, r := range s.Runs {
		text += r.T
	}
	return text
}

type mergeCellXML struct {
	Ref string `xml:"ref,attr"` // e.g. "A1:B2"
}

type conditionalFormattingXML struct {
	Sqref string      `xml:"sqref,attr"`
	Rules []cfRuleXML `xml:"cfRule"`
}

type cfRuleXML struct {
	Type       string         `xml:"type,attr"`
	DxfID      *int           `xml:"dxfId,attr"`
	Priority   int            `xml:"priority,attr"`
	Operator   string         `xml:"operator,attr"`
	Formulas   []string       `xml:"formula"`
	ColorScale *colorScaleXML `xml:"colorScale"`
	DataBar    *dataBarXML    `xml:"dataBar"`
	IconSet    *iconSetXML    `xml:"iconSet"`
}

type cfvoXML struct {
	Type string `xml:"type,attr"`
	Val  string `xml:"val,attr"`
}

type colorScaleXML struct {
	Cfvos  []cfvoXML  `xml:"cfvo"`
	Colors []colorXML `xml:"color"`
}

type dataBarXML struct {
	Cfvos []cfvoXML `xml:"cfvo"`
	Color colorXML  `xml:"color"`
}

type iconSetXML struct {
	IconSet string    `xml:"iconSet,attr"`
	Reverse string    `xml:"reverse,attr"`
	Cfvos   []cfvoXML `xml:"cfvo"`
}

type pageMarginsXML struct {
	Left   float64 `xml:"left,attr"`
	Right  float64 `xml:"right,attr"`
	Top    float64 `xml:"top,attr"`
	Bottom float64 `xml:"bottom,attr"`
}

type pageSetupXML struct {
	PaperSize   int    `xml:"paperSize,attr"`
	Orientation string `xml:"orientation,attr"`
}

type headerFooterXML struct {
	OddHeader string `xml:"oddHeader"`
	OddFooter string `xml:"oddFooter"`
}

type relIDXML struct {
	ID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name        `xml:"sst"`
	Items   []stringItemXML `xml:"si"`
}

// stylesXML represents the xl/styles.xml file structure.
type stylesXML struct {
	XMLName xml.Name    `xml:"styleSheet"`
	NumFmts []numFmtXML `xml:"numFmts>numFmt"`
	Fonts   []fontXML   `xml:"fonts>font"`
	Fills   []fillXML   `xml:"fills>fill"`
	Borders []borderXML `xml:"borders>border"`
	CellXfs []xfXML     `xml:"cellXfs>xf"`
	Dxfs    []dxfXML    `xml:"dxfs>dxf"`
}

type numFmtXML struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type colorXML struct {
	RGB     string `xml:"rgb,attr"`
	Theme   *int   `xml:"theme,attr"`
	Indexed *int   `xml:"indexed,attr"`
	Auto    string `xml:"auto,attr"`
}

type fontXML struct {
	B      *valXML   `xml:"b"`
	I      *valXML   `xml:"i"`
	U      *valXML   `xml:"u"`
	Strike *valXML   `xml:"strike"`
	Sz     *valXML   `xml:"sz"`
	Color  *colorXML `xml:"color"`
	Name   *valXML   `xml:"name"`
}

type fillXML struct {
	Pattern *struct {
		PatternType string    `xml:"patternType,attr"`
		FgColor     *colorXML `xml:"fgColor"`
		BgColor     *colorXML `xml:"bgColor"`
	} `xml:"patternFill"`
}

type borderXML struct {
	Left   borderSideXML `xml:"left"`
	Right  borderSideXML `xml:"right"`
	Top    borderSideXML `xml:"top"`
	Bottom borderSideXML `xml:"bottom"`
}

type borderSideXML struct {
	Style string    `xml:"style,attr"`
	Color *colorXML `xml:"color"`
}

type xfXML struct {
	NumFmtID  int `xml:"numFmtId,attr"`
	FontID    int `xml:"fontId,attr"`
	FillID    int `xml:"fillId,attr"`
	BorderID  int `xml:"borderId,attr"`
	Alignment *struct {
		Horizontal string `xml:"horizontal,attr"`
		Vertical   string `xml:"vertical,attr"`
	} `xml:"alignment"`
}

// dxfXML is a differential format referenced by conditional formatting.
type dxfXML struct {
	Font *fontXML `xml:"font"`
	Fill *fillXML `xml:"fill"`
}

// drawingXML represents xl/drawings/drawing*.xml.
type drawingXML struct {
	TwoCellAnchors []anchorXML `xml:"twoCellAnchor"`
	OneCellAnchors []anchorXML `xml:"oneCellAnchor"`
}

type anchorXML struct {
	From struct {
		Row int `xml:"row"`
		Col int `xml:"col"`
	} `xml:"from"`
	Chart *relIDXML `xml:"graphicFrame>graphic>graphicData>chart"`
}
