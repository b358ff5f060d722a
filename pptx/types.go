// Package pptx parses PPTX (Office Open XML presentation) documents into
// one fixed page per slide.
package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // EMU
	Cy int64 `xml:"cy,attr"` // EMU
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type cNvPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

// spXML is a p:sp or p:cxnSp shape.
type spXML struct {
	NvSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
		Ph    *phXML   `xml:"nvPr>ph"`
	} `xml:"nvSpPr"`
	NvCxnSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvCxnSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

// phXML marks a shape as a placeholder.
type phXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

// layoutXML is the part of a slide layout read for placeholder frames.
type layoutXML struct {
	Shapes []spXML `xml:"cSld>spTree>sp"`
}

// grpSpPrXML is the property block that opens a p:grpSp.
type grpSpPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

// spPrXML holds shape geometry and fill.
type spPrXML struct {
	Xfrm     *xfrmXML     `xml:"xfrm"`
	PrstGeom *prstGeomXML `xml:"prstGeom"`
	fillXML
	Line      *lineXML      `xml:"ln"`
	EffectLst *effectLstXML `xml:"effectLst"`
}

type xfrmXML struct {
	Rot   int64    `xml:"rot,attr"`
	FlipH string   `xml:"flipH,attr"`
	FlipV string   `xml:"flipV,attr"`
	Off   pointXML `xml:"off"`
	Ext   sizeXML  `xml:"ext"`
	ChOff pointXML `xml:"chOff"`
	ChExt sizeXML  `xml:"chExt"`
}

type pointXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type sizeXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type prstGeomXML struct {
	Prst string `xml:"prst,attr"`
}

// fillXML is the fill choice shared by shape, background and cell
// properties.
type fillXML struct {
	NoFill    *struct{}    `xml:"noFill"`
	SolidFill *colorXML    `xml:"solidFill"`
	GradFill  *gradFillXML `xml:"gradFill"`
}

// colorXML is the DrawingML colour choice.
type colorXML struct {
	SRGB   *colorValXML `xml:"srgbClr"`
	Scheme *colorValXML `xml:"schemeClr"`
	Sys    *colorValXML `xml:"sysClr"`
	Preset *colorValXML `xml:"prstClr"`
}

type colorValXML struct {
	Val     string  `xml:"val,attr"`
	LastClr string  `xml:"lastClr,attr"`
	Alpha   *valXML `xml:"alpha"`
	LumMod  *valXML `xml:"lumMod"`
	LumOff  *valXML `xml:"lumOff"`
}

type gradFillXML struct {
	Stops []gradStopXML `xml:"gsLst>gs"`
	Lin   *struct {
		Ang int64 `xml:"ang,attr"`
	} `xml:"lin"`
}

type gradStopXML struct {
	Pos int64 `xml:"pos,attr"`
	colorXML
}

type lineXML struct {
	W         int64     `xml:"w,attr"`
	NoFill    *struct{} `xml:"noFill"`
	SolidFill *colorXML `xml:"solidFill"`
	PrstDash  *valXML   `xml:"prstDash"`
}

type effectLstXML struct {
	OuterShdw *outerShdwXML `xml:"outerShdw"`
}

type outerShdwXML struct {
	BlurRad int64 `xml:"blurRad,attr"`
	Dist    int64 `xml:"dist,attr"`
	Dir     int64 `xml:"dir,attr"`
	colorXML
}

// txBodyXML represents text body content.
type txBodyXML struct {
	BodyPr struct {
		Anchor string `xml:"anchor,attr"`
	} `xml:"bodyPr"`
	Paragraphs []pXML `xml:"p"`
}

// pXML is a text paragraph. Runs, fields and breaks keep document order.
type pXML struct {
	Properties pPrXML
	Items      []textItem
}

// textItem is a run, a field or a line break (Break set, Text empty).
type textItem struct {
	Text       string
	Properties rPrXML
	Break      bool
}

type pPrXML struct {
	Algn   string      `xml:"algn,attr"`
	Lvl    int         `xml:"lvl,attr"`
	MarL   int64       `xml:"marL,attr"`
	Indent int64       `xml:"indent,attr"`
	LnSpc  *spacingXML `xml:"lnSpc"`
	SpcBef *spacingXML `xml:"spcBef"`
	SpcAft *spacingXML `xml:"spcAft"`
	BuNone *struct{}   `xml:"buNone"`
	BuChar *struct {
		Char string `xml:"char,attr"`
	} `xml:"buChar"`
	BuAutoNum *struct {
		Type    string `xml:"type,attr"`
		StartAt int    `xml:"startAt,attr"`
	} `xml:"buAutoNum"`
}

type spacingXML struct {
	Pct *valXML `xml:"spcPct"`
	Pts *valXML `xml:"spcPts"`
}

type rPrXML struct {
	Sz        string    `xml:"sz,attr"`
	B         string    `xml:"b,attr"`
	I         string    `xml:"i,attr"`
	U         string    `xml:"u,attr"`
	Strike    string    `xml:"strike,attr"`
	SolidFill *colorXML `xml:"solidFill"`
	Latin     *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
	HlinkClick *struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"hlinkClick"`
}

func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r", "fld":
				var r struct {
					RPr  rPrXML `xml:"rPr"`
					Text string `xml:"t"`
				}
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, textItem{Text: r.Text, Properties: r.RPr})
			case "br":
				var br struct {
					RPr rPrXML `xml:"rPr"`
				}
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, textItem{Properties: br.RPr, Break: true})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// picXML represents a p:pic element.
type picXML struct {
	NvPicPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr spPrXML `xml:"spPr"`
}

// graphicFrameXML hosts tables, charts and diagrams.
type graphicFrameXML struct {
	NvGraphicFramePr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm        *xfrmXML       `xml:"xfrm"`
	GraphicData graphicDataXML `xml:"graphic>graphicData"`
}

type graphicDataXML struct {
	URI   string  `xml:"uri,attr"`
	Table *tblXML `xml:"tbl"`
	Chart *struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"chart"`
	Diagram *struct {
		DM string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships dm,attr"`
	} `xml:"relIds"`
}

// tblXML represents a DrawingML table.
type tblXML struct {
	Grid []struct {
		W int64 `xml:"w,attr"`
	} `xml:"tblGrid>gridCol"`
	Rows []trXML `xml:"tr"`
}

type trXML struct {
	H     int64   `xml:"h,attr"`
	Cells []tcXML `xml:"tc"`
}

type tcXML struct {
	GridSpan int        `xml:"gridSpan,attr"`
	RowSpan  int        `xml:"rowSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
	TxBody   *txBodyXML `xml:"txBody"`
	TcPr     tcPrXML    `xml:"tcPr"`
}

type tcPrXML struct {
	Anchor string   `xml:"anchor,attr"`
	LnL    *lineXML `xml:"lnL"`
	LnR    *lineXML `xml:"lnR"`
	LnT    *lineXML `xml:"lnT"`
	LnB    *lineXML `xml:"lnB"`
	fillXML
}

// bgXML represents p:bg.
type bgXML struct {
	BgPr *struct {
		fillXML
	} `xml:"bgPr"`
	BgRef *struct {
		colorXML
	} `xml:"bgRef"`
}
