package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// ResolvedStyle contains the fully resolved properties for a style.
type ResolvedStyle struct {
	// Identity
	ID   string
	Name string
	Type string // paragraph, character, table

	HeadingLevel int // 1-9, 0 if not a heading

	// Paragraph properties
	Paragraph model.ParagraphStyle

	// Run/character properties
	Text model.TextStyle

	// Table borders declared by a table style.
	TableBorders tableBordersXML
}

// StyleResolver resolves styles with inheritance support.
type StyleResolver struct {
	styles   map[string]*styleDefXML
	defaults *docDefaultsXML
	resolved map[string]*ResolvedStyle
	// defaultParagraph is the style applied when a paragraph names none.
	defaultParagraph string
}

// NewStyleResolver creates a new style resolver from parsed styles.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*ResolvedStyle),
	}

	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		if style.Type == "paragraph" && (style.Default == "1" || style.Default == "true") {
			sr.defaultParagraph = style.StyleID
		}
	}
	sr.defaults = &styles.DocDefaults

	return sr
}

// Resolve returns the fully resolved style for the given style ID.
// If the style doesn't exist, returns the document defaults.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if styleID == "" {
		styleID = sr.defaultParagraph
	}

	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := sr.defaultStyle()
	resolved.ID = styleID

	styleDef, ok := sr.styles[styleID]
	if !ok {
		resolved.HeadingLevel = detectBuiltInHeading(styleID)
		resolved.Paragraph.HeadingLevel = clampHeading(resolved.HeadingLevel)
		sr.resolved[styleID] = resolved
		return resolved
	}

	resolved.Name = styleDef.Name.Val
	resolved.Type = styleDef.Type

	// Apply properties from base to derived
	for _, sid := range sr.buildInheritanceChain(styleID) {
		if def, ok := sr.styles[sid]; ok {
			applyParagraphProps(&resolved.Paragraph, def.PPr)
			applyRunProps(&resolved.Text, def.RPr)
			if def.TblPr.Borders != (tableBordersXML{}) {
				resolved.TableBorders = def.TblPr.Borders
			}
		}
	}

	if level := detectHeading(styleDef); level > 0 {
		resolved.HeadingLevel = level
		resolved.Paragraph.HeadingLevel = clampHeading(level)
	}

	sr.resolved[styleID] = resolved
	return resolved
}

// defaultStyle returns a style carrying the docDefaults paragraph
// properties. Default run properties stay on the page's base text.
func (sr *StyleResolver) defaultStyle() *ResolvedStyle {
	rs := &ResolvedStyle{}
	if sr.defaults != nil {
		applyParagraphProps(&rs.Paragraph, sr.defaults.PPrDefault.PPr)
	}
	return rs
}

// buildInheritanceChain returns style IDs from base to derived.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...) // Prepend

		if def, ok := sr.styles[current]; ok {
			current = def.BasedOn.Val
		} else {
			break
		}
	}

	return chain
}

// applyParagraphProps layers ppr over ps.
func applyParagraphProps(ps *model.ParagraphStyle, ppr paragraphPropsXML) {
	if ppr.Justification.Val != "" {
		ps.Alignment = parseAlignment(ppr.Justification.Val)
	}
	if ppr.Spacing.Before != "" {
		ps.SpaceBefore = model.Float(parseTwips(ppr.Spacing.Before))
	}
	if ppr.Spacing.After != "" {
		ps.SpaceAfter = model.Float(parseTwips(ppr.Spacing.After))
	}
	if ls := parseLineSpacing(ppr.Spacing); ls != nil {
		ps.LineSpacing = ls
	}
	if left := firstNonEmpty(ppr.Indent.Left, ppr.Indent.Start); left != "" {
		ps.IndentLeft = parseTwips(left)
	}
	if right := firstNonEmpty(ppr.Indent.Right, ppr.Indent.End); right != "" {
		ps.IndentRight = parseTwips(right)
	}
	if ppr.Indent.FirstLine != "" {
		ps.IndentFirstLine = parseTwips(ppr.Indent.FirstLine)
	}
	if ppr.Indent.Hanging != "" {
		ps.IndentFirstLine = -parseTwips(ppr.Indent.Hanging)
	}
	if ppr.OutlineLvl.Val != "" {
		if level, err := strconv.Atoi(ppr.OutlineLvl.Val); err == nil && level >= 0 && level <= 8 {
			ps.HeadingLevel = clampHeading(level + 1)
		}
	}
}

// applyRunProps layers rpr over ts.
func applyRunProps(ts *model.TextStyle, rpr runPropsXML) {
	if family := rpr.Font.family(); family != "" {
		ts.FontFamily = family
	}
	if rpr.FontSize.Val != "" {
		if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
			ts.Size = model.Float(size)
		}
	}
	if rpr.Bold.set() {
		ts.Bold = rpr.Bold.on()
	}
	if rpr.Italic.set() {
		ts.Italic = rpr.Italic.on()
	}
	if rpr.Strike.set() {
		ts.Strike = rpr.Strike.on()
	}
	if rpr.DStrike.set() && rpr.DStrike.on() {
		ts.Strike = true
	}
	if rpr.Underline.Val != "" {
		ts.Underline = rpr.Underline.Val != "none"
	}
	if rpr.Color.Val != "" {
		if c, ok := model.ParseHexColor(rpr.Color.Val); ok {
			ts.Color = &c
		} else {
			ts.Color = nil
		}
	}
}

// ResolveParagraph resolves the paragraph style named by ppr and layers the
// direct paragraph formatting on top.
func (sr *StyleResolver) ResolveParagraph(ppr paragraphPropsXML) model.ParagraphStyle {
	ps := sr.Resolve(ppr.Style.Val).Paragraph
	applyParagraphProps(&ps, ppr)
	return ps
}

// ResolveRun resolves run properties, combining the paragraph style, the
// run's character style and direct formatting in that order.
func (sr *StyleResolver) ResolveRun(paragraphStyle string, rpr runPropsXML) model.TextStyle {
	ts := sr.Resolve(paragraphStyle).Text
	if rpr.Style.Val != "" {
		charStyle := sr.Resolve(rpr.Style.Val).Text
		mergeText(&ts, charStyle)
	}
	applyRunProps(&ts, rpr)
	return ts
}

// TableBorders returns the borders declared by a table style.
func (sr *StyleResolver) TableBorders(styleID string) tableBordersXML {
	if styleID == "" {
		return tableBordersXML{}
	}
	return sr.Resolve(styleID).TableBorders
}

// mergeText overlays the set fields of over onto ts.
func mergeText(ts *model.TextStyle, over model.TextStyle) {
	ts.Bold = ts.Bold || over.Bold
	ts.Italic = ts.Italic || over.Italic
	ts.Underline = ts.Underline || over.Underline
	ts.Strike = ts.Strike || over.Strike
	if over.Size != nil {
		ts.Size = over.Size
	}
	if over.Color != nil {
		ts.Color = over.Color
	}
	if over.FontFamily != "" {
		ts.FontFamily = over.FontFamily
	}
}

// detectHeading determines if a style represents a heading.
func detectHeading(def *styleDefXML) int {
	if level := detectBuiltInHeading(def.StyleID); level > 0 {
		return level
	}

	name := strings.ToLower(def.Name.Val)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.Contains(name, strconv.Itoa(i)) {
				return i
			}
		}
		return 1
	}

	if def.PPr.OutlineLvl.Val != "" {
		if level, err := strconv.Atoi(def.PPr.OutlineLvl.Val); err == nil && level >= 0 && level <= 8 {
			return level + 1
		}
	}
	return 0
}

var builtInHeadings = map[string]int{
	"heading1": 1, "heading2": 2, "heading3": 3,
	"heading4": 4, "heading5": 5, "heading6": 6,
	"heading7": 7, "heading8": 8, "heading9": 9,
	"title": 1, "subtitle": 2,
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func detectBuiltInHeading(styleID string) int {
	return builtInHeadings[strings.ToLower(styleID)]
}

// clampHeading maps Word's nine outline levels onto 1-6.
func clampHeading(level int) int {
	if level > 6 {
		return 6
	}
	if level < 0 {
		return 0
	}
	return level
}

func parseAlignment(val string) model.TextAlignment {
	switch val {
	case "center":
		return model.AlignCenter
	case "right", "end":
		return model.AlignRight
	case "both", "distribute", "justify":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

// parseLineSpacing reads w:spacing line/lineRule. Auto spacing is in
// 240ths of a line; exact and at-least spacing are in twips.
func parseLineSpacing(sp spacingXML) *model.LineSpacing {
	if sp.Line == "" {
		return nil
	}
	val, err := strconv.ParseFloat(sp.Line, 64)
	if err != nil || val <= 0 {
		return nil
	}
	switch sp.LineRule {
	case "exact", "atLeast":
		return &model.LineSpacing{Kind: model.LineSpacingExact, Value: model.TwipsToPoints(val)}
	default:
		return &model.LineSpacing{Kind: model.LineSpacingProportional, Value: val / 240}
	}
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return model.HalfPointsToPoints(val)
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return model.TwipsToPoints(val)
}

// parseEMU parses a length in EMUs to points.
func parseEMU(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return model.EMUToPoints(val)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// symbolText maps a w:sym character code to text. Symbol-font codes live
// in the private use area at U+F000 and map down to their ASCII slot.
func symbolText(code string) string {
	n, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return ""
	}
	if n >= 0xF000 && n <= 0xF0FF {
		n -= 0xF000
	}
	if n < 0x20 {
		return ""
	}
	return string(rune(n))
}
