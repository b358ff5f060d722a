package pptx

import (
	"bytes"
	"math"
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/officeconv/model"
)

// Theme maps colour-scheme slot names (accent1, dk1, ...) to colours.
type Theme map[string]model.Color

// schemeAliases maps the text/background names used by schemeClr to the
// slots declared in the theme.
var schemeAliases = map[string]string{
	"tx1": "dk1",
	"bg1": "lt1",
	"tx2": "dk2",
	"bg2": "lt2",
}

// ParseTheme reads the colour scheme of a theme part. Slots whose colour
// cannot be read are left out.
func ParseTheme(data []byte) (Theme, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	theme := make(Theme)
	slots, err := xmlquery.QueryAll(doc, "//*[local-name()='clrScheme']/*")
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		for c := slot.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			val := c.SelectAttr("val")
			if c.Data == "sysClr" {
				val = c.SelectAttr("lastClr")
			}
			if col, ok := model.ParseHexColor(val); ok {
				theme[slot.Data] = col
			}
			break
		}
	}
	return theme, nil
}

// Lookup resolves a schemeClr value.
func (t Theme) Lookup(name string) (model.Color, bool) {
	if alias, ok := schemeAliases[name]; ok {
		name = alias
	}
	c, ok := t[name]
	return c, ok
}

// presetColors covers the prstClr names that appear in practice.
var presetColors = map[string]model.Color{
	"black":  model.Black,
	"white":  model.White,
	"red":    {R: 255},
	"green":  {G: 128},
	"blue":   {B: 255},
	"yellow": {R: 255, G: 255},
	"gray":   {R: 128, G: 128, B: 128},
}

// resolve returns the colour of a colour choice and its alpha in [0, 1].
func (t Theme) resolve(c *colorXML) (model.Color, float64, bool) {
	if c == nil {
		return model.Color{}, 1, false
	}

	var (
		v   *colorValXML
		col model.Color
		ok  bool
	)
	switch {
	case c.SRGB != nil:
		v = c.SRGB
		col, ok = model.ParseHexColor(v.Val)
	case c.Scheme != nil:
		v = c.Scheme
		col, ok = t.Lookup(v.Val)
	case c.Sys != nil:
		v = c.Sys
		col, ok = model.ParseHexColor(v.LastClr)
	case c.Preset != nil:
		v = c.Preset
		col, ok = presetColors[v.Val]
	}
	if !ok {
		return model.Color{}, 1, false
	}

	if v.LumMod != nil || v.LumOff != nil {
		col = adjustLuminance(col, percentage(v.LumMod, 1), percentage(v.LumOff, 0))
	}
	return col, percentage(v.Alpha, 1), true
}

// percentage reads a DrawingML percentage (1/1000 of a percent).
func percentage(v *valXML, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	n, err := strconv.ParseFloat(v.Val, 64)
	if err != nil {
		return fallback
	}
	return n / 100000
}

// adjustLuminance applies lumMod then lumOff in HSL space.
func adjustLuminance(c model.Color, mod, off float64) model.Color {
	h, s, l := toHSL(c)
	l = math.Max(0, math.Min(1, l*mod+off))
	return fromHSL(h, s, l)
}

func toHSL(c model.Color) (h, s, l float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2
	if maxC == minC {
		return 0, 0, l
	}
	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func fromHSL(h, s, l float64) model.Color {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return model.Color{R: v, G: v, B: v}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	channel := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return model.Color{R: channel(h + 1.0/3), G: channel(h), B: channel(h - 1.0/3)}
}
