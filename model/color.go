package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ParseHexColor parses "RRGGBB", "#RRGGBB" or the 8-digit "AARRGGBB" form
// used by spreadsheets. It reports false for anything else, including
// "auto".
func ParseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lerp linearly interpolates each channel between c and other; t is
// clamped to [0, 1]. Lerp(x, 0) == c and Lerp(x, 1) == other exactly.
func (c Color) Lerp(other Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{R: mix(c.R, other.R), G: mix(c.G, other.G), B: mix(c.B, other.B)}
}

// ColorPtr returns a pointer to c.
func ColorPtr(c Color) *Color {
	return &c
}
