package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB is an opaque 8-bit-per-channel color. The zero value is black, the
// initial color of every canvas pixel.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// String formats the color as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBModel converts any color to RGB, dropping alpha without
// premultiplication against a background.
var RGBModel = color.ModelFunc(func(c color.Color) color.Color {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	return FromColor(c)
})

// FromColor converts a standard color to RGB. Alpha is discarded after
// un-premultiplying.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Common colors.
var (
	Black   = RGB{}
	White   = RGB{R: 255, G: 255, B: 255}
	Red     = RGB{R: 255}
	Green   = RGB{G: 255}
	Blue    = RGB{B: 255}
	Yellow  = RGB{R: 255, G: 255}
	Cyan    = RGB{G: 255, B: 255}
	Magenta = RGB{R: 255, B: 255}
)

// namedColors maps CSS-style names to colors.
var namedColors = map[string]RGB{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"lime":    Green,
	"green":   {G: 128},
	"blue":    Blue,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"aqua":    Cyan,
	"magenta": Magenta,
	"fuchsia": Magenta,
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},
	"silver":  {R: 192, G: 192, B: 192},
	"maroon":  {R: 128},
	"olive":   {R: 128, G: 128},
	"teal":    {G: 128, B: 128},
	"navy":    {B: 128},
	"purple":  {R: 128, B: 128},
	"orange":  {R: 255, G: 165},
	"pink":    {R: 255, G: 192, B: 203},
	"brown":   {R: 165, G: 42, B: 42},
	"gold":    {R: 255, G: 215},
}

// ParseRGB parses a color string. Supported formats:
//   - Named colors: "red", "navy", ...
//   - Hex: "#RGB", "#RRGGBB", with or without the leading #
//   - Function: "rgb(255, 0, 0)"
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty color string")
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(strings.ToLower(s), "rgb(") {
		return parseRGBFunc(s)
	}
	return parseHex(s)
}

// MustParseRGB is like ParseRGB but panics on error. Use it only for
// known-good literals.
func MustParseRGB(s string) RGB {
	c, err := ParseRGB(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("unrecognized color format: %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func parseRGBFunc(s string) (RGB, error) {
	if !strings.HasSuffix(s, ")") {
		return RGB{}, fmt.Errorf("invalid rgb() format: %q", s)
	}
	inner := s[strings.Index(s, "(")+1 : len(s)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("rgb() requires 3 components, got %d", len(parts))
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, fmt.Errorf("invalid rgb() component %q: %w", p, err)
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("rgb() component %d out of range [0, 255]", v)
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
