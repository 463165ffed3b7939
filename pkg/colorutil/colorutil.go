// Package colorutil provides paint color normalization and the default palette.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB is an opaque paint color with 0-255 channels. Alpha is never carried:
// the vision engines only accept three channels.
type RGB struct {
	R, G, B uint8
}

// Palette colors offered by the GUI and accepted by name in scripts.
var (
	Black  = RGB{0, 0, 0}
	White  = RGB{255, 255, 255}
	Red    = RGB{255, 0, 0}
	Orange = RGB{255, 149, 0}
	Yellow = RGB{255, 214, 10}
	Green  = RGB{52, 199, 89}
	Blue   = RGB{0, 122, 255}
	Purple = RGB{175, 82, 222}
	Brown  = RGB{162, 132, 94}
)

var named = map[string]RGB{
	"black":  Black,
	"white":  White,
	"red":    Red,
	"orange": Orange,
	"yellow": Yellow,
	"green":  Green,
	"blue":   Blue,
	"purple": Purple,
	"brown":  Brown,
}

// Palette returns the palette in display order.
func Palette() []RGB {
	return []RGB{Black, Red, Orange, Yellow, Green, Blue, Purple, Brown, White}
}

// Name returns the palette name of c.
func Name(c RGB) (string, bool) {
	for name, p := range named {
		if p == c {
			return name, true
		}
	}
	return "", false
}

// FromColor normalizes any color to three 0-255 channels. The color is
// un-premultiplied first so a half-transparent red stays red.
func FromColor(c color.Color) RGB {
	if c == nil {
		return Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// RGBA returns the color as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// Parse accepts a palette name or a #rrggbb / rrggbb hex string.
func Parse(s string) (RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
