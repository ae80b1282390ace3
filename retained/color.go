package retained

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 0xRRGGBBAA colour value.
type Color uint32

// Common colours.
const (
	Transparent Color = 0x00000000
	Black       Color = 0x000000FF
	White       Color = 0xFFFFFFFF
	Gray        Color = 0x808080FF
	LightGray   Color = 0xD0D0D0FF
	DarkGray    Color = 0x404040FF
	Blue        Color = 0x2F6FDBFF
)

// RGBA builds a colour from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (Color, error) {
	alpha := uint8(0xFF)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return 0, fmt.Errorf("parse alpha in %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	r, g, b := c.RGB255()
	return RGBA(r, g, b, alpha), nil
}

// Channels returns the 8-bit red, green, blue and alpha channels.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c) }

// Hex formats the colour as "#RRGGBB" (alpha dropped when opaque).
func (c Color) Hex() string {
	r, g, b, a := c.Channels()
	if a == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

func (c Color) colorful() colorful.Color {
	r, g, b, _ := c.Channels()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Blend mixes c towards o by t in [0,1] in Lab space. Alpha is taken from c.
func (c Color) Blend(o Color, t float64) Color {
	switch {
	case t <= 0:
		return c
	case t >= 1:
		return o&^0xFF | Color(c.Alpha())
	}
	mixed := c.colorful().BlendLab(o.colorful(), t).Clamped()
	r, g, b := mixed.RGB255()
	return RGBA(r, g, b, c.Alpha())
}

// Lighten blends towards white.
func (c Color) Lighten(t float64) Color { return c.Blend(White, t) }

// Darken blends towards black.
func (c Color) Darken(t float64) Color { return c.Blend(Black, t) }
