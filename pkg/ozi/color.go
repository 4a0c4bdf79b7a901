package ozi

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an OziExplorer color value. Files store colors as a decimal
// integer with red in the low byte: R + G*256 + B*65536.
type Color int

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color(int(r) | int(g)<<8 | int(b)<<16)
}

// Components returns the red, green and blue parts of c.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16)
}

var namedColors = map[string]Color{
	"black":   RGB(0, 0, 0),
	"white":   RGB(255, 255, 255),
	"red":     RGB(255, 0, 0),
	"lime":    RGB(0, 255, 0),
	"green":   RGB(0, 128, 0),
	"blue":    RGB(0, 0, 255),
	"yellow":  RGB(255, 255, 0),
	"cyan":    RGB(0, 255, 255),
	"magenta": RGB(255, 0, 255),
	"maroon":  RGB(128, 0, 0),
	"navy":    RGB(0, 0, 128),
	"olive":   RGB(128, 128, 0),
	"purple":  RGB(128, 0, 128),
	"teal":    RGB(0, 128, 128),
	"gray":    RGB(128, 128, 128),
	"silver":  RGB(192, 192, 192),
	"orange":  RGB(255, 165, 0),
}

// ResolveColor resolves a color descriptor: a symbolic name ("red"), a hex
// triplet ("#FF0000") or a decimal color integer ("255").
func ResolveColor(desc string) (Color, error) {
	d := strings.ToLower(strings.TrimSpace(desc))
	if c, ok := namedColors[d]; ok {
		return c, nil
	}

	if hex, ok := strings.CutPrefix(d, "#"); ok {
		if len(hex) != 6 {
			return 0, fmt.Errorf("invalid hex color %q", desc)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", desc, err)
		}
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, fmt.Errorf("unknown color %q", desc)
	}
	if n < 0 || n > 0xFFFFFF {
		return 0, fmt.Errorf("color %d out of range", n)
	}
	return Color(n), nil
}
