/*
Package text holds the vocabulary for styled runs of text: styles, sizes,
colors, pitch and the resolution context used to turn point sizes into
pixels.

A Span is the unit handed to the shaping pipeline. It does not own any
resources, it merely describes a piece of text and how it should look.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package text

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Weight is the stroke weight of a font.
type Weight uint8

// Weights supported by the editor.
const (
	Medium Weight = iota
	Light
	Bold
)

func (w Weight) String() string {
	switch w {
	case Light:
		return "light"
	case Bold:
		return "bold"
	}
	return "medium"
}

// ParseWeight interprets a weight name, as used in configuration files.
func ParseWeight(s string) (Weight, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium", "":
		return Medium, true
	case "light":
		return Light, true
	case "bold":
		return Bold, true
	}
	return Medium, false
}

// Slant is the slope of a font.
type Slant uint8

// Slants supported by the editor.
const (
	Roman Slant = iota
	Italic
	Oblique
)

func (s Slant) String() string {
	switch s {
	case Italic:
		return "italic"
	case Oblique:
		return "oblique"
	}
	return "roman"
}

// ParseSlant interprets a slant name.
func ParseSlant(s string) (Slant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "roman", "":
		return Roman, true
	case "italic":
		return Italic, true
	case "oblique":
		return Oblique, true
	}
	return Roman, false
}

// Style combines weight and slant.
type Style struct {
	Weight Weight
	Slant  Slant
}

// Index maps a style to a small integer, unique per style. Useful as a key
// for style-indexed tables.
func (s Style) Index() int {
	return int(s.Weight)*3 + int(s.Slant)
}

func (s Style) String() string {
	return s.Weight.String() + "-" + s.Slant.String()
}

// Size is a text size in points with a resolution of a quarter point.
type Size uint16

const sizeScale = 4

// SizeFromPoints creates a size from a point value. Fractions finer than a
// quarter point are truncated.
func SizeFromPoints(pt float32) Size {
	if pt <= 0 {
		return 0
	}
	return Size(pt * sizeScale)
}

// Points returns the size in points.
func (sz Size) Points() float32 {
	return float32(sz) / sizeScale
}

// Fixed64 returns the size in 1/64th of a point.
func (sz Size) Fixed64() int64 {
	return int64(sz) << 4
}

// PixelsPerEm returns the em size in pixels for a DPI context, separately
// for both axes.
func (sz Size) PixelsPerEm(dpi DPI) (x, y float32) {
	v := sz.Points() / 72
	return v * float32(dpi.X), v * float32(dpi.Y)
}

// PPEM returns the horizontal em size in pixels as a 26.6 fixed point value,
// as expected by font libraries.
func (sz Size) PPEM(dpi DPI) fixed.Int26_6 {
	x, _ := sz.PixelsPerEm(dpi)
	return fixed.Int26_6(x*64 + 0.5)
}

func (sz Size) String() string {
	return fmt.Sprintf("%.2fpt", sz.Points())
}

// DPI is the pixel density of an output device.
type DPI struct {
	X, Y uint32
}

// DefaultDPI is used if no other resolution is configured.
var DefaultDPI = DPI{X: 96, Y: 96}

// UniformDPI creates a DPI with equal resolution for both axes.
func UniformDPI(d uint32) DPI {
	return DPI{X: d, Y: d}
}

// Color is a non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var _ color.Color = Color{}

// Pitch expresses the intent of a run to be set in a fixed-width or in a
// proportional font.
type Pitch uint8

// Pitches
const (
	Fixed Pitch = iota
	Variable
)

func (p Pitch) String() string {
	if p == Variable {
		return "variable"
	}
	return "fixed"
}

// Span describes a run of text with uniform formatting.
type Span struct {
	Text      string
	Size      Size
	Style     Style
	Color     Color
	Pitch     Pitch
	Underline *Color // optional underline color
}

// NewSpan creates a span without underline.
func NewSpan(s string, size Size, style Style, color Color, pitch Pitch) Span {
	return Span{
		Text:  s,
		Size:  size,
		Style: style,
		Color: color,
		Pitch: pitch,
	}
}

// Line is a sequence of spans making up one visual line.
type Line []Span

// Defaults for editor text.
var (
	TextSize        = SizeFromPoints(8)
	GutterTextSize  = SizeFromPoints(7)
	TextColor       = Color{R: 96, G: 96, B: 96, A: 255}
	GutterColor     = Color{R: 196, G: 196, B: 196, A: 255}
	DefaultTabSize  = 8
	DefaultTextFont = Style{Weight: Medium, Slant: Roman}
)
