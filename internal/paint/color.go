// Package paint provides the floating point color model used by the layer
// tree and the gradient renderers, plus parsing of textual color values.
package paint

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FullTurn is one full revolution in radians.
const FullTurn = 2 * math.Pi

// Color is a straight (non-premultiplied) RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// FromRGBA converts an 8-bit color to a Color.
func FromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// Parse parses a textual color (see ParseColor) into a Color.
func Parse(s string) (Color, error) {
	c, err := ParseColor(s)
	if err != nil {
		return Color{}, err
	}
	return FromRGBA(c), nil
}

// RGBA converts the color to an 8-bit color, rounding each channel.
func (c Color) RGBA() color.RGBA {
	c = c.Sanitize()
	return color.RGBA{
		R: clampToByte(c.R),
		G: clampToByte(c.G),
		B: clampToByte(c.B),
		A: clampToByte(c.A),
	}
}

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Sanitize clamps every channel to [0,1] and replaces NaN with 0.
func (c Color) Sanitize() Color {
	return Color{
		R: clampUnit(c.R),
		G: clampUnit(c.G),
		B: clampUnit(c.B),
		A: clampUnit(c.A),
	}
}

// Lerp linearly interpolates each channel between from and to.
// t = 0 yields from, t = 1 yields to.
func Lerp(from, to Color, t float64) Color {
	return Color{
		R: from.R + t*(to.R-from.R),
		G: from.G + t*(to.G-from.G),
		B: from.B + t*(to.B-from.B),
		A: from.A + t*(to.A-from.A),
	}
}

// Spectrum returns the fully saturated, fully bright HSV color whose hue is
// the angle mapped linearly from [0, 2π] onto [0°, 360°].
func Spectrum(angle float64) Color {
	hue := math.Mod(angle/FullTurn*360, 360)
	if hue < 0 {
		hue += 360
	}
	if math.IsNaN(hue) {
		hue = 0
	}
	hsv := colorful.Hsv(hue, 1, 1)
	return Color{R: hsv.R, G: hsv.G, B: hsv.B, A: 1}.Sanitize()
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return v
}

func clampToByte(v float64) uint8 {
	return uint8(math.Round(clampUnit(v) * 255))
}
