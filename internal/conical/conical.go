// Package conical paints angular sweep gradients.
//
// The gradient is rasterized by stroking radial lines from the center of the
// clip rectangle out past its corners, one per angular step, each colored by
// the angle it was drawn at. Colors are anchored to the absolute angle: a
// partial arc shows the same colors the full circle would show over that arc.
package conical

import (
	"math"

	"github.com/opd-ai/go-activity/internal/layer"
	"github.com/opd-ai/go-activity/internal/paint"
)

// StrokeWidth is the width of each radial stroke.
const StrokeWidth = 1.0

// Layer is a layer whose content is a conical gradient. The zero value is not
// usable; call New.
type Layer struct {
	*layer.Layer

	colors     []paint.Color
	locations  []float64
	startAngle float64
	endAngle   float64
}

// New returns a gradient layer sweeping the full circle. With no colors it
// paints the HSV spectrum.
func New() *Layer {
	g := &Layer{Layer: layer.New(), endAngle: paint.FullTurn}
	g.SetName("conical")
	g.SetContent(g)
	return g
}

// Colors returns a copy of the color stops.
func (g *Layer) Colors() []paint.Color { return append([]paint.Color(nil), g.colors...) }

// SetColors replaces the color stops.
func (g *Layer) SetColors(colors ...paint.Color) {
	g.colors = append([]paint.Color(nil), colors...)
	g.SetNeedsDisplay()
}

// Locations returns a copy of the stop locations.
func (g *Layer) Locations() []float64 { return append([]float64(nil), g.locations...) }

// SetLocations replaces the stop locations. They are honored only when there
// is exactly one per color.
func (g *Layer) SetLocations(locations ...float64) {
	g.locations = append([]float64(nil), locations...)
	g.SetNeedsDisplay()
}

// StartAngle returns the first swept angle in radians.
func (g *Layer) StartAngle() float64 { return g.startAngle }

// SetStartAngle sets the first swept angle in radians.
func (g *Layer) SetStartAngle(a float64) {
	g.startAngle = a
	g.SetNeedsDisplay()
}

// EndAngle returns the last swept angle in radians.
func (g *Layer) EndAngle() float64 { return g.endAngle }

// SetEndAngle sets the last swept angle in radians.
func (g *Layer) SetEndAngle(a float64) {
	g.endAngle = a
	g.SetNeedsDisplay()
}

// Transitions derives the transitions of the current color stops.
func (g *Layer) Transitions() []Transition {
	return BuildTransitions(g.colors, g.locations)
}

// ColorForAngle resolves the color painted at angle.
func (g *Layer) ColorForAngle(angle float64) paint.Color {
	return colorForAngle(g.Transitions(), angle)
}

func colorForAngle(ts []Transition, angle float64) paint.Color {
	percent := angle / paint.FullTurn
	t, ok := findTransition(ts, percent)
	if !ok {
		return paint.Spectrum(angle)
	}
	return t.ColorAt(percent)
}

// Radius returns the stroke length used for r: long enough to reach every
// corner from the center.
func Radius(r layer.Rect) float64 {
	return math.Max(r.Width, r.Height) * math.Sqrt2
}

// Step returns the angular increment between strokes for r. It is inversely
// proportional to the radius so the arc between strokes stays constant.
func Step(r layer.Rect) float64 {
	return (math.Pi / 2) / Radius(r)
}

// Draw implements layer.Drawable.
func (g *Layer) Draw(ctx layer.Context) {
	g.SetMasksToBounds(true)

	r := layer.RectFromExtents(ctx.ClipExtents())
	radius := Radius(r)
	step := Step(r)
	if !(radius > 0) || !finite(radius) || !(step > 0) || !finite(step) {
		return
	}
	start, end := g.startAngle, g.endAngle
	if !finite(start) || !finite(end) || start > end {
		return
	}

	ts := g.Transitions()
	cx, cy := r.MidX(), r.MidY()
	ctx.SetLineWidth(StrokeWidth)

	// Angles are computed from the index so long sweeps do not drift.
	for i := 0; ; i++ {
		angle := start + float64(i)*step
		if angle > end {
			break
		}
		c := colorForAngle(ts, angle)
		ctx.SetSourceRGBA(c.R, c.G, c.B, c.A)
		ctx.DrawLine(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle), cx, cy)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
