package indicator

import (
	"math"

	"github.com/opd-ai/go-activity/internal/conical"
	"github.com/opd-ai/go-activity/internal/layer"
	"github.com/opd-ai/go-activity/internal/paint"
)

// Shape is a primitive presets build their layers from.
type Shape int

const (
	// ShapeGradientCircle is a ring filled with a conical gradient fading
	// from transparent to the color over one turn.
	ShapeGradientCircle Shape = iota
)

// RingWidth returns the stroke width of rings of the given size.
func RingWidth(size layer.Size) float64 {
	return math.Max(2, math.Min(size.Width, size.Height)/12)
}

// LayerWith builds a layer of the shape sized to size.
func (s Shape) LayerWith(size layer.Size, c paint.Color) *layer.Layer {
	frame := layer.Rect{Width: size.Width, Height: size.Height}

	switch s {
	case ShapeGradientCircle:
		g := conical.New()
		g.SetFrame(frame)
		g.SetColors(c.WithAlpha(0), c)
		g.SetMask(layer.NewRing(paint.Black, RingWidth(size)).Layer)
		return g.Layer
	default:
		l := layer.New()
		l.SetFrame(frame)
		return l
	}
}
