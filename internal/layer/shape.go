package layer

import (
	"math"

	"github.com/opd-ai/go-activity/internal/paint"
)

// ShapeKind selects the geometry a ShapeLayer paints.
type ShapeKind int

const (
	// ShapeCircle fills the circle inscribed in the layer bounds.
	ShapeCircle ShapeKind = iota
	// ShapeRing strokes the circle inscribed in the layer bounds. The stroke
	// is inset by half its width so it never leaves the bounds.
	ShapeRing
)

// String returns the shape name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRing:
		return "ring"
	default:
		return "unknown"
	}
}

// ShapeLayer paints a single solid shape.
type ShapeLayer struct {
	*Layer
	kind      ShapeKind
	color     paint.Color
	lineWidth float64
}

// NewShape returns a shape layer of the given kind and color.
func NewShape(kind ShapeKind, c paint.Color) *ShapeLayer {
	s := &ShapeLayer{Layer: New(), kind: kind, color: c, lineWidth: 1}
	s.SetContent(s)
	return s
}

// NewRing returns a ring shape of the given stroke width.
func NewRing(c paint.Color, lineWidth float64) *ShapeLayer {
	s := NewShape(ShapeRing, c)
	s.SetLineWidth(lineWidth)
	return s
}

// Kind returns the shape kind.
func (s *ShapeLayer) Kind() ShapeKind { return s.kind }

// Color returns the shape color.
func (s *ShapeLayer) Color() paint.Color { return s.color }

// SetColor changes the shape color.
func (s *ShapeLayer) SetColor(c paint.Color) {
	s.color = c
	s.SetNeedsDisplay()
}

// LineWidth returns the ring stroke width.
func (s *ShapeLayer) LineWidth() float64 { return s.lineWidth }

// SetLineWidth changes the ring stroke width. Non-positive widths are ignored.
func (s *ShapeLayer) SetLineWidth(w float64) {
	if !(w > 0) || math.IsInf(w, 0) {
		return
	}
	s.lineWidth = w
	s.SetNeedsDisplay()
}

// Draw implements Drawable.
func (s *ShapeLayer) Draw(ctx Context) {
	r := RectFromExtents(ctx.ClipExtents())
	radius := math.Min(r.Width, r.Height) / 2
	c := s.color.Sanitize()
	ctx.SetSourceRGBA(c.R, c.G, c.B, c.A)

	switch s.kind {
	case ShapeCircle:
		if radius > 0 {
			ctx.FillCircle(r.MidX(), r.MidY(), radius)
		}
	case ShapeRing:
		radius -= s.lineWidth / 2
		if radius > 0 {
			ctx.SetLineWidth(s.lineWidth)
			ctx.DrawCircle(r.MidX(), r.MidY(), radius)
		}
	}
}
