package layer

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromExtents builds a rectangle from two opposite corners, the form
// returned by Context.ClipExtents.
func RectFromExtents(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// MidX returns the horizontal center.
func (r Rect) MidX() float64 { return r.X + r.Width/2 }

// MidY returns the vertical center.
func (r Rect) MidY() float64 { return r.Y + r.Height/2 }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool { return !(r.Width > 0 && r.Height > 0) }

// Inset shrinks the rectangle by d on every side. The result never has a
// negative size.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
	if out.Width < 0 {
		out.X, out.Width = r.MidX(), 0
	}
	if out.Height < 0 {
		out.Y, out.Height = r.MidY(), 0
	}
	return out
}

// Centered returns a rectangle of the given size centered inside r.
func (r Rect) Centered(s Size) Rect {
	return Rect{
		X:      r.X + (r.Width-s.Width)/2,
		Y:      r.Y + (r.Height-s.Height)/2,
		Width:  s.Width,
		Height: s.Height,
	}
}

// pixelSize rounds a size up to whole pixels for backing store allocation.
func pixelSize(s Size) (w, h int) {
	if !(s.Width > 0) || !(s.Height > 0) || math.IsInf(s.Width, 0) || math.IsInf(s.Height, 0) {
		return 0, 0
	}
	return int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
}
