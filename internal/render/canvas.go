package render

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/opd-ai/go-activity/internal/layer"
)

// Canvas is a layer backing store rasterized in software by gg. It needs no
// window, so it backs snapshots and headless rendering.
type Canvas struct {
	dc  *gg.Context
	err error
}

// NewCanvas allocates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapButt)
	dc.Clear()
	return &Canvas{dc: dc}
}

// Err returns the first rasterization error, if any.
func (c *Canvas) Err() error { return c.err }

// Context returns the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

// RGBA returns the canvas pixels, premultiplied. The image shares memory with
// the canvas and is only valid until the next drawing call.
func (c *Canvas) RGBA() *image.RGBA {
	c.keep(c.dc.FlushGPU())
	w, h := c.Size()
	return &image.RGBA{
		Pix:    c.dc.ResizeTarget().Data(),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// ClipExtents implements layer.Context.
func (c *Canvas) ClipExtents() (x1, y1, x2, y2 float64) {
	return 0, 0, float64(c.dc.Width()), float64(c.dc.Height())
}

// SetSourceRGBA implements layer.Context.
func (c *Canvas) SetSourceRGBA(r, g, b, a float64) { c.dc.SetRGBA(r, g, b, a) }

// SetLineWidth implements layer.Context.
func (c *Canvas) SetLineWidth(width float64) { c.dc.SetLineWidth(width) }

// DrawLine implements layer.Context.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) {
	c.dc.DrawLine(x1, y1, x2, y2)
	c.keep(c.dc.Stroke())
}

// DrawCircle implements layer.Context.
func (c *Canvas) DrawCircle(xc, yc, radius float64) {
	c.dc.DrawCircle(xc, yc, radius)
	c.keep(c.dc.Stroke())
}

// FillCircle implements layer.Context.
func (c *Canvas) FillCircle(xc, yc, radius float64) {
	c.dc.DrawCircle(xc, yc, radius)
	c.keep(c.dc.Fill())
}

// Size implements layer.Surface.
func (c *Canvas) Size() (width, height int) { return c.dc.Width(), c.dc.Height() }

// Clear implements layer.Surface.
func (c *Canvas) Clear() { c.dc.Clear() }

// ApplyMask implements layer.Surface. Pixels are premultiplied, so scaling
// all four channels by the mask alpha keeps only what the mask covers.
func (c *Canvas) ApplyMask(mask layer.Surface) {
	m, ok := mask.(*Canvas)
	if !ok {
		return
	}
	c.keep(c.dc.FlushGPU())
	c.keep(m.dc.FlushGPU())
	dst := c.dc.ResizeTarget().Data()
	src := m.dc.ResizeTarget().Data()
	if len(src) != len(dst) {
		return
	}
	for i := 0; i+3 < len(dst); i += 4 {
		a := uint32(src[i+3])
		for k := 0; k < 4; k++ {
			dst[i+k] = uint8((uint32(dst[i+k])*a + 127) / 255)
		}
	}
}

// Dispose implements layer.Disposer.
func (c *Canvas) Dispose() { c.keep(c.dc.Close()) }

func (c *Canvas) keep(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// CanvasBackend allocates Canvases.
type CanvasBackend struct{}

// NewSurface implements layer.Backend.
func (*CanvasBackend) NewSurface(width, height int) layer.Surface {
	return NewCanvas(width, height)
}
