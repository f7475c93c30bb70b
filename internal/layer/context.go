package layer

// Context is the drawing capability handed to a Drawable. Its method set
// mirrors the Cairo-style renderer so any backend can satisfy it.
type Context interface {
	// ClipExtents returns the bounding box of the drawable area as
	// (x1, y1) top-left and (x2, y2) bottom-right.
	ClipExtents() (x1, y1, x2, y2 float64)
	// SetSourceRGBA sets the color used by subsequent drawing calls.
	SetSourceRGBA(r, g, b, a float64)
	// SetLineWidth sets the stroke width used by subsequent strokes.
	SetLineWidth(width float64)
	// DrawLine strokes a straight segment.
	DrawLine(x1, y1, x2, y2 float64)
	// DrawCircle strokes a circle outline.
	DrawCircle(xc, yc, radius float64)
	// FillCircle fills a circle.
	FillCircle(xc, yc, radius float64)
}

// Drawable paints layer content. The host calls Draw whenever the layer has
// been invalidated; the context is sized to the layer's bounds.
type Drawable interface {
	Draw(ctx Context)
}

// DrawableFunc adapts a function to the Drawable interface.
type DrawableFunc func(ctx Context)

// Draw calls f(ctx).
func (f DrawableFunc) Draw(ctx Context) { f(ctx) }

// Surface is a backing store a layer draws its content into.
type Surface interface {
	Context
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	// Clear resets every pixel to transparent.
	Clear()
	// ApplyMask keeps only the parts of the surface covered by mask,
	// scaling each pixel by the mask's alpha. Masks from another backend
	// are ignored.
	ApplyMask(mask Surface)
}

// Disposer is implemented by surfaces that hold resources which must be
// released explicitly. A layer disposes a surface when it replaces it.
type Disposer interface {
	Dispose()
}

// Backend allocates surfaces for a particular renderer.
type Backend interface {
	NewSurface(width, height int) Surface
}
