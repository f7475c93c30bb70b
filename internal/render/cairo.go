// This file implements the Cairo-style path renderer that turns drawing
// commands into Ebiten vector triangles.

package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CairoRenderer implements the Cairo-style calls of layer.Context using
// Ebiten. It keeps a current color and line width, and rasterizes butt-capped
// strokes and antialiased fills onto its target image.
type CairoRenderer struct {
	screen       *ebiten.Image
	currentColor color.RGBA
	lineWidth    float32
	path         *vector.Path
	hasPath      bool
	mu           sync.Mutex
}

// NewCairoRenderer creates a new CairoRenderer instance.
// The renderer is initialized with default state: black color, line width 1.0.
func NewCairoRenderer() *CairoRenderer {
	return &CairoRenderer{
		currentColor: color.RGBA{A: 255},
		lineWidth:    1.0,
		path:         &vector.Path{},
	}
}

// SetScreen sets the target image for drawing operations.
// This must be called before any drawing functions.
func (cr *CairoRenderer) SetScreen(screen *ebiten.Image) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.screen = screen
}

// SetSourceRGBA sets the current drawing color using RGBA values (0.0-1.0).
// This is equivalent to cairo_set_source_rgba.
func (cr *CairoRenderer) SetSourceRGBA(r, g, b, a float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.currentColor = color.RGBA{
		R: clampToByte(r),
		G: clampToByte(g),
		B: clampToByte(b),
		A: clampToByte(a),
	}
}

// SetLineWidth sets the stroke width. Non-positive widths are ignored.
func (cr *CairoRenderer) SetLineWidth(width float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if width > 0 && !math.IsInf(width, 0) {
		cr.lineWidth = float32(width)
	}
}

// DrawLine draws a line from (x1,y1) to (x2,y2) with the current color and line width.
// This function is atomic - the mutex is held for the entire operation.
func (cr *CairoRenderer) DrawLine(x1, y1, x2, y2 float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.newPathUnlocked()
	cr.path.MoveTo(float32(x1), float32(y1))
	cr.hasPath = true
	cr.lineToUnlocked(x2, y2)
	cr.strokeUnlocked()
}

// DrawCircle draws a stroked circle.
// This function is atomic - the mutex is held for the entire operation.
func (cr *CairoRenderer) DrawCircle(xc, yc, radius float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.newPathUnlocked()
	cr.arcUnlocked(xc, yc, radius, 0, 2*math.Pi)
	cr.path.Close()
	cr.strokeUnlocked()
}

// FillCircle draws a filled circle.
// This function is atomic - the mutex is held for the entire operation.
func (cr *CairoRenderer) FillCircle(xc, yc, radius float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.newPathUnlocked()
	cr.arcUnlocked(xc, yc, radius, 0, 2*math.Pi)
	cr.path.Close()
	cr.fillUnlocked()
}

// ClipExtents returns the bounds of the target image, or zeros without one.
func (cr *CairoRenderer) ClipExtents() (x1, y1, x2, y2 float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.screen == nil {
		return 0, 0, 0, 0
	}
	b := cr.screen.Bounds()
	return float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y)
}

// --- Unlocked Internal Methods ---
//
// These methods MUST be called while holding the mutex.

func (cr *CairoRenderer) newPathUnlocked() {
	cr.path = &vector.Path{}
	cr.hasPath = false
}

func (cr *CairoRenderer) lineToUnlocked(x, y float64) {
	if !cr.hasPath {
		cr.path.MoveTo(float32(x), float32(y))
		cr.hasPath = true
		return
	}
	cr.path.LineTo(float32(x), float32(y))
}

func (cr *CairoRenderer) arcUnlocked(xc, yc, radius, angle1, angle2 float64) {
	startX := xc + radius*math.Cos(angle1)
	startY := yc + radius*math.Sin(angle1)
	if !cr.hasPath {
		cr.path.MoveTo(float32(startX), float32(startY))
		cr.hasPath = true
	} else {
		cr.path.LineTo(float32(startX), float32(startY))
	}
	cr.path.Arc(float32(xc), float32(yc), float32(radius), float32(angle1), float32(angle2), vector.Clockwise)
}

func (cr *CairoRenderer) canDraw() bool {
	return cr.screen != nil && cr.hasPath
}

func (cr *CairoRenderer) buildStrokeOptions() *vector.StrokeOptions {
	return &vector.StrokeOptions{
		Width:    cr.lineWidth,
		LineCap:  vector.LineCapButt,
		LineJoin: vector.LineJoinMiter,
	}
}

func (cr *CairoRenderer) setVertexColors(vertices []ebiten.Vertex) {
	r := float32(cr.currentColor.R) / 255
	g := float32(cr.currentColor.G) / 255
	b := float32(cr.currentColor.B) / 255
	a := float32(cr.currentColor.A) / 255
	for i := range vertices {
		// Sample inside whitePixel, whose bounds start at (1, 1).
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
}

func (cr *CairoRenderer) strokeUnlocked() {
	defer cr.newPathUnlocked()
	if !cr.canDraw() {
		return
	}
	vertices, indices := cr.path.AppendVerticesAndIndicesForStroke(nil, nil, cr.buildStrokeOptions())
	cr.setVertexColors(vertices)
	cr.screen.DrawTriangles(vertices, indices, whitePixel, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

func (cr *CairoRenderer) fillUnlocked() {
	defer cr.newPathUnlocked()
	if !cr.canDraw() {
		return
	}
	vertices, indices := cr.path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr.setVertexColors(vertices)
	cr.screen.DrawTriangles(vertices, indices, whitePixel, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	})
}

// whitePixel is the 1x1 source image for flat colored triangles.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// clampToByte converts a float64 value (0.0-1.0) to a byte (0-255).
func clampToByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
