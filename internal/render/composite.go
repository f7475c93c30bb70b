package render

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-activity/internal/layer"
)

// placement is one backing store positioned on the output.
type placement struct {
	layer   *layer.Layer
	surface layer.Surface
	// geom maps surface pixels to output pixels.
	geom ebiten.GeoM
	// clip limits drawing when clipped is set.
	clip    image.Rectangle
	clipped bool
}

// composite displays every visible layer of root at compositor time now and
// returns the placements back to front. Layers rotate about the center of
// their frame. A layer that masks to bounds clips its sublayers to the
// axis-aligned box around its transformed bounds.
func composite(root *layer.Layer, b layer.Backend, now time.Duration) []placement {
	var out []placement
	var visit func(l *layer.Layer, parent ebiten.GeoM, clip image.Rectangle, clipped bool)
	visit = func(l *layer.Layer, parent ebiten.GeoM, clip image.Rectangle, clipped bool) {
		if l.Hidden() {
			return
		}
		p := l.Presentation(now)
		w, h := p.Frame.Width, p.Frame.Height

		var g ebiten.GeoM
		g.Translate(-w/2, -h/2)
		g.Rotate(p.Rotation)
		g.Translate(p.Frame.X+w/2, p.Frame.Y+h/2)
		g.Concat(parent)

		if s := l.Display(b); s != nil {
			out = append(out, placement{layer: l, surface: s, geom: g, clip: clip, clipped: clipped})
		}

		if l.MasksToBounds() {
			box := boundingBox(g, w, h)
			if clipped {
				box = box.Intersect(clip)
			}
			clip, clipped = box, true
		}
		for _, s := range l.Sublayers() {
			visit(s, g, clip, clipped)
		}
	}
	visit(root, ebiten.GeoM{}, image.Rectangle{}, false)
	return out
}

// boundingBox returns the pixel box covering the w×h rectangle at the origin
// after applying g.
func boundingBox(g ebiten.GeoM, w, h float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := g.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	// Rotations by exact quarter turns leave rounding noise in the matrix.
	const slack = 1e-6
	return image.Rect(
		int(math.Floor(minX+slack)), int(math.Floor(minY+slack)),
		int(math.Ceil(maxX-slack)), int(math.Ceil(maxY-slack)),
	)
}
