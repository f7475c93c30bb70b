package render

import (
	"image"
	"math"
	"testing"

	"github.com/opd-ai/go-activity/internal/layer"
)

var noop = layer.DrawableFunc(func(layer.Context) {})

func newContentLayer(frame layer.Rect) *layer.Layer {
	l := layer.New()
	l.SetFrame(frame)
	l.SetContent(noop)
	return l
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompositeTransforms(t *testing.T) {
	root := newContentLayer(layer.Rect{X: 10, Y: 20, Width: 100, Height: 100})
	child := newContentLayer(layer.Rect{X: 10, Y: 10, Width: 40, Height: 40})
	child.SetRotation(math.Pi / 2)
	root.AddSublayer(child)

	ps := composite(root, &layer.RecordingBackend{}, 0)
	if len(ps) != 2 || ps[0].layer != root || ps[1].layer != child {
		t.Fatalf("placements = %+v", ps)
	}

	if x, y := ps[0].geom.Apply(0, 0); !near(x, 10) || !near(y, 20) {
		t.Errorf("root origin maps to (%v,%v), want (10,20)", x, y)
	}

	g := ps[1].geom
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"center stays put", 20, 20, 40, 50},
		{"top-left rotates to top-right", 0, 0, 60, 30},
		{"top-right rotates to bottom-right", 40, 0, 60, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if x, y := g.Apply(tt.x, tt.y); !near(x, tt.wantX) || !near(y, tt.wantY) {
				t.Errorf("(%v,%v) maps to (%v,%v), want (%v,%v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCompositeClipsToMaskingParent(t *testing.T) {
	root := layer.New()
	root.SetFrame(layer.Rect{X: 5, Y: 5, Width: 50, Height: 30})
	root.SetMasksToBounds(true)

	square := newContentLayer(layer.Rect{Width: 20, Height: 20})
	square.SetRotation(math.Pi / 4)
	square.SetMasksToBounds(true)
	root.AddSublayer(square)

	inner := newContentLayer(layer.Rect{X: -10, Y: -10, Width: 60, Height: 60})
	square.AddSublayer(inner)

	ps := composite(root, &layer.RecordingBackend{}, 0)
	if len(ps) != 2 {
		t.Fatalf("got %d placements, want 2 (root has no content)", len(ps))
	}

	if !ps[0].clipped || ps[0].clip != image.Rect(5, 5, 55, 35) {
		t.Errorf("square clip = %v (clipped=%v)", ps[0].clip, ps[0].clipped)
	}

	// The rotated square's box spans 15±10√2 in window space on both axes,
	// so the root cuts it on the top and left.
	want := image.Rect(5, 5, int(math.Ceil(15+10*math.Sqrt2)), int(math.Ceil(15+10*math.Sqrt2)))
	if !ps[1].clipped || ps[1].clip != want {
		t.Errorf("inner clip = %v, want %v", ps[1].clip, want)
	}
}

func TestCompositeSkipsHiddenAndEmpty(t *testing.T) {
	root := layer.New()
	root.SetFrame(layer.Rect{Width: 10, Height: 10})
	hidden := newContentLayer(layer.Rect{Width: 10, Height: 10})
	hidden.SetHidden(true)
	empty := newContentLayer(layer.Rect{})
	root.AddSublayer(hidden)
	root.AddSublayer(empty)

	if ps := composite(root, &layer.RecordingBackend{}, 0); len(ps) != 0 {
		t.Errorf("placements = %+v, want none", ps)
	}
}

func TestBoundingBoxQuarterTurn(t *testing.T) {
	root := newContentLayer(layer.Rect{Width: 30, Height: 10})
	root.SetRotation(math.Pi / 2)
	ps := composite(root, &layer.RecordingBackend{}, 0)
	if len(ps) != 1 {
		t.Fatalf("placements = %+v", ps)
	}
	if got, want := boundingBox(ps[0].geom, 30, 10), image.Rect(10, -10, 20, 20); got != want {
		t.Errorf("boundingBox = %v, want %v", got, want)
	}
}
