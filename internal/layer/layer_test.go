package layer

import (
	"math"
	"testing"
	"time"

	"github.com/opd-ai/go-activity/internal/anim"
	"github.com/opd-ai/go-activity/internal/paint"
)

func spin(repeat float64, removed bool) *anim.Keyframe {
	k := anim.NewKeyframe(anim.KeyPathRotationZ)
	k.KeyTimes = []float64{0, 1}
	k.Values = []float64{0, 2 * math.Pi}
	k.Duration = time.Second
	k.RepeatCount = repeat
	k.RemovedOnCompletion = removed
	return k
}

type countingDrawable struct {
	draws int
}

func (c *countingDrawable) Draw(ctx Context) {
	c.draws++
	ctx.DrawLine(0, 0, 1, 1)
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if r.MidX() != 60 || r.MidY() != 45 || r.MaxX() != 110 || r.MaxY() != 70 {
		t.Errorf("unexpected helpers for %+v", r)
	}

	in := r.Inset(10)
	if in != (Rect{X: 20, Y: 30, Width: 80, Height: 30}) {
		t.Errorf("Inset = %+v", in)
	}
	if got := r.Inset(40); got.Height != 0 || got.Width != 20 {
		t.Errorf("Inset past height = %+v", got)
	}

	c := Rect{Width: 100, Height: 60}.Centered(Size{Width: 40, Height: 40})
	if c != (Rect{X: 30, Y: 10, Width: 40, Height: 40}) {
		t.Errorf("Centered = %+v", c)
	}

	if got := RectFromExtents(10, 20, 0, 0); got != (Rect{Width: 10, Height: 20}) {
		t.Errorf("RectFromExtents = %+v", got)
	}
}

func TestSublayers(t *testing.T) {
	root := New()
	a, b := New(), New()
	root.AddSublayer(a)
	root.AddSublayer(b)

	if got := root.Sublayers(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Sublayers = %v", got)
	}
	if a.Superlayer() != root {
		t.Error("superlayer not set")
	}

	other := New()
	other.AddSublayer(a)
	if len(root.Sublayers()) != 1 || a.Superlayer() != other {
		t.Error("re-parenting did not detach from previous parent")
	}

	root.AddSublayer(root)
	if len(root.Sublayers()) != 1 {
		t.Error("layer added to itself")
	}

	root.RemoveAllSublayers()
	if len(root.Sublayers()) != 0 || b.Superlayer() != nil {
		t.Error("RemoveAllSublayers left children attached")
	}
}

func TestDisplayCachesUntilInvalidated(t *testing.T) {
	backend := &RecordingBackend{}
	d := &countingDrawable{}
	l := New()
	l.SetFrame(Rect{Width: 10, Height: 10})
	l.SetContent(d)

	first := l.Display(backend)
	if first == nil || d.draws != 1 {
		t.Fatalf("first display: surface=%v draws=%d", first, d.draws)
	}
	if l.NeedsDisplay() {
		t.Error("still needs display after Display")
	}

	if again := l.Display(backend); again != first || d.draws != 1 {
		t.Errorf("clean layer redrew: draws=%d", d.draws)
	}

	l.SetNeedsDisplay()
	if again := l.Display(backend); again != first || d.draws != 2 {
		t.Errorf("invalidated layer: same surface=%v draws=%d", again == first, d.draws)
	}
	if rec := first.(*Recorder); rec.Clears() != 1 {
		t.Errorf("surface cleared %d times, want 1", rec.Clears())
	}

	l.SetFrame(Rect{Width: 20, Height: 10})
	if resized := l.Display(backend); resized == first || d.draws != 3 {
		t.Errorf("resize did not reallocate: draws=%d", d.draws)
	}
	if len(backend.Surfaces) != 2 {
		t.Errorf("allocated %d surfaces, want 2", len(backend.Surfaces))
	}
	if !backend.Surfaces[0].Disposed() || backend.Surfaces[1].Disposed() {
		t.Error("replaced surface not disposed")
	}

	other := &RecordingBackend{}
	l.Display(other)
	if len(other.Surfaces) != 1 || d.draws != 4 {
		t.Error("switching backend did not reallocate")
	}
}

func TestDisplayWithoutContentOrSize(t *testing.T) {
	backend := &RecordingBackend{}
	l := New()
	l.SetFrame(Rect{Width: 10, Height: 10})
	if s := l.Display(backend); s != nil {
		t.Error("layer without content produced a surface")
	}

	l.SetContent(&countingDrawable{})
	l.SetFrame(Rect{Width: 0, Height: 10})
	if s := l.Display(backend); s != nil {
		t.Error("empty layer produced a surface")
	}
}

func TestDisplayAppliesMask(t *testing.T) {
	backend := &RecordingBackend{}
	l := New()
	l.SetFrame(Rect{Width: 10, Height: 10})
	l.SetContent(&countingDrawable{})
	mask := NewRing(paint.Black, 2)
	l.SetMask(mask.Layer)

	if mask.Frame() != l.Bounds() {
		t.Errorf("mask frame = %+v, want %+v", mask.Frame(), l.Bounds())
	}

	s := l.Display(backend).(*Recorder)
	ops := s.Ops()
	if len(ops) != 2 || ops[1].Kind != OpMask {
		t.Fatalf("ops = %+v, want line then mask", ops)
	}

	mask.SetColor(paint.White)
	if !l.NeedsDisplay() {
		t.Error("dirty mask did not invalidate its host")
	}
}

func TestPresentationRotation(t *testing.T) {
	l := New()
	l.SetRotation(0.5)
	if p := l.Presentation(0); p.Rotation != 0.5 {
		t.Errorf("model rotation = %v", p.Rotation)
	}

	if err := l.Add(spin(math.Inf(1), false), "spin"); err != nil {
		t.Fatal(err)
	}

	// First presentation stamps the begin time.
	start := 3 * time.Second
	if p := l.Presentation(start); p.Rotation != 0 {
		t.Errorf("rotation at stamp time = %v, want 0", p.Rotation)
	}
	p := l.Presentation(start + 250*time.Millisecond)
	if math.Abs(p.Rotation-math.Pi/2) > 1e-9 {
		t.Errorf("rotation = %v, want π/2", p.Rotation)
	}
	if !l.Animating() {
		t.Error("infinite animation not reported as animating")
	}
}

func TestPresentationRemovesFinished(t *testing.T) {
	l := New()
	if err := l.Add(spin(0, true), "once"); err != nil {
		t.Fatal(err)
	}
	l.Presentation(0)
	l.Presentation(2 * time.Second)
	if l.Animation("once") != nil {
		t.Error("finished animation not removed")
	}

	if err := l.Add(spin(0, false), "hold"); err != nil {
		t.Fatal(err)
	}
	l.Presentation(10 * time.Second)
	p := l.Presentation(20 * time.Second)
	if l.Animation("hold") == nil || p.Rotation != 2*math.Pi {
		t.Errorf("held animation: present=%v rotation=%v", l.Animation("hold") != nil, p.Rotation)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	l := New()
	k := spin(0, true)
	k.Duration = 0
	if err := l.Add(k, "bad"); err == nil {
		t.Error("invalid animation accepted")
	}
	if len(l.AnimationKeys()) != 0 {
		t.Error("invalid animation stored")
	}
}

func TestAddCopiesAndReplaces(t *testing.T) {
	l := New()
	k := spin(0, true)
	if err := l.Add(k, "a"); err != nil {
		t.Fatal(err)
	}
	k.Values[1] = 99
	if l.Animation("a").Values[1] == 99 {
		t.Error("layer shares caller's animation")
	}

	if err := l.Add(spin(2, true), "a"); err != nil {
		t.Fatal(err)
	}
	if keys := l.AnimationKeys(); len(keys) != 1 || l.Animation("a").RepeatCount != 2 {
		t.Errorf("replace failed: keys=%v", keys)
	}

	l.RemoveAnimation("a")
	if l.Animation("a") != nil || len(l.AnimationKeys()) != 0 {
		t.Error("RemoveAnimation failed")
	}
}

func TestWalkSkipsHidden(t *testing.T) {
	root := New()
	visible, hidden, child := New(), New(), New()
	hidden.SetHidden(true)
	hidden.AddSublayer(child)
	root.AddSublayer(visible)
	root.AddSublayer(hidden)

	var seen []*Layer
	root.Walk(func(l *Layer) bool {
		seen = append(seen, l)
		return true
	})
	if len(seen) != 2 || seen[0] != root || seen[1] != visible {
		t.Errorf("Walk visited %v", seen)
	}
}

func TestShapeLayerDraw(t *testing.T) {
	tests := []struct {
		name   string
		shape  *ShapeLayer
		kind   OpKind
		radius float64
	}{
		{"circle", NewShape(ShapeCircle, paint.White), OpFillCircle, 20},
		{"ring", NewRing(paint.White, 4), OpCircle, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder(Rect{Width: 40, Height: 60})
			tt.shape.Draw(rec)
			ops := rec.Ops()
			if len(ops) != 1 {
				t.Fatalf("ops = %+v", ops)
			}
			op := ops[0]
			if op.Kind != tt.kind || op.X1 != 20 || op.Y1 != 30 || op.Radius != tt.radius {
				t.Errorf("op = %+v", op)
			}
			if op.Color != paint.White {
				t.Errorf("color = %+v", op.Color)
			}
		})
	}
}

func TestShapeLayerIgnoresInvalidLineWidth(t *testing.T) {
	s := NewRing(paint.White, 3)
	s.SetLineWidth(-1)
	s.SetLineWidth(math.NaN())
	if s.LineWidth() != 3 {
		t.Errorf("LineWidth = %v, want 3", s.LineWidth())
	}
}
