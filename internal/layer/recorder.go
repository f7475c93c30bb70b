package layer

import "github.com/opd-ai/go-activity/internal/paint"

// OpKind identifies a recorded drawing call.
type OpKind int

// Recorded drawing calls.
const (
	OpLine OpKind = iota
	OpCircle
	OpFillCircle
	OpMask
)

// Op is one recorded drawing call with the state it was issued in.
type Op struct {
	Kind      OpKind
	X1, Y1    float64
	X2, Y2    float64
	Radius    float64
	Color     paint.Color
	LineWidth float64
}

// Recorder is a Surface that records drawing calls instead of rasterizing
// them. It is used to inspect exactly what a Drawable emits.
type Recorder struct {
	clip      Rect
	color     paint.Color
	lineWidth float64
	ops       []Op
	clears    int
	disposed  bool
}

// NewRecorder returns a recorder whose clip extents are r.
func NewRecorder(r Rect) *Recorder {
	return &Recorder{clip: r, color: paint.Black, lineWidth: 1}
}

// Ops returns the recorded calls in order.
func (r *Recorder) Ops() []Op { return r.ops }

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int { return r.clears }

// Reset forgets every recorded call.
func (r *Recorder) Reset() { r.ops = nil }

// ClipExtents implements Context.
func (r *Recorder) ClipExtents() (x1, y1, x2, y2 float64) {
	return r.clip.X, r.clip.Y, r.clip.MaxX(), r.clip.MaxY()
}

// SetSourceRGBA implements Context.
func (r *Recorder) SetSourceRGBA(red, green, blue, alpha float64) {
	r.color = paint.Color{R: red, G: green, B: blue, A: alpha}
}

// SetLineWidth implements Context.
func (r *Recorder) SetLineWidth(width float64) { r.lineWidth = width }

// DrawLine implements Context.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: r.color, LineWidth: r.lineWidth})
}

// DrawCircle implements Context.
func (r *Recorder) DrawCircle(xc, yc, radius float64) {
	r.ops = append(r.ops, Op{Kind: OpCircle, X1: xc, Y1: yc, Radius: radius, Color: r.color, LineWidth: r.lineWidth})
}

// FillCircle implements Context.
func (r *Recorder) FillCircle(xc, yc, radius float64) {
	r.ops = append(r.ops, Op{Kind: OpFillCircle, X1: xc, Y1: yc, Radius: radius, Color: r.color})
}

// Size implements Surface.
func (r *Recorder) Size() (width, height int) {
	return pixelSize(r.clip.Size())
}

// Clear implements Surface.
func (r *Recorder) Clear() {
	r.ops = nil
	r.clears++
}

// Dispose implements Disposer.
func (r *Recorder) Dispose() { r.disposed = true }

// Disposed reports whether the owning layer released the recorder.
func (r *Recorder) Disposed() bool { return r.disposed }

// ApplyMask implements Surface by recording the call.
func (r *Recorder) ApplyMask(mask Surface) {
	r.ops = append(r.ops, Op{Kind: OpMask})
}

// RecordingBackend hands out Recorders and keeps every surface it created.
type RecordingBackend struct {
	Surfaces []*Recorder
}

// NewSurface implements Backend.
func (b *RecordingBackend) NewSurface(width, height int) Surface {
	rec := NewRecorder(Rect{Width: float64(width), Height: float64(height)})
	b.Surfaces = append(b.Surfaces, rec)
	return rec
}
