package indicator

import (
	"math"

	"github.com/opd-ai/go-activity/internal/layer"
	"github.com/opd-ai/go-activity/internal/paint"
)

// Indicator is an activity view: a root layer that hosts the animated layers
// of its Type while it is animating and is hidden otherwise.
type Indicator struct {
	root      *layer.Layer
	typ       Type
	color     paint.Color
	padding   float64
	animating bool
	logger    Logger
}

// New creates a stopped indicator occupying frame.
func New(frame layer.Rect, opts ...Option) *Indicator {
	v := &Indicator{
		root:    layer.New(),
		typ:     DefaultType,
		color:   DefaultColor,
		padding: DefaultPadding,
		logger:  NopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.root.SetName("indicator")
	v.root.SetFrame(frame)
	v.root.SetHidden(true)
	return v
}

// Layer returns the root layer to hand to a compositor.
func (v *Indicator) Layer() *layer.Layer { return v.root }

// Type returns the animation type.
func (v *Indicator) Type() Type { return v.typ }

// Color returns the indicator color.
func (v *Indicator) Color() paint.Color { return v.color }

// Padding returns the space between the frame and the animation area.
func (v *Indicator) Padding() float64 { return v.padding }

// Frame returns the indicator frame.
func (v *Indicator) Frame() layer.Rect { return v.root.Frame() }

// IsAnimating reports whether the animation is running.
func (v *Indicator) IsAnimating() bool { return v.animating }

// SetType changes the animation type. A running animation is rebuilt.
func (v *Indicator) SetType(t Type) {
	v.typ = t
	v.rebuild()
}

// SetColor changes the indicator color. A running animation is rebuilt.
func (v *Indicator) SetColor(c paint.Color) {
	v.color = c
	v.rebuild()
}

// SetPadding changes the padding. A running animation is rebuilt.
func (v *Indicator) SetPadding(p float64) {
	v.padding = sanitizePadding(p)
	v.rebuild()
}

// SetFrame moves or resizes the indicator. A running animation is rebuilt.
func (v *Indicator) SetFrame(frame layer.Rect) {
	v.root.SetFrame(frame)
	v.rebuild()
}

// AnimationRect returns the square area the preset draws into: the frame
// inset by the padding, shrunk to its shorter edge.
func (v *Indicator) AnimationRect() layer.Rect {
	r := v.root.Frame().Inset(v.padding)
	edge := math.Min(r.Width, r.Height)
	r.Width, r.Height = edge, edge
	return r
}

// StartAnimating shows the indicator and installs its animation. Calling it
// while animating does nothing.
func (v *Indicator) StartAnimating() {
	if v.animating {
		return
	}
	v.animating = true
	v.root.SetHidden(false)
	v.setUpAnimation()
	v.logger.Debug("indicator started", "type", v.typ, "rect", v.AnimationRect())
}

// StopAnimating hides the indicator and removes its animated layers.
func (v *Indicator) StopAnimating() {
	if !v.animating {
		return
	}
	v.animating = false
	v.root.SetHidden(true)
	v.root.RemoveAllSublayers()
	v.logger.Debug("indicator stopped", "type", v.typ)
}

func (v *Indicator) rebuild() {
	if v.animating {
		v.setUpAnimation()
		v.logger.Debug("indicator rebuilt", "type", v.typ)
	}
}

func (v *Indicator) setUpAnimation() {
	v.root.RemoveAllSublayers()
	rect := v.AnimationRect()
	PresetFor(v.typ).SetUpAnimation(v.root, rect.Size(), v.color)
}

func sanitizePadding(p float64) float64 {
	if !(p > 0) || math.IsInf(p, 0) {
		return 0
	}
	return p
}
