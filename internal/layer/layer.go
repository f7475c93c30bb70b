// Package layer implements a retained layer tree: each layer owns a frame,
// an optional Drawable rendered into a cached backing store, an optional mask
// and a set of keyed animations evaluated by the compositor.
//
// A layer tree is not safe for concurrent use. Mutations and display passes
// must happen on the same goroutine, normally the render loop.
package layer

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-activity/internal/anim"
)

// Layer is a node in the layer tree.
type Layer struct {
	name          string
	frame         Rect
	rotation      float64
	hidden        bool
	masksToBounds bool

	content Drawable
	mask    *Layer

	superlayer *Layer
	sublayers  []*Layer

	animations    map[string]*attachedAnimation
	animationKeys []string

	needsDisplay bool
	surface      Surface
	surfaceOwner Backend
}

type attachedAnimation struct {
	keyframe *anim.Keyframe
	stamped  bool
}

// Presentation is the animated state of a layer at a point in time.
type Presentation struct {
	Frame    Rect
	Rotation float64
}

// New returns an empty layer.
func New() *Layer {
	return &Layer{
		animations:   make(map[string]*attachedAnimation),
		needsDisplay: true,
	}
}

// SetName sets a debugging name.
func (l *Layer) SetName(name string) { l.name = name }

// Name returns the debugging name.
func (l *Layer) Name() string { return l.name }

// String implements fmt.Stringer.
func (l *Layer) String() string {
	return fmt.Sprintf("layer(%q %.0fx%.0f@%.0f,%.0f)", l.name, l.frame.Width, l.frame.Height, l.frame.X, l.frame.Y)
}

// Frame returns the layer's rectangle in its superlayer's coordinates.
func (l *Layer) Frame() Rect { return l.frame }

// SetFrame moves and resizes the layer. A size change invalidates the content.
func (l *Layer) SetFrame(r Rect) {
	if r.Size() != l.frame.Size() {
		l.needsDisplay = true
	}
	l.frame = r
	if l.mask != nil {
		l.mask.SetFrame(l.Bounds())
	}
}

// Bounds returns the layer's rectangle in its own coordinates.
func (l *Layer) Bounds() Rect {
	return Rect{Width: l.frame.Width, Height: l.frame.Height}
}

// Rotation returns the model rotation about the layer center, in radians.
func (l *Layer) Rotation() float64 { return l.rotation }

// SetRotation sets the model rotation. Running rotation animations override it.
func (l *Layer) SetRotation(radians float64) { l.rotation = radians }

// Hidden reports whether the layer and its sublayers are skipped.
func (l *Layer) Hidden() bool { return l.hidden }

// SetHidden shows or hides the layer.
func (l *Layer) SetHidden(hidden bool) { l.hidden = hidden }

// MasksToBounds reports whether content and sublayers are clipped to bounds.
func (l *Layer) MasksToBounds() bool { return l.masksToBounds }

// SetMasksToBounds enables or disables clipping to bounds.
func (l *Layer) SetMasksToBounds(masks bool) { l.masksToBounds = masks }

// Content returns the layer's Drawable, if any.
func (l *Layer) Content() Drawable { return l.content }

// SetContent installs the Drawable used to paint the layer.
func (l *Layer) SetContent(d Drawable) {
	l.content = d
	l.needsDisplay = true
}

// Mask returns the mask layer, if any.
func (l *Layer) Mask() *Layer { return l.mask }

// SetMask installs a layer whose alpha masks this layer's content. The mask
// always covers the layer's bounds.
func (l *Layer) SetMask(m *Layer) {
	l.mask = m
	if m != nil {
		m.RemoveFromSuperlayer()
		m.SetFrame(l.Bounds())
	}
	l.needsDisplay = true
}

// AddSublayer appends child, detaching it from any previous parent.
func (l *Layer) AddSublayer(child *Layer) {
	if child == nil || child == l {
		return
	}
	child.RemoveFromSuperlayer()
	child.superlayer = l
	l.sublayers = append(l.sublayers, child)
}

// Sublayers returns a copy of the child list, back to front.
func (l *Layer) Sublayers() []*Layer {
	out := make([]*Layer, len(l.sublayers))
	copy(out, l.sublayers)
	return out
}

// Superlayer returns the parent layer, or nil for a root.
func (l *Layer) Superlayer() *Layer { return l.superlayer }

// RemoveFromSuperlayer detaches the layer from its parent.
func (l *Layer) RemoveFromSuperlayer() {
	p := l.superlayer
	if p == nil {
		return
	}
	for i, s := range p.sublayers {
		if s == l {
			p.sublayers = append(p.sublayers[:i], p.sublayers[i+1:]...)
			break
		}
	}
	l.superlayer = nil
}

// RemoveAllSublayers detaches every child.
func (l *Layer) RemoveAllSublayers() {
	for _, s := range l.sublayers {
		s.superlayer = nil
	}
	l.sublayers = nil
}

// Add attaches a copy of the animation under key, replacing any animation
// already stored there.
func (l *Layer) Add(a *anim.Keyframe, key string) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("add animation %q: %w", key, err)
	}
	if _, exists := l.animations[key]; !exists {
		l.animationKeys = append(l.animationKeys, key)
	}
	l.animations[key] = &attachedAnimation{
		keyframe: a.Copy(),
		stamped:  a.BeginTime != 0,
	}
	return nil
}

// Animation returns the animation stored under key, or nil.
func (l *Layer) Animation(key string) *anim.Keyframe {
	if a, ok := l.animations[key]; ok {
		return a.keyframe
	}
	return nil
}

// AnimationKeys returns the keys of attached animations in insertion order.
func (l *Layer) AnimationKeys() []string {
	return append([]string(nil), l.animationKeys...)
}

// RemoveAnimation detaches the animation stored under key.
func (l *Layer) RemoveAnimation(key string) {
	if _, ok := l.animations[key]; !ok {
		return
	}
	delete(l.animations, key)
	for i, k := range l.animationKeys {
		if k == key {
			l.animationKeys = append(l.animationKeys[:i], l.animationKeys[i+1:]...)
			break
		}
	}
}

// RemoveAllAnimations detaches every animation.
func (l *Layer) RemoveAllAnimations() {
	l.animations = make(map[string]*attachedAnimation)
	l.animationKeys = nil
}

// Presentation evaluates the attached animations at compositor time now.
// Animations with a zero BeginTime start at the first call that sees them;
// finished animations marked RemovedOnCompletion are detached.
func (l *Layer) Presentation(now time.Duration) Presentation {
	p := Presentation{Frame: l.frame, Rotation: l.rotation}

	for _, key := range l.AnimationKeys() {
		a := l.animations[key]
		if !a.stamped {
			a.keyframe.BeginTime = now
			a.stamped = true
		}
		value, finished := a.keyframe.ValueAt(now)
		if finished && a.keyframe.RemovedOnCompletion {
			l.RemoveAnimation(key)
			continue
		}
		if a.keyframe.KeyPath == anim.KeyPathRotationZ {
			p.Rotation = value
		}
	}
	return p
}

// Animating reports whether any animation is attached to the layer or its
// sublayers.
func (l *Layer) Animating() bool {
	if len(l.animations) > 0 {
		return true
	}
	for _, s := range l.sublayers {
		if s.Animating() {
			return true
		}
	}
	return false
}

// SetNeedsDisplay invalidates the cached content. The next Display call
// redraws it with the current configuration.
func (l *Layer) SetNeedsDisplay() { l.needsDisplay = true }

// NeedsDisplay reports whether the content will be redrawn on the next
// Display call.
func (l *Layer) NeedsDisplay() bool {
	if l.needsDisplay {
		return true
	}
	return l.mask != nil && l.mask.NeedsDisplay()
}

// Display returns the layer's backing store, redrawing it first when the
// layer was invalidated, resized or displayed by a different backend.
// Layers without content, or with an empty frame, have no surface.
func (l *Layer) Display(b Backend) Surface {
	if l.content == nil {
		l.needsDisplay = false
		return nil
	}
	w, h := pixelSize(l.frame.Size())
	if w == 0 || h == 0 {
		l.releaseSurface()
		return nil
	}

	stale := l.surface == nil || l.surfaceOwner != b
	if !stale {
		sw, sh := l.surface.Size()
		stale = sw != w || sh != h
	}
	if !stale && !l.NeedsDisplay() {
		return l.surface
	}

	if stale {
		l.releaseSurface()
		l.surface = b.NewSurface(w, h)
		l.surfaceOwner = b
	} else {
		l.surface.Clear()
	}
	l.needsDisplay = false
	l.content.Draw(l.surface)

	if l.mask != nil {
		if m := l.mask.Display(b); m != nil {
			l.surface.ApplyMask(m)
		}
	}
	return l.surface
}

func (l *Layer) releaseSurface() {
	if d, ok := l.surface.(Disposer); ok {
		d.Dispose()
	}
	l.surface = nil
	l.surfaceOwner = nil
}

// Walk visits the layer and its visible descendants depth first, back to
// front. Returning false from fn skips the layer's sublayers.
func (l *Layer) Walk(fn func(l *Layer) bool) {
	if l.hidden {
		return
	}
	if !fn(l) {
		return
	}
	for _, s := range l.sublayers {
		s.Walk(fn)
	}
}
