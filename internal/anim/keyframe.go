// Package anim implements time-parameterised keyframe animations that the
// layer tree evaluates at composite time.
package anim

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// KeyPathRotationZ animates a layer's rotation about its anchor point, in radians.
const KeyPathRotationZ = "transform.rotation.z"

// ErrInvalidKeyframe is wrapped by every Validate failure.
var ErrInvalidKeyframe = errors.New("invalid keyframe animation")

// Keyframe is a keyframe animation over a single scalar property.
type Keyframe struct {
	// KeyPath names the animated property, e.g. KeyPathRotationZ.
	KeyPath string
	// KeyTimes are ascending fractions of Duration in [0,1], one per value.
	KeyTimes []float64
	// Values are the property values at each key time.
	Values []float64
	// TimingFunction eases the progress of each iteration. Nil means Linear.
	TimingFunction TimingFunction
	// Duration of a single iteration.
	Duration time.Duration
	// RepeatCount is the number of iterations. Zero plays once;
	// math.Inf(1) repeats forever.
	RepeatCount float64
	// RemovedOnCompletion removes the animation from its layer once it has
	// finished. Infinitely repeating animations never finish.
	RemovedOnCompletion bool
	// BeginTime is the compositor time the animation starts at. The layer
	// stamps it when the animation is first presented if it is zero.
	BeginTime time.Duration
}

// NewKeyframe returns a keyframe animation with the toolkit defaults:
// linear timing, a single iteration, removed on completion.
func NewKeyframe(keyPath string) *Keyframe {
	return &Keyframe{
		KeyPath:             keyPath,
		TimingFunction:      Linear,
		RemovedOnCompletion: true,
	}
}

// Validate checks that the animation can be evaluated.
func (k *Keyframe) Validate() error {
	if len(k.Values) == 0 {
		return fmt.Errorf("%w: no values", ErrInvalidKeyframe)
	}
	if len(k.KeyTimes) != len(k.Values) {
		return fmt.Errorf("%w: %d key times for %d values", ErrInvalidKeyframe, len(k.KeyTimes), len(k.Values))
	}
	for i, kt := range k.KeyTimes {
		if kt < 0 || kt > 1 || math.IsNaN(kt) {
			return fmt.Errorf("%w: key time %d out of range: %v", ErrInvalidKeyframe, i, kt)
		}
		if i > 0 && kt < k.KeyTimes[i-1] {
			return fmt.Errorf("%w: key times not ascending at %d", ErrInvalidKeyframe, i)
		}
	}
	if k.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidKeyframe, k.Duration)
	}
	if k.RepeatCount < 0 || math.IsNaN(k.RepeatCount) {
		return fmt.Errorf("%w: negative repeat count", ErrInvalidKeyframe)
	}
	return nil
}

// Copy returns a deep copy, so a layer owns the animation it was given.
func (k *Keyframe) Copy() *Keyframe {
	c := *k
	c.KeyTimes = append([]float64(nil), k.KeyTimes...)
	c.Values = append([]float64(nil), k.Values...)
	return &c
}

// Repeats reports whether the animation never finishes.
func (k *Keyframe) Repeats() bool {
	return math.IsInf(k.RepeatCount, 1)
}

// ValueAt evaluates the animation at compositor time now. finished reports
// that every iteration has played; the last value is held afterwards.
func (k *Keyframe) ValueAt(now time.Duration) (value float64, finished bool) {
	if len(k.Values) == 0 {
		return 0, true
	}
	last := k.Values[len(k.Values)-1]
	if k.Duration <= 0 {
		return last, true
	}

	local := now - k.BeginTime
	if local < 0 {
		return k.Values[0], false
	}

	iterations := k.RepeatCount
	if iterations == 0 {
		iterations = 1
	}
	if !k.Repeats() && float64(local) >= iterations*float64(k.Duration) {
		return last, true
	}

	progress := float64(local%k.Duration) / float64(k.Duration)
	timing := k.TimingFunction
	if timing == nil {
		timing = Linear
	}
	return k.interpolate(timing(progress)), false
}

// interpolate finds the key time segment holding t and interpolates linearly
// inside it. Zero-width segments resolve to their end value.
func (k *Keyframe) interpolate(t float64) float64 {
	n := len(k.Values)
	if n == 1 || len(k.KeyTimes) != n {
		return k.Values[n-1]
	}
	if t <= k.KeyTimes[0] {
		return k.Values[0]
	}
	for i := 0; i < n-1; i++ {
		from, to := k.KeyTimes[i], k.KeyTimes[i+1]
		if t > to {
			continue
		}
		span := to - from
		if span <= 0 {
			return k.Values[i+1]
		}
		u := (t - from) / span
		return k.Values[i] + u*(k.Values[i+1]-k.Values[i])
	}
	return k.Values[n-1]
}
