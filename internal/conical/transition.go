package conical

import (
	"github.com/opd-ai/go-activity/internal/paint"
)

// Transition interpolates between two adjacent color stops.
type Transition struct {
	FromLocation float64
	ToLocation   float64
	FromColor    paint.Color
	ToColor      paint.Color
}

// Contains reports whether percent lies in [FromLocation, ToLocation).
func (t Transition) Contains(percent float64) bool {
	return percent >= t.FromLocation && percent < t.ToLocation
}

// ColorAt interpolates the transition at percent, re-normalized from
// [FromLocation, ToLocation] onto [0, 1]. A zero-width transition snaps to
// FromColor.
func (t Transition) ColorAt(percent float64) paint.Color {
	span := t.ToLocation - t.FromLocation
	u := 0.0
	if span != 0 {
		u = (percent - t.FromLocation) / span
	}
	return paint.Lerp(t.FromColor, t.ToColor, u).Sanitize()
}

// BuildTransitions derives the N-1 transitions of N colors. Locations are
// used as given when there is exactly one per color; otherwise the stops are
// spaced evenly over [0, 1]. Fewer than two colors yield no transitions.
func BuildTransitions(colors []paint.Color, locations []float64) []Transition {
	if len(colors) < 2 {
		return nil
	}
	n := len(colors) - 1
	step := 1.0 / float64(n)
	explicit := len(locations) == len(colors)

	out := make([]Transition, 0, n)
	for i := 0; i < n; i++ {
		t := Transition{FromColor: colors[i], ToColor: colors[i+1]}
		if explicit {
			t.FromLocation, t.ToLocation = locations[i], locations[i+1]
		} else {
			t.FromLocation, t.ToLocation = step*float64(i), step*float64(i+1)
		}
		out = append(out, t)
	}
	return out
}

// findTransition returns the first transition containing percent. When none
// does, the first transition answers for percent <= 0.5 and the last for the
// rest. ok is false only when there are no transitions.
func findTransition(ts []Transition, percent float64) (t Transition, ok bool) {
	if len(ts) == 0 {
		return Transition{}, false
	}
	for _, t := range ts {
		if t.Contains(percent) {
			return t, true
		}
	}
	if percent <= 0.5 {
		return ts[0], true
	}
	return ts[len(ts)-1], true
}
