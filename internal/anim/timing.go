package anim

import "math"

// TimingFunction maps linear progress t in [0,1] onto eased progress.
type TimingFunction func(t float64) float64

// Standard timing functions. Control points match the host toolkit's named
// media timing functions.
var (
	Linear        TimingFunction = func(t float64) float64 { return clampUnit(t) }
	EaseIn                       = CubicBezier(0.42, 0, 1, 1)
	EaseOut                      = CubicBezier(0, 0, 0.58, 1)
	EaseInEaseOut                = CubicBezier(0.42, 0, 0.58, 1)
	Default                      = CubicBezier(0.25, 0.1, 0.25, 1)
)

// CubicBezier returns a timing function for the curve from (0,0) to (1,1)
// with control points (x1,y1) and (x2,y2).
func CubicBezier(x1, y1, x2, y2 float64) TimingFunction {
	return func(t float64) float64 {
		if t <= 0 || math.IsNaN(t) {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// Newton-Raphson on x(u) = t, falling back to bisection when the
		// derivative flattens out.
		u := t
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 20 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
