package anim

import (
	"errors"
	"math"
	"testing"
	"time"
)

func spin() *Keyframe {
	k := NewKeyframe(KeyPathRotationZ)
	k.KeyTimes = []float64{0, 0.2, 1}
	k.Values = []float64{0, 0, 2 * math.Pi}
	k.Duration = time.Second
	return k
}

func TestCubicBezierEndpoints(t *testing.T) {
	for name, fn := range map[string]TimingFunction{
		"linear":        Linear,
		"easeIn":        EaseIn,
		"easeOut":       EaseOut,
		"easeInEaseOut": EaseInEaseOut,
		"default":       Default,
	} {
		t.Run(name, func(t *testing.T) {
			if got := fn(0); got != 0 {
				t.Errorf("f(0) = %v, want 0", got)
			}
			if got := fn(1); got != 1 {
				t.Errorf("f(1) = %v, want 1", got)
			}
			if got := fn(-1); got != 0 {
				t.Errorf("f(-1) = %v, want 0", got)
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := fn(float64(i) / 100)
				if v+1e-9 < prev {
					t.Fatalf("not monotonic at %d: %v < %v", i, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestEaseInEaseOutSymmetric(t *testing.T) {
	if got := EaseInEaseOut(0.5); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("EaseInEaseOut(0.5) = %v, want 0.5", got)
	}
	a := EaseInEaseOut(0.25)
	b := EaseInEaseOut(0.75)
	if math.Abs(a+b-1) > 1e-6 {
		t.Errorf("EaseInEaseOut not symmetric: f(0.25)=%v f(0.75)=%v", a, b)
	}
	if a >= 0.25 {
		t.Errorf("EaseInEaseOut(0.25) = %v, expected slow start", a)
	}
}

func TestKeyframeValueAt(t *testing.T) {
	k := spin()

	tests := []struct {
		name string
		now  time.Duration
		want float64
	}{
		{"start", 0, 0},
		{"inside pause", 100 * time.Millisecond, 0},
		{"pause end", 200 * time.Millisecond, 0},
		{"mid spin", 600 * time.Millisecond, math.Pi},
		{"late spin", 900 * time.Millisecond, 2 * math.Pi * 7 / 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, finished := k.ValueAt(tt.now)
			if finished {
				t.Fatal("single iteration reported finished early")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ValueAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	got, finished := k.ValueAt(time.Second)
	if !finished || got != 2*math.Pi {
		t.Errorf("ValueAt(end) = %v, %v; want 2π, finished", got, finished)
	}
}

func TestKeyframeRepeatForever(t *testing.T) {
	k := spin()
	k.RepeatCount = math.Inf(1)

	a, finished := k.ValueAt(600 * time.Millisecond)
	if finished {
		t.Fatal("infinite animation finished")
	}
	b, finished := k.ValueAt(1000*time.Hour + 600*time.Millisecond)
	if finished {
		t.Fatal("infinite animation finished after many iterations")
	}
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("iterations differ: %v vs %v", a, b)
	}
}

func TestKeyframeBeginTime(t *testing.T) {
	k := spin()
	k.BeginTime = 5 * time.Second

	if got, finished := k.ValueAt(time.Second); got != 0 || finished {
		t.Errorf("before begin = %v, %v; want 0, running", got, finished)
	}
	if got, _ := k.ValueAt(5*time.Second + 600*time.Millisecond); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("after begin = %v, want π", got)
	}
}

func TestKeyframeRepeatCount(t *testing.T) {
	k := spin()
	k.RepeatCount = 2

	if _, finished := k.ValueAt(1500 * time.Millisecond); finished {
		t.Error("finished during second iteration")
	}
	if _, finished := k.ValueAt(2 * time.Second); !finished {
		t.Error("not finished after two iterations")
	}
}

func TestKeyframeTimingApplied(t *testing.T) {
	k := spin()
	k.TimingFunction = EaseInEaseOut

	// Eased progress at the halfway point is exactly 0.5.
	got, _ := k.ValueAt(500 * time.Millisecond)
	want := 2 * math.Pi * (0.5 - 0.2) / 0.8
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("ValueAt(0.5s) = %v, want %v", got, want)
	}
	// The slow start keeps the value inside the pause longer than linear timing.
	if got, _ := k.ValueAt(250 * time.Millisecond); got != 0 {
		t.Errorf("ValueAt(0.25s) = %v, want 0 during eased pause", got)
	}
}

func TestKeyframeZeroWidthSegment(t *testing.T) {
	k := NewKeyframe("opacity")
	k.KeyTimes = []float64{0, 0.5, 0.5, 1}
	k.Values = []float64{0, 1, 3, 4}
	k.Duration = time.Second

	got, _ := k.ValueAt(500 * time.Millisecond)
	if got != 1 {
		t.Errorf("ValueAt(boundary) = %v, want 1", got)
	}
	got, _ = k.ValueAt(750 * time.Millisecond)
	if math.Abs(got-3.5) > 1e-9 {
		t.Errorf("ValueAt(0.75s) = %v, want 3.5", got)
	}
}

func TestKeyframeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(k *Keyframe)
		wantErr bool
	}{
		{"valid", func(k *Keyframe) {}, false},
		{"no values", func(k *Keyframe) { k.Values = nil; k.KeyTimes = nil }, true},
		{"length mismatch", func(k *Keyframe) { k.KeyTimes = []float64{0, 1} }, true},
		{"key time out of range", func(k *Keyframe) { k.KeyTimes = []float64{0, 0.2, 1.5} }, true},
		{"descending key times", func(k *Keyframe) { k.KeyTimes = []float64{0, 0.8, 0.2} }, true},
		{"zero duration", func(k *Keyframe) { k.Duration = 0 }, true},
		{"negative repeat", func(k *Keyframe) { k.RepeatCount = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := spin()
			tt.mutate(k)
			err := k.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKeyframe) {
					t.Errorf("Validate() = %v, want ErrInvalidKeyframe", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestKeyframeCopy(t *testing.T) {
	k := spin()
	c := k.Copy()
	c.Values[2] = 42
	if k.Values[2] == 42 {
		t.Error("Copy shares the values slice")
	}
}
