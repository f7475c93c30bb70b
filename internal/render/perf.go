package render

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameMetrics tracks frame timing and compositing work. All methods are
// safe for concurrent use.
type FrameMetrics struct {
	frames       atomic.Int64
	periodFrames atomic.Int64
	layers       atomic.Int64
	lastFPS      atomic.Int64 // FPS * 1000
	lastFrame    atomic.Int64 // nanoseconds
	minFrame     atomic.Int64
	maxFrame     atomic.Int64
	totalTime    atomic.Int64
	period       time.Duration

	mu          sync.Mutex
	periodStart time.Time
	now         func() time.Time
}

// FrameStats is a point-in-time copy of FrameMetrics.
type FrameStats struct {
	Frames    int64
	Layers    int64
	FPS       float64
	Last      time.Duration
	Min       time.Duration
	Max       time.Duration
	Average   time.Duration
	Composite float64 // mean placements per frame
}

// NewFrameMetrics creates a FrameMetrics that recomputes FPS every period.
// A non-positive period means one second.
func NewFrameMetrics(period time.Duration) *FrameMetrics {
	if period <= 0 {
		period = time.Second
	}
	fm := &FrameMetrics{period: period, now: time.Now}
	fm.Reset()
	return fm
}

// RecordFrame records one drawn frame that took d and composited the given
// number of layer placements.
func (fm *FrameMetrics) RecordFrame(d time.Duration, layers int) {
	n := d.Nanoseconds()
	fm.frames.Add(1)
	fm.periodFrames.Add(1)
	fm.layers.Add(int64(layers))
	fm.lastFrame.Store(n)
	fm.totalTime.Add(n)

	for {
		cur := fm.minFrame.Load()
		if n >= cur || fm.minFrame.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := fm.maxFrame.Load()
		if n <= cur || fm.maxFrame.CompareAndSwap(cur, n) {
			break
		}
	}

	fm.mu.Lock()
	defer fm.mu.Unlock()
	now := fm.now()
	if elapsed := now.Sub(fm.periodStart); elapsed >= fm.period {
		frames := fm.periodFrames.Swap(0)
		fm.lastFPS.Store(int64(float64(frames) / elapsed.Seconds() * 1000))
		fm.periodStart = now
	}
}

// FPS returns the frame rate measured over the last complete period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000
}

// Stats returns a copy of the current metrics.
func (fm *FrameMetrics) Stats() FrameStats {
	s := FrameStats{
		Frames: fm.frames.Load(),
		Layers: fm.layers.Load(),
		FPS:    fm.FPS(),
		Last:   time.Duration(fm.lastFrame.Load()),
		Max:    time.Duration(fm.maxFrame.Load()),
	}
	if s.Frames > 0 {
		s.Min = time.Duration(fm.minFrame.Load())
		s.Average = time.Duration(fm.totalTime.Load() / s.Frames)
		s.Composite = float64(s.Layers) / float64(s.Frames)
	}
	return s
}

// Reset clears all metrics.
func (fm *FrameMetrics) Reset() {
	fm.frames.Store(0)
	fm.periodFrames.Store(0)
	fm.layers.Store(0)
	fm.lastFPS.Store(0)
	fm.lastFrame.Store(0)
	fm.minFrame.Store(int64(time.Hour))
	fm.maxFrame.Store(0)
	fm.totalTime.Store(0)

	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.periodStart = fm.now()
}
