package render

import (
	"sync"
	"testing"
	"time"
)

func TestFrameMetricsStats(t *testing.T) {
	fm := NewFrameMetrics(time.Hour)
	if s := fm.Stats(); s.Frames != 0 || s.Min != 0 || s.Average != 0 {
		t.Errorf("empty stats = %+v", s)
	}

	fm.RecordFrame(2*time.Millisecond, 3)
	fm.RecordFrame(4*time.Millisecond, 1)
	s := fm.Stats()
	if s.Frames != 2 || s.Layers != 4 {
		t.Errorf("counts = %+v", s)
	}
	if s.Min != 2*time.Millisecond || s.Max != 4*time.Millisecond || s.Last != 4*time.Millisecond {
		t.Errorf("timings = %+v", s)
	}
	if s.Average != 3*time.Millisecond || s.Composite != 2 {
		t.Errorf("averages = %+v", s)
	}

	fm.Reset()
	if s := fm.Stats(); s.Frames != 0 || s.Max != 0 {
		t.Errorf("stats after Reset = %+v", s)
	}
}

func TestFrameMetricsFPS(t *testing.T) {
	fm := NewFrameMetrics(time.Second)
	clock := time.Unix(0, 0)
	fm.now = func() time.Time { return clock }
	fm.Reset()

	for i := 0; i < 25; i++ {
		clock = clock.Add(20 * time.Millisecond)
		fm.RecordFrame(time.Millisecond, 1)
	}
	if fm.FPS() != 0 {
		t.Errorf("FPS before a full period = %v", fm.FPS())
	}
	for i := 0; i < 25; i++ {
		clock = clock.Add(20 * time.Millisecond)
		fm.RecordFrame(time.Millisecond, 1)
	}
	if got := fm.FPS(); got < 49 || got > 51 {
		t.Errorf("FPS = %v, want about 50", got)
	}
}

func TestFrameMetricsConcurrent(t *testing.T) {
	fm := NewFrameMetrics(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fm.RecordFrame(time.Microsecond, 1)
				_ = fm.Stats()
			}
		}()
	}
	wg.Wait()
	if got := fm.Stats().Frames; got != 800 {
		t.Errorf("frames = %d, want 800", got)
	}
}
