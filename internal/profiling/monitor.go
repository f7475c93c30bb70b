package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Byte size units.
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// Sample is a point-in-time memory measurement.
type Sample struct {
	Time       time.Time
	HeapAlloc  uint64
	HeapObjs   uint64
	Goroutines int
	NumGC      uint32
}

// ReadSample measures the current process.
func ReadSample() Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{
		Time:       time.Now(),
		HeapAlloc:  ms.HeapAlloc,
		HeapObjs:   ms.HeapObjects,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      ms.NumGC,
	}
}

// Growth compares two samples.
type Growth struct {
	Duration       time.Duration
	HeapDelta      int64
	GoroutineDelta int
	// BytesPerSec is the heap growth rate.
	BytesPerSec float64
	Leak        bool
	Reason      string
}

func (g Growth) String() string {
	status := "steady"
	if g.Leak {
		status = g.Reason
	}
	return fmt.Sprintf("heap %+d B over %s (%.1f KB/s), goroutines %+d: %s",
		g.HeapDelta, g.Duration.Round(time.Millisecond), g.BytesPerSec/KB, g.GoroutineDelta, status)
}

// MonitorConfig tunes a Monitor. Zero fields take the defaults.
type MonitorConfig struct {
	Interval time.Duration
	// Window is how many samples are kept; growth is measured across it.
	Window int
	// LeakRate is the sustained heap growth, in bytes per second, that
	// counts as a leak.
	LeakRate float64
	// GoroutineLimit is the goroutine increase that counts as a leak.
	GoroutineLimit int
}

// DefaultMonitorConfig suits an indicator that should settle into a flat
// memory profile within a few animation cycles.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:       5 * time.Second,
		Window:         24,
		LeakRate:       256 * KB,
		GoroutineLimit: 8,
	}
}

// Monitor samples memory in the background and reports growth that looks
// like a leak, such as backing stores that are never released.
type Monitor struct {
	cfg     MonitorConfig
	sample  func() Sample
	onLeak  func(Growth)
	samples []Sample
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
}

// NewMonitor creates a stopped monitor. onLeak may be nil.
func NewMonitor(cfg MonitorConfig, onLeak func(Growth)) *Monitor {
	def := DefaultMonitorConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Window < 2 {
		cfg.Window = def.Window
	}
	if cfg.LeakRate <= 0 {
		cfg.LeakRate = def.LeakRate
	}
	if cfg.GoroutineLimit <= 0 {
		cfg.GoroutineLimit = def.GoroutineLimit
	}
	return &Monitor{cfg: cfg, sample: ReadSample, onLeak: onLeak}
}

// Record takes a sample now and returns the growth across the window, or
// false when fewer than two samples exist.
func (m *Monitor) Record() (Growth, bool) {
	s := m.sample()

	m.mu.Lock()
	m.samples = append(m.samples, s)
	if len(m.samples) > m.cfg.Window {
		m.samples = m.samples[len(m.samples)-m.cfg.Window:]
	}
	if len(m.samples) < 2 {
		m.mu.Unlock()
		return Growth{}, false
	}
	first, last := m.samples[0], m.samples[len(m.samples)-1]
	m.mu.Unlock()

	return m.compare(first, last), true
}

func (m *Monitor) compare(first, last Sample) Growth {
	g := Growth{
		Duration:       last.Time.Sub(first.Time),
		HeapDelta:      int64(last.HeapAlloc) - int64(first.HeapAlloc),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	if g.Duration > 0 {
		g.BytesPerSec = float64(g.HeapDelta) / g.Duration.Seconds()
	}
	switch {
	case g.BytesPerSec > m.cfg.LeakRate:
		g.Leak = true
		g.Reason = fmt.Sprintf("heap growing %.1f KB/s, limit %.1f KB/s", g.BytesPerSec/KB, m.cfg.LeakRate/KB)
	case g.GoroutineDelta > m.cfg.GoroutineLimit:
		g.Leak = true
		g.Reason = fmt.Sprintf("%d new goroutines, limit %d", g.GoroutineDelta, m.cfg.GoroutineLimit)
	}
	return g
}

// Samples returns a copy of the retained samples.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}

// Start samples every interval until Stop. Starting a running monitor has
// no effect.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

// Stop halts sampling and waits for the sampler to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (m *Monitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.Record()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if g, ok := m.Record(); ok && g.Leak && m.onLeak != nil {
				m.onLeak(g)
			}
		}
	}
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n uint64) string {
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/GB)
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/MB)
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/KB)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
