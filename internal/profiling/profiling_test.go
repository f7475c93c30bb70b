package profiling

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSession(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPUProfilePath: filepath.Join(dir, "cpu.prof"),
		MemProfilePath: filepath.Join(dir, "mem.prof"),
	}
	if !cfg.Enabled() || (Config{}).Enabled() {
		t.Fatal("Enabled mismatch")
	}

	s, err := Start(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	for _, p := range []string{cfg.CPUProfilePath, cfg.MemProfilePath} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("profile %s: %v", p, err)
		}
	}
}

func TestSessionErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir")
	if _, err := Start(Config{CPUProfilePath: filepath.Join(missing, "cpu.prof")}); err == nil {
		t.Error("Start with an unwritable CPU path succeeded")
	}

	s, err := Start(Config{MemProfilePath: filepath.Join(missing, "mem.prof")})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err == nil || !strings.Contains(err.Error(), "memory profile") {
		t.Errorf("Stop error = %v", err)
	}
}

func fakeSamples(m *Monitor, samples ...Sample) {
	i := 0
	m.sample = func() Sample {
		s := samples[i]
		i++
		return s
	}
}

func TestMonitorGrowth(t *testing.T) {
	t0 := time.Unix(1000, 0)
	tests := []struct {
		name     string
		last     Sample
		wantLeak bool
	}{
		{"steady", Sample{Time: t0.Add(10 * time.Second), HeapAlloc: MB, Goroutines: 4}, false},
		{"heap growth", Sample{Time: t0.Add(time.Second), HeapAlloc: 2 * MB, Goroutines: 4}, true},
		{"goroutine growth", Sample{Time: t0.Add(time.Second), HeapAlloc: MB, Goroutines: 40}, true},
		{"shrinking", Sample{Time: t0.Add(time.Second), HeapAlloc: KB, Goroutines: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(MonitorConfig{}, nil)
			fakeSamples(m, Sample{Time: t0, HeapAlloc: MB, Goroutines: 4}, tt.last)
			if _, ok := m.Record(); ok {
				t.Fatal("growth reported after one sample")
			}
			g, ok := m.Record()
			if !ok {
				t.Fatal("no growth after two samples")
			}
			if g.Leak != tt.wantLeak {
				t.Errorf("leak = %v, want %v (%s)", g.Leak, tt.wantLeak, g)
			}
		})
	}
}

func TestMonitorWindow(t *testing.T) {
	m := NewMonitor(MonitorConfig{Window: 3}, nil)
	t0 := time.Unix(0, 0)
	var samples []Sample
	for i := range 5 {
		samples = append(samples, Sample{Time: t0.Add(time.Duration(i) * time.Second)})
	}
	fakeSamples(m, samples...)
	for range 5 {
		m.Record()
	}
	got := m.Samples()
	if len(got) != 3 || !got[0].Time.Equal(samples[2].Time) {
		t.Errorf("retained %d samples starting at %v", len(got), got[0].Time)
	}
}

func TestMonitorStartStop(t *testing.T) {
	m := NewMonitor(MonitorConfig{Interval: time.Millisecond}, nil)
	m.Stop()
	m.Start()
	m.Start()
	deadline := time.Now().Add(5 * time.Second)
	for len(m.Samples()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	m.Stop()
	m.Stop()
	if n := len(m.Samples()); n < 2 {
		t.Errorf("collected %d samples", n)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2 * KB, "2.00 KB"},
		{3 * MB / 2, "1.50 MB"},
		{GB, "1.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
