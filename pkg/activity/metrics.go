package activity

import (
	"expvar"
	"sync/atomic"
)

// Metrics counts lifecycle operations. Counters are published through
// expvar with RegisterExpvar, which serves them at /debug/vars when an HTTP
// server runs.
//
// Safe for concurrent use.
type Metrics struct {
	starts        atomic.Int64
	stops         atomic.Int64
	restarts      atomic.Int64
	configReloads atomic.Int64
	reloadErrors  atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64
	snapshots     atomic.Int64

	running atomic.Int32

	registered atomic.Bool
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts        int64
	Stops         int64
	Restarts      int64
	ConfigReloads int64
	ReloadErrors  int64
	ErrorsTotal   int64
	EventsEmitted int64
	Snapshots     int64
	Running       bool
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the counters under the activity_ prefix. Only the
// first call on any collector publishes, since expvar names are global.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) || expvar.Get("activity_starts_total") != nil {
		return
	}
	counters := []struct {
		name string
		v    *atomic.Int64
	}{
		{"activity_starts_total", &m.starts},
		{"activity_stops_total", &m.stops},
		{"activity_restarts_total", &m.restarts},
		{"activity_config_reloads_total", &m.configReloads},
		{"activity_reload_errors_total", &m.reloadErrors},
		{"activity_errors_total", &m.errorsTotal},
		{"activity_events_emitted_total", &m.eventsEmitted},
		{"activity_snapshots_total", &m.snapshots},
	}
	for _, c := range counters {
		v := c.v
		expvar.Publish(c.name, expvar.Func(func() any { return v.Load() }))
	}
	expvar.Publish("activity_running", expvar.Func(func() any { return m.running.Load() }))
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		Restarts:      m.restarts.Load(),
		ConfigReloads: m.configReloads.Load(),
		ReloadErrors:  m.reloadErrors.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		EventsEmitted: m.eventsEmitted.Load(),
		Snapshots:     m.snapshots.Load(),
		Running:       m.running.Load() > 0,
	}
}

func (m *Metrics) setRunning(running bool) {
	if running {
		m.running.Store(1)
	} else {
		m.running.Store(0)
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	for _, v := range []*atomic.Int64{
		&m.starts, &m.stops, &m.restarts, &m.configReloads,
		&m.reloadErrors, &m.errorsTotal, &m.eventsEmitted, &m.snapshots,
	} {
		v.Store(0)
	}
	m.running.Store(0)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the process-wide collector.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
