package activity

import "time"

// Status is a snapshot of an Activity's state.
type Status struct {
	// Running indicates if the loop is active.
	Running bool
	// StartTime is when the loop last started (zero if never started).
	StartTime time.Time
	// Frames is the number of frames drawn since the last start.
	Frames int64
	// FPS is the recent frame rate.
	FPS float64
	// Elapsed is the animation clock of the current run.
	Elapsed time.Duration
	// Type is the name of the configured indicator type.
	Type string
	// Interval is the time between animation ticks.
	Interval time.Duration
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// ConfigSource describes where the configuration came from.
	ConfigSource string
}

// ErrorHandler is a callback for runtime errors. It is called on its own
// goroutine; do not block in it.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events. It is called on its own
// goroutine; do not block in it.
type EventHandler func(event Event)

// Event is a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
type EventType int

const (
	// EventStarted is emitted when the loop starts.
	EventStarted EventType = iota
	// EventStopped is emitted when the loop ends.
	EventStopped
	// EventRestarted is emitted after a successful restart.
	EventRestarted
	// EventConfigReloaded is emitted when a new configuration is applied.
	EventConfigReloaded
	// EventError is emitted for recoverable errors.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRestarted:
		return "restarted"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
