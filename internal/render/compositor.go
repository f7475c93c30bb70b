package render

import (
	"os"
	"strings"
)

// CompositorStatus represents the detected compositor state.
type CompositorStatus int

const (
	// CompositorUnknown means detection failed.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositor is running and transparency works.
	CompositorActive
	// CompositorInactive means no compositor was found.
	CompositorInactive
)

// String returns a human-readable compositor status.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// IsWayland reports whether the session runs on Wayland, where compositing
// is always available.
func IsWayland() bool {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// TransparencyWarning returns a message explaining why a transparent window
// may render opaque, or "" when transparency is off or expected to work.
func TransparencyWarning(transparent bool) string {
	if !transparent || IsWayland() {
		return ""
	}
	return transparencyWarning(DetectCompositor())
}

func transparencyWarning(status CompositorStatus) string {
	switch status {
	case CompositorActive:
		return ""
	case CompositorInactive:
		return "no compositor detected; the transparent window may appear opaque"
	default:
		return "could not detect a compositor; the transparent window may appear opaque"
	}
}
