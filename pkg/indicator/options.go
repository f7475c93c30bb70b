package indicator

import "github.com/opd-ai/go-activity/internal/paint"

// Defaults used by New.
const (
	DefaultType    = GradientCircleRotateType
	DefaultPadding = 0.0
)

// DefaultColor is the indicator color used by New.
var DefaultColor = paint.White

// Option configures an Indicator.
type Option func(*Indicator)

// WithType selects the animation type.
func WithType(t Type) Option {
	return func(v *Indicator) { v.typ = t }
}

// WithColor sets the indicator color.
func WithColor(c paint.Color) Option {
	return func(v *Indicator) { v.color = c }
}

// WithPadding sets the space between the frame and the animation area.
// Negative values are treated as zero.
func WithPadding(p float64) Option {
	return func(v *Indicator) { v.padding = sanitizePadding(p) }
}

// WithLogger sets the logger for lifecycle messages.
// If nil, no logging is performed.
func WithLogger(l Logger) Option {
	return func(v *Indicator) {
		if l == nil {
			l = NopLogger()
		}
		v.logger = l
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
