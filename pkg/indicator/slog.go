package indicator

import (
	"io"
	"log/slog"
	"os"
)

// SlogAdapter implements Logger on top of a *slog.Logger.
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	v := indicator.New(frame, indicator.WithLogger(indicator.NewSlogAdapter(slog.New(handler))))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger adapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Slog returns the wrapped logger so it can be shared with libraries that
// accept a *slog.Logger directly.
func (s *SlogAdapter) Slog() *slog.Logger { return s.logger }

// With returns an adapter that adds args to every record.
func (s *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// DefaultLogger logs text to stderr at Info level.
func DefaultLogger() *SlogAdapter {
	return TextLogger(os.Stderr, slog.LevelInfo)
}

// DebugLogger logs text to stderr at Debug level, including source location.
func DebugLogger() *SlogAdapter {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	return &SlogAdapter{logger: slog.New(handler)}
}

// TextLogger logs text records at or above level to w.
// A nil writer means stderr.
func TextLogger(w io.Writer, level slog.Level) *SlogAdapter {
	if w == nil {
		w = os.Stderr
	}
	return &SlogAdapter{logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// JSONLogger logs JSON records at or above level to w.
// A nil writer means stderr.
func JSONLogger(w io.Writer, level slog.Level) *SlogAdapter {
	if w == nil {
		w = os.Stderr
	}
	return &SlogAdapter{logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NopLogger returns a Logger that discards all log messages.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
