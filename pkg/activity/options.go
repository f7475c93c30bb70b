package activity

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-activity/internal/config"
	"github.com/opd-ai/go-activity/internal/paint"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures an Activity.
type Options struct {
	// WindowTitle overrides the configured window title.
	WindowTitle string

	// Message overrides the configured label text.
	Message string

	// Type overrides the indicator type by name, such as
	// "gradient_circle_rotate".
	Type string

	// Color overrides the indicator color. Any form accepted in
	// configuration files works.
	Color string

	// Size overrides the indicator edge length in pixels.
	Size float64

	// Headless animates the indicator without opening a window: every tick
	// composites a frame in software. Required by Start and Restart.
	Headless bool

	// LuaCPULimit overrides the Lua CPU instruction limit.
	// Zero means use the default (10 million instructions).
	LuaCPULimit uint64

	// LuaMemoryLimit overrides the Lua memory limit in bytes.
	// Zero means use the default (50 MB).
	LuaMemoryLimit uint64

	// ShutdownTimeout bounds how long Stop waits.
	// Zero means use DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger receives debug and lifecycle messages. Nil disables logging.
	Logger indicator.Logger

	// Metrics collects lifecycle counters. Nil uses DefaultMetrics.
	Metrics *Metrics

	// WatchConfig reloads the configuration in place whenever the file
	// changes. Only configurations loaded with New can be watched.
	WatchConfig bool

	// WatchDebounce coalesces bursts of file events.
	// Zero means use config.DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() indicator.Logger {
	if o.Logger == nil {
		return indicator.NopLogger()
	}
	return o.Logger
}

func (o Options) shutdownTimeout() time.Duration {
	if o.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return o.ShutdownTimeout
}

// newParser creates a config parser with the option's Lua limits.
func (o Options) newParser() (*config.Parser, error) {
	p, err := config.NewParser()
	if err != nil {
		return nil, err
	}
	if o.LuaCPULimit > 0 || o.LuaMemoryLimit > 0 {
		limits := config.DefaultLuaLimits
		if o.LuaCPULimit > 0 {
			limits.CPU = o.LuaCPULimit
		}
		if o.LuaMemoryLimit > 0 {
			limits.Memory = o.LuaMemoryLimit
		}
		p.Lua().SetLimits(limits)
	}
	return p, nil
}

// override applies the option overrides to a freshly parsed config and
// validates the result.
func (o Options) override(cfg *config.Config) error {
	if o.WindowTitle != "" {
		cfg.Window.Title = o.WindowTitle
	}
	if o.Message != "" {
		cfg.Message.Text = o.Message
	}
	if o.Type != "" {
		t, err := indicator.ParseType(o.Type)
		if err != nil {
			return err
		}
		cfg.Indicator.Type = t
	}
	if o.Color != "" {
		c, err := paint.Parse(o.Color)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		cfg.Indicator.Color = c
	}
	if o.Size > 0 {
		cfg.Indicator.Size = o.Size
	}
	return cfg.Validate()
}
