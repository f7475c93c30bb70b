package activity

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"time"

	"github.com/opd-ai/go-activity/internal/config"
)

// Activity is an indicator window with lifecycle control. It is safe for
// concurrent use from multiple goroutines.
type Activity interface {
	// Run opens the window and blocks until ctx is cancelled, Stop is
	// called or the window is closed. Some platforms require Run on the
	// main goroutine.
	Run(ctx context.Context) error

	// Start runs the loop in a background goroutine and returns at once.
	// It requires Options.Headless; window sessions return
	// ErrWindowNeedsRun and must use Run.
	Start() error

	// Stop ends the loop and waits for it to finish. Safe to call multiple
	// times; calls on a stopped instance are no-ops.
	Stop() error

	// Restart reloads the configuration from its source and starts again
	// in the background. Like Start it requires Options.Headless.
	Restart() error

	// ReloadConfig reparses the source and applies it to the running
	// indicator. On failure the previous configuration stays active.
	ReloadConfig() error

	// Snapshot renders n frames of the current configuration, one animation
	// tick apart, without a window.
	Snapshot(n int) ([]*image.RGBA, error)

	// IsRunning reports whether the loop is active.
	IsRunning() bool

	// Status returns detailed state information.
	Status() Status

	// LastFrame returns the most recent frame of a headless run, or nil
	// before the first tick and for window sessions.
	LastFrame() *image.RGBA

	// SetErrorHandler registers a callback for runtime errors.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Metrics returns the lifecycle counters.
	Metrics() *Metrics
}

// New creates an Activity from a configuration file on disk. The instance
// is not started.
func New(configPath string, opts *Options) (Activity, error) {
	o := resolve(opts)
	load := func() (*config.Config, error) {
		return parseWith(o, func(p *config.Parser) (*config.Config, error) {
			return p.ParseFile(configPath)
		})
	}
	return newActivity(o, configPath, configPath, load)
}

// NewFromFS creates an Activity from a configuration file in fsys, such as
// an embed.FS.
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Activity, error) {
	o := resolve(opts)
	load := func() (*config.Config, error) {
		return parseWith(o, func(p *config.Parser) (*config.Config, error) {
			return p.ParseFromFS(fsys, configPath)
		})
	}
	return newActivity(o, "embedded:"+configPath, "", load)
}

// NewFromReader creates an Activity from Lua source read from r. The content
// is read once and reused by reloads.
func NewFromReader(r io.Reader, opts *Options) (Activity, error) {
	o := resolve(opts)
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	load := func() (*config.Config, error) {
		return parseWith(o, func(p *config.Parser) (*config.Config, error) {
			return p.ParseReader(bytes.NewReader(content))
		})
	}
	return newActivity(o, "reader", "", load)
}

func resolve(opts *Options) Options {
	if opts == nil {
		return DefaultOptions()
	}
	return *opts
}

func parseWith(o Options, parse func(*config.Parser) (*config.Config, error)) (*config.Config, error) {
	p, err := o.newParser()
	if err != nil {
		return nil, fmt.Errorf("parser init: %w", err)
	}
	defer p.Close()

	cfg, err := parse(p)
	if err != nil {
		return nil, err
	}
	if err := o.override(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newActivity(o Options, source, watchPath string, load func() (*config.Config, error)) (*activityImpl, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	metrics := o.Metrics
	if metrics == nil {
		metrics = DefaultMetrics()
	}
	return &activityImpl{
		cfg:       cfg,
		opts:      o,
		source:    source,
		watchPath: watchPath,
		load:      load,
		metrics:   metrics,
		logger:    o.logger(),
	}, nil
}

// tickPeriod is the time between frames at cfg's frame rate.
func tickPeriod(cfg *config.Config) time.Duration {
	if cfg.Window.FPS <= 0 {
		return time.Second / config.DefaultFPS
	}
	return time.Second / time.Duration(cfg.Window.FPS)
}
