package activity

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-activity/internal/config"
	"github.com/opd-ai/go-activity/internal/render"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// ErrAlreadyRunning is returned by Run and Start on a running instance.
var ErrAlreadyRunning = errors.New("activity already running")

// ErrNotRunning is returned by ReloadConfig on a stopped instance.
var ErrNotRunning = errors.New("activity not running")

// ErrWindowNeedsRun is returned by Start and Restart on an instance that
// opens a window. The window loop must own the main goroutine, so only Run
// can drive it.
var ErrWindowNeedsRun = errors.New("window sessions must be driven by Run")

// session holds the state of one run of the loop.
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	view    *indicator.Indicator
	game    *render.Game
	frames  *render.FrameMetrics
	watcher *config.Watcher
	parser  *config.Parser
	done    chan struct{}
	started time.Time

	// Headless clock and last composited frame, guarded by activityImpl.mu.
	elapsed time.Duration
	frame   *image.RGBA
}

type activityImpl struct {
	cfg       *config.Config
	opts      Options
	source    string
	watchPath string
	load      func() (*config.Config, error)
	metrics   *Metrics
	logger    indicator.Logger

	running   atomic.Bool
	session   *session
	lastStart time.Time
	lastError atomic.Value

	errorHandler ErrorHandler
	eventHandler EventHandler

	mu sync.RWMutex
}

var _ Activity = (*activityImpl)(nil)

// Run implements Activity.
func (a *activityImpl) Run(ctx context.Context) error {
	s, err := a.begin(ctx)
	if err != nil {
		return err
	}
	return a.serve(s)
}

// Start implements Activity.
func (a *activityImpl) Start() error {
	if !a.opts.Headless {
		return ErrWindowNeedsRun
	}
	s, err := a.begin(context.Background())
	if err != nil {
		return err
	}
	go a.serve(s)
	return nil
}

func (a *activityImpl) begin(parent context.Context) (*session, error) {
	if a.running.Swap(true) {
		return nil, ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(parent)
	s := &session{
		ctx:     ctx,
		cancel:  cancel,
		frames:  render.NewFrameMetrics(time.Second),
		done:    make(chan struct{}),
		started: time.Now(),
	}

	// The watcher is built before the session is published and started
	// after, so Stop never sees it half built.
	if a.opts.WatchConfig && a.watchPath != "" {
		if err := a.watch(s); err != nil {
			a.notifyError(fmt.Errorf("config watch disabled: %w", err))
		}
	}

	a.mu.Lock()
	cfg := a.cfg
	s.view = NewIndicator(cfg, a.logger)
	if !a.opts.Headless {
		s.game = render.NewGame(RenderConfig(cfg), s.view.Layer())
		s.game.SetContext(ctx)
		s.game.SetMetrics(s.frames)
		s.game.SetMessage(cfg.Message.Text)
		s.game.SetErrorHandler(a.notifyError)
	}
	s.view.StartAnimating()
	a.session = s
	a.lastStart = s.started
	a.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Start()
	}
	if !a.opts.Headless {
		if warning := render.TransparencyWarning(cfg.Window.Transparent); warning != "" {
			a.logger.Warn(warning)
		}
	}

	a.metrics.starts.Add(1)
	a.metrics.setRunning(true)
	a.logger.Info("activity started", "source", a.source, "type", cfg.Indicator.Type, "headless", a.opts.Headless)
	a.emitEvent(EventStarted, "Instance started")
	return s, nil
}

func (a *activityImpl) watch(s *session) error {
	p, err := a.opts.newParser()
	if err != nil {
		return err
	}
	w, err := config.NewWatcher(a.watchPath, p, a.opts.WatchDebounce,
		func(cfg *config.Config) {
			if err := a.opts.override(cfg); err != nil {
				a.metrics.reloadErrors.Add(1)
				a.notifyError(fmt.Errorf("config reload failed: %w", err))
				return
			}
			a.apply(cfg)
		},
		func(err error) {
			a.metrics.reloadErrors.Add(1)
			a.notifyError(fmt.Errorf("config reload failed: %w", err))
		})
	if err != nil {
		p.Close()
		return err
	}
	s.parser, s.watcher = p, w
	return nil
}

func (a *activityImpl) serve(s *session) error {
	defer a.end(s)

	if s.game == nil {
		a.animate(s)
		return nil
	}
	if err := s.game.Run(); err != nil {
		err = fmt.Errorf("render loop error: %w", err)
		a.notifyError(err)
		return err
	}
	return nil
}

// animate drives a headless session. Each tick advances the clock by one
// period and composites the tree in software.
func (a *activityImpl) animate(s *session) {
	a.mu.RLock()
	period := tickPeriod(a.cfg)
	a.mu.RUnlock()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			next, err := a.advance(s, period)
			if err != nil {
				a.notifyError(fmt.Errorf("render loop error: %w", err))
			}
			if next != period {
				period = next
				ticker.Reset(period)
			}
		}
	}
}

// advance renders one headless frame and returns the tick period of the
// current configuration.
func (a *activityImpl) advance(s *session, period time.Duration) (time.Duration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg := a.cfg
	s.elapsed += period
	snap := render.NewSnapshotter(cfg.Window.Width, cfg.Window.Height, cfg.Window.Background)
	snap.SetMetrics(s.frames)
	frame, err := snap.Frame(s.view.Layer(), s.elapsed)
	if err != nil {
		return tickPeriod(cfg), err
	}
	s.frame = frame
	return tickPeriod(cfg), nil
}

func (a *activityImpl) end(s *session) {
	s.cancel()
	if s.watcher != nil {
		s.watcher.Stop()
		s.parser.Close()
	}

	a.mu.Lock()
	if a.session == s {
		a.session = nil
	}
	a.mu.Unlock()

	a.running.Store(false)
	a.metrics.setRunning(false)
	close(s.done)
	a.logger.Info("activity stopped", "uptime", time.Since(s.started).Round(time.Millisecond))
	a.emitEvent(EventStopped, "Instance stopped")
}

// Stop implements Activity.
func (a *activityImpl) Stop() error {
	a.mu.RLock()
	s := a.session
	a.mu.RUnlock()
	if s == nil {
		return nil
	}

	s.cancel()
	timeout := a.opts.shutdownTimeout()
	select {
	case <-s.done:
		a.metrics.stops.Add(1)
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v", timeout)
		a.notifyError(err)
		return err
	}
}

// Restart implements Activity.
func (a *activityImpl) Restart() error {
	if !a.opts.Headless {
		return ErrWindowNeedsRun
	}
	if err := a.Stop(); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}

	cfg, err := a.load()
	if err != nil {
		err = fmt.Errorf("config reload failed: %w", err)
		a.notifyError(err)
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	if err := a.Start(); err != nil {
		err = fmt.Errorf("start failed: %w", err)
		a.notifyError(err)
		return err
	}
	a.metrics.restarts.Add(1)
	a.emitEvent(EventRestarted, "Instance restarted")
	return nil
}

// ReloadConfig implements Activity.
func (a *activityImpl) ReloadConfig() error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	cfg, err := a.load()
	if err != nil {
		a.metrics.reloadErrors.Add(1)
		err = fmt.Errorf("config reload failed: %w", err)
		a.notifyError(err)
		return err
	}
	a.apply(cfg)
	return nil
}

// apply makes cfg current and hands it to the running loop. The indicator
// belongs to the game loop, so with a window it is only touched through
// Game.Do.
func (a *activityImpl) apply(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	s := a.session
	if s != nil && s.game == nil {
		Apply(s.view, cfg)
	}
	a.mu.Unlock()

	if s != nil && s.game != nil {
		view := s.view
		s.game.Do(func() { Apply(view, cfg) })
		s.game.SetConfig(RenderConfig(cfg))
		s.game.SetMessage(cfg.Message.Text)
	}

	a.metrics.configReloads.Add(1)
	a.logger.Debug("config applied", "type", cfg.Indicator.Type, "width", cfg.Window.Width, "height", cfg.Window.Height)
	a.emitEvent(EventConfigReloaded, "Configuration reloaded in-place")
}

// Snapshot implements Activity.
func (a *activityImpl) Snapshot(n int) ([]*image.RGBA, error) {
	if n <= 0 {
		return nil, fmt.Errorf("snapshot needs at least one frame, got %d", n)
	}
	a.mu.RLock()
	cfg := a.cfg
	a.mu.RUnlock()

	view := NewIndicator(cfg, a.logger)
	view.StartAnimating()
	defer view.StopAnimating()

	s := render.NewSnapshotter(cfg.Window.Width, cfg.Window.Height, cfg.Window.Background)
	frames, err := s.Frames(view.Layer(), n, tickPeriod(cfg))
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	a.metrics.snapshots.Add(1)
	return frames, nil
}

// IsRunning implements Activity.
func (a *activityImpl) IsRunning() bool {
	return a.running.Load()
}

// Status implements Activity.
func (a *activityImpl) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := Status{
		Running:      a.running.Load(),
		StartTime:    a.lastStart,
		Type:         a.cfg.Indicator.Type.String(),
		Interval:     tickPeriod(a.cfg),
		LastError:    a.getError(),
		ConfigSource: a.source,
	}
	if s := a.session; s != nil {
		stats := s.frames.Stats()
		st.Frames = stats.Frames
		st.FPS = stats.FPS
		if s.game != nil {
			st.Elapsed = s.game.Elapsed()
		} else {
			st.Elapsed = s.elapsed
		}
	}
	return st
}

// LastFrame implements Activity.
func (a *activityImpl) LastFrame() *image.RGBA {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	return a.session.frame
}

// SetErrorHandler implements Activity.
func (a *activityImpl) SetErrorHandler(handler ErrorHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errorHandler = handler
}

// SetEventHandler implements Activity.
func (a *activityImpl) SetEventHandler(handler EventHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eventHandler = handler
}

// Metrics implements Activity.
func (a *activityImpl) Metrics() *Metrics {
	return a.metrics
}

type storedError struct{ err error }

func (a *activityImpl) getError() error {
	if v, ok := a.lastError.Load().(storedError); ok {
		return v.err
	}
	return nil
}

// notifyError stores err, passes it to the error handler and emits an
// error event.
func (a *activityImpl) notifyError(err error) {
	a.lastError.Store(storedError{err})
	a.metrics.errorsTotal.Add(1)
	a.logger.Warn("activity error", "error", err)

	a.mu.RLock()
	handler := a.errorHandler
	a.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}
	a.emitEvent(EventError, err.Error())
}

func (a *activityImpl) emitEvent(t EventType, message string) {
	a.metrics.eventsEmitted.Add(1)

	a.mu.RLock()
	handler := a.eventHandler
	a.mu.RUnlock()
	if handler == nil {
		return
	}

	ev := Event{Type: t, Timestamp: time.Now(), Message: message}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("event handler panicked", "panic", r, "event", t)
			}
		}()
		handler(ev)
	}()
}
