package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default quiet period before a change is
// reloaded.
const DefaultWatchDebounce = 300 * time.Millisecond

// Watcher reparses a configuration file whenever it changes on disk.
type Watcher struct {
	watcher   *fsnotify.Watcher
	parser    *Parser
	path      string
	debounce  time.Duration
	onReload  func(*Config)
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher watches path and calls onReload with every configuration that
// parses and validates after a change. Failures go to onError, which may be
// nil. A non-positive debounce uses DefaultWatchDebounce.
func NewWatcher(path string, parser *Parser, debounce time.Duration, onReload func(*Config), onError func(error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Watch the directory: editors that save by renaming replace the file
	// and would drop a watch on it.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &Watcher{
		watcher:   w,
		parser:    parser,
		path:      path,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a new goroutine. Calling Start twice has no
// effect.
func (cw *Watcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return
	}
	cw.running = true
	go cw.loop()
}

// Stop ends watching and waits for the watch goroutine to exit. It is safe
// to call without Start and more than once.
func (cw *Watcher) Stop() {
	cw.mu.Lock()
	running := cw.running
	cw.running = false
	cw.mu.Unlock()

	if !running {
		select {
		case <-cw.stopCh:
		default:
			close(cw.stopCh)
			cw.watcher.Close()
		}
		return
	}
	close(cw.stopCh)
	<-cw.stoppedCh
}

// matches reports whether event concerns the watched file.
func (cw *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(cw.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (cw *Watcher) loop() {
	defer close(cw.stoppedCh)
	defer cw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-cw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.matches(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.fail(err)
		}
	}
}

func (cw *Watcher) reload() {
	cfg, err := cw.parser.ParseFile(cw.path)
	if err != nil {
		cw.fail(err)
		return
	}
	if cw.onReload != nil {
		cw.onReload(cfg)
	}
}

func (cw *Watcher) fail(err error) {
	if cw.onError != nil {
		cw.onError(err)
	}
}
