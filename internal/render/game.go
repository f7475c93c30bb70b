// Package render composites layer trees onto the screen with Ebiten, or into
// images in software for snapshots.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-activity/internal/layer"
)

// ErrGameTerminated is returned when the game loop is terminated via context
// cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler is called with errors that do not stop the game loop.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "render: %v\n", err)
}

// TextRendererInterface defines the text rendering used for the message
// label. It allows mocking in tests.
type TextRendererInterface interface {
	DrawCentered(screen *ebiten.Image, s string, cx, y float64, clr color.RGBA)
	MeasureText(s string) (width, height float64)
	LineHeight() float64
	SetFontSize(size float64)
	FontSize() float64
}

// Game implements ebiten.Game. It advances a fixed-tick clock, displays
// dirty layers and composites the tree every frame.
//
// Layers are not safe for concurrent use. Code running outside the game loop
// must change the tree through Do.
type Game struct {
	config       Config
	root         *layer.Layer
	backend      layer.Backend
	textRenderer TextRendererInterface
	errorHandler ErrorHandler
	metrics      *FrameMetrics
	message      string
	elapsed      time.Duration
	pending      []func()
	hintsApplied bool
	running      bool
	ctx          context.Context
	mu           sync.Mutex
}

// NewGame creates a game showing root.
func NewGame(config Config, root *layer.Layer) *Game {
	return NewGameWithRenderer(config, root, NewTextRenderer())
}

// NewGameWithRenderer creates a game with a custom text renderer.
func NewGameWithRenderer(config Config, root *layer.Layer, renderer TextRendererInterface) *Game {
	if config.MessageSize > 0 {
		renderer.SetFontSize(config.MessageSize)
	}
	return &Game{
		config:       config,
		root:         root,
		backend:      &EbitenBackend{},
		textRenderer: renderer,
		errorHandler: DefaultErrorHandler,
	}
}

// SetErrorHandler sets the handler for errors that do not stop the loop.
// A nil handler discards them.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetContext sets a context whose cancellation ends the game loop.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetMetrics enables frame metrics collection.
func (g *Game) SetMetrics(m *FrameMetrics) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = m
}

// SetMessage sets the label drawn under the indicator. An empty message
// hides it.
func (g *Game) SetMessage(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = msg
}

// Message returns the current label.
func (g *Game) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Do queues fn to run on the game loop before the next tick. It is the only
// safe way to touch the layer tree from another goroutine.
func (g *Game) Do(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = append(g.pending, fn)
}

// Elapsed returns the compositor clock.
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsed
}

// tick returns the clock increment of one update.
func (g *Game) tick() time.Duration {
	if g.config.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(g.config.FPS)
}

// Update implements ebiten.Game.Update.
func (g *Game) Update() error {
	g.mu.Lock()
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			g.mu.Unlock()
			return ErrGameTerminated
		default:
		}
	}
	pending := g.pending
	g.pending = nil
	g.elapsed += g.tick()
	applyHints := g.running && !g.hintsApplied && g.config.Hints().Any()
	g.hintsApplied = g.hintsApplied || applyHints
	config, handler := g.config, g.errorHandler
	g.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	if applyHints {
		if err := ApplyWindowHints(config.Title, config.Hints()); err != nil && handler != nil {
			handler(err)
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.mu.Lock()
	now, msg, config, metrics := g.elapsed, g.message, g.config, g.metrics
	g.mu.Unlock()

	screen.Fill(config.BackgroundColor)

	placements := composite(g.root, g.backend, now)
	op := &ebiten.DrawImageOptions{}
	for _, p := range placements {
		s, ok := p.surface.(*EbitenSurface)
		if !ok {
			continue
		}
		target := screen
		if p.clipped {
			clip := p.clip.Intersect(screen.Bounds())
			if clip.Empty() {
				continue
			}
			target = screen.SubImage(clip).(*ebiten.Image)
		}
		op.GeoM = p.geom
		op.Filter = filterFor(p)
		target.DrawImage(s.Image(), op)
	}

	if msg != "" {
		g.drawMessage(screen, msg, config)
	}
	if metrics != nil {
		metrics.RecordFrame(time.Since(start), len(placements))
	}
}

// filterFor picks linear filtering for rotated placements and nearest for
// axis-aligned ones so unrotated content stays crisp.
func filterFor(p placement) ebiten.Filter {
	if p.geom.Element(0, 1) != 0 || p.geom.Element(1, 0) != 0 {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// drawMessage centers msg under the root layer, or near the bottom edge
// when the tree fills the window.
func (g *Game) drawMessage(screen *ebiten.Image, msg string, config Config) {
	_, h := g.textRenderer.MeasureText(msg)
	y := g.root.Frame().MaxY() + g.textRenderer.LineHeight()/2
	if limit := float64(config.Height) - h; y > limit {
		y = limit
	}
	g.textRenderer.DrawCentered(screen, msg, float64(config.Width)/2, y, config.MessageColor)
}

// Layout implements ebiten.Game.Layout.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config.Width, g.config.Height
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config
}

// SetConfig replaces the configuration while the loop runs. The window is
// resized and retitled to match.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	resize := g.running && (config.Width != g.config.Width || config.Height != g.config.Height)
	retitle := g.running && config.Title != g.config.Title
	g.config = config
	g.hintsApplied = false
	g.mu.Unlock()

	if config.MessageSize > 0 {
		g.textRenderer.SetFontSize(config.MessageSize)
	}
	if resize {
		ebiten.SetWindowSize(config.Width, config.Height)
	}
	if retitle {
		ebiten.SetWindowTitle(config.Title)
	}
	ebiten.SetTPS(config.FPS)
}

// Run starts the Ebiten game loop. It blocks until the window is closed or
// the context is cancelled; cancellation returns nil.
func (g *Game) Run() error {
	config := g.Config()
	ebiten.SetWindowSize(config.Width, config.Height)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetTPS(config.FPS)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.running = false
		g.mu.Unlock()
		CloseWindowHints()
	}()

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: config.Transparent})
	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}
