package render

import (
	"fmt"
	"image/color"
)

// Config holds the window and compositing options.
type Config struct {
	// Width is the window width in pixels.
	Width int
	// Height is the window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// FPS is the number of animation ticks per second.
	FPS int
	// BackgroundColor fills the window before layers are composited.
	BackgroundColor color.RGBA
	// Transparent asks for a transparent window surface. It needs a running
	// compositor on X11.
	Transparent bool
	// SkipTaskbar hides the window from the taskbar.
	SkipTaskbar bool
	// SkipPager hides the window from the pager.
	SkipPager bool
	// KeepAbove keeps the window above others.
	KeepAbove bool
	// MessageColor is the color of the message label.
	MessageColor color.RGBA
	// MessageSize is the message font size in points.
	MessageSize float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           120,
		Height:          120,
		Title:           "activity",
		FPS:             60,
		BackgroundColor: color.RGBA{R: 0, G: 0, B: 0, A: 200},
		MessageColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		MessageSize:     defaultFontSize,
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("fps must be in 1..240, got %d", c.FPS)
	}
	if c.MessageSize < 0 {
		return fmt.Errorf("message size must not be negative, got %v", c.MessageSize)
	}
	return nil
}

// WindowHints are the EWMH states requested for the window.
type WindowHints struct {
	SkipTaskbar bool
	SkipPager   bool
	Above       bool
}

// Any reports whether at least one hint is requested.
func (h WindowHints) Any() bool {
	return h.SkipTaskbar || h.SkipPager || h.Above
}

// Hints returns the window hints requested by the config.
func (c Config) Hints() WindowHints {
	return WindowHints{SkipTaskbar: c.SkipTaskbar, SkipPager: c.SkipPager, Above: c.KeepAbove}
}
