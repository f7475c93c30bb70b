// Package config loads activity indicator settings from Lua files.
package config

import (
	"image/color"

	"github.com/opd-ai/go-activity/internal/paint"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// Config is the complete activity configuration.
type Config struct {
	// Indicator configures the animated indicator.
	Indicator IndicatorConfig
	// Window configures the window it is shown in.
	Window WindowConfig
	// Message configures the optional label under the indicator.
	Message MessageConfig
}

// IndicatorConfig holds the indicator options.
type IndicatorConfig struct {
	// Type selects the animation.
	Type indicator.Type
	// Color is the indicator color.
	Color paint.Color
	// Padding is the inset between the indicator frame and its animation.
	Padding float64
	// Size is the edge of the square indicator frame. Zero fills the window.
	Size float64
}

// WindowConfig holds window-related options.
type WindowConfig struct {
	// Width is the window width in pixels.
	Width int
	// Height is the window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// Background fills the window behind the indicator.
	Background color.RGBA
	// Transparent requests a transparent window surface.
	Transparent bool
	// SkipTaskbar hides the window from the taskbar.
	SkipTaskbar bool
	// SkipPager hides the window from the pager.
	SkipPager bool
	// KeepAbove keeps the window above others.
	KeepAbove bool
	// FPS is the animation tick rate.
	FPS int
}

// MessageConfig holds the label options.
type MessageConfig struct {
	// Text is the label. Empty hides it.
	Text string
	// Color is the label color.
	Color color.RGBA
	// Size is the label font size in points.
	Size float64
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}
