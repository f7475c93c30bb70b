package config

import (
	"image/color"

	"github.com/opd-ai/go-activity/pkg/indicator"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 120
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 120
	// DefaultTitle is the default window title.
	DefaultTitle = "activity"
	// DefaultFPS is the default animation tick rate.
	DefaultFPS = 60
	// DefaultPadding is the default indicator padding in pixels.
	DefaultPadding = 16.0
	// DefaultMessageSize is the default label font size in points.
	DefaultMessageSize = 13.0
	// MaxFPS is the highest accepted tick rate.
	MaxFPS = 240
)

// Default colors.
var (
	// DefaultBackground is the default window background (translucent black).
	DefaultBackground = color.RGBA{A: 200}
	// DefaultMessageColor is the default label color (white).
	DefaultMessageColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Indicator: IndicatorConfig{
			Type:    indicator.DefaultType,
			Color:   indicator.DefaultColor,
			Padding: DefaultPadding,
		},
		Window: WindowConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Title:      DefaultTitle,
			Background: DefaultBackground,
			FPS:        DefaultFPS,
		},
		Message: MessageConfig{
			Color: DefaultMessageColor,
			Size:  DefaultMessageSize,
		},
	}
}
