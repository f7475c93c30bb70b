package activity

import (
	"github.com/opd-ai/go-activity/internal/config"
	"github.com/opd-ai/go-activity/internal/layer"
	"github.com/opd-ai/go-activity/internal/render"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// RenderConfig converts a configuration into compositor options.
func RenderConfig(cfg *config.Config) render.Config {
	return render.Config{
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		Title:           cfg.Window.Title,
		FPS:             cfg.Window.FPS,
		BackgroundColor: cfg.Window.Background,
		Transparent:     cfg.Window.Transparent,
		SkipTaskbar:     cfg.Window.SkipTaskbar,
		SkipPager:       cfg.Window.SkipPager,
		KeepAbove:       cfg.Window.KeepAbove,
		MessageColor:    cfg.Message.Color,
		MessageSize:     cfg.Message.Size,
	}
}

// IndicatorFrame returns where the indicator sits in the window: a centered
// square of the configured size, or the whole window when no size is set.
func IndicatorFrame(cfg *config.Config) layer.Rect {
	window := layer.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	if cfg.Indicator.Size <= 0 {
		return window
	}
	return window.Centered(layer.Size{Width: cfg.Indicator.Size, Height: cfg.Indicator.Size})
}

// NewIndicator builds a stopped indicator for cfg.
func NewIndicator(cfg *config.Config, logger indicator.Logger) *indicator.Indicator {
	return indicator.New(IndicatorFrame(cfg),
		indicator.WithType(cfg.Indicator.Type),
		indicator.WithColor(cfg.Indicator.Color),
		indicator.WithPadding(cfg.Indicator.Padding),
		indicator.WithLogger(logger),
	)
}

// Apply updates v in place to match cfg. Unchanged settings are left alone
// so a reload that only touches the window does not restart the animation.
func Apply(v *indicator.Indicator, cfg *config.Config) {
	ic := cfg.Indicator
	if v.Type() != ic.Type {
		v.SetType(ic.Type)
	}
	if v.Color() != ic.Color {
		v.SetColor(ic.Color)
	}
	if v.Padding() != ic.Padding {
		v.SetPadding(ic.Padding)
	}
	if frame := IndicatorFrame(cfg); v.Frame() != frame {
		v.SetFrame(frame)
	}
}
