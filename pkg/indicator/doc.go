// Package indicator provides animated activity indicators rendered on a
// layer tree.
//
// # Basic Usage
//
// Create an indicator for a frame and start it:
//
//	v := indicator.New(layer.Rect{Width: 120, Height: 120},
//		indicator.WithType(indicator.GradientCircleRotateType),
//		indicator.WithColor(paint.RGB(1, 0.4, 0)),
//		indicator.WithPadding(8),
//	)
//	v.StartAnimating()
//
// The indicator's root layer, returned by [Indicator.Layer], is handed to a
// compositor such as render.Game, which evaluates the installed animations
// every frame.
//
// # Presets
//
// Each [Type] maps to a [Preset] that builds the animated layers inside the
// indicator's square animation area. [PresetFor] resolves a type to its
// preset; [ParseType] accepts the names used in configuration files.
//
// # Concurrency
//
// An Indicator and its layer tree belong to the goroutine that renders them.
// Mutate them from that goroutine, for example through render.Game.Do.
package indicator
