package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/opd-ai/go-activity/internal/anim"
	"github.com/opd-ai/go-activity/internal/layer"
	"github.com/opd-ai/go-activity/internal/paint"
)

// AnimationKey is the key presets attach their animation under.
const AnimationKey = "animation"

// Preset installs an indicator animation. SetUpAnimation adds animated
// sublayers of the given size, centered in target, drawn in c.
type Preset interface {
	SetUpAnimation(target *layer.Layer, size layer.Size, c paint.Color)
}

// PresetFunc adapts a function to the Preset interface.
type PresetFunc func(target *layer.Layer, size layer.Size, c paint.Color)

// SetUpAnimation calls f.
func (f PresetFunc) SetUpAnimation(target *layer.Layer, size layer.Size, c paint.Color) {
	f(target, size, c)
}

var presets = map[Type]Preset{
	BlankType:                Blank{},
	GradientCircleRotateType: GradientCircleRotate{},
}

// PresetFor returns the preset implementing t. Unknown types get Blank.
func PresetFor(t Type) Preset {
	if p, ok := presets[t]; ok {
		return p
	}
	return Blank{}
}

// Blank adds nothing.
type Blank struct{}

// SetUpAnimation implements Preset.
func (Blank) SetUpAnimation(*layer.Layer, layer.Size, paint.Color) {}

// GradientCircleRotate spins a gradient ring once per 1.1s, holding still
// for the first fifth of every turn.
type GradientCircleRotate struct{}

// GradientCircleRotateDuration is the length of one turn.
const GradientCircleRotateDuration = 1100 * time.Millisecond

// SetUpAnimation implements Preset.
func (GradientCircleRotate) SetUpAnimation(target *layer.Layer, size layer.Size, c paint.Color) {
	spin := anim.NewKeyframe(anim.KeyPathRotationZ)
	spin.KeyTimes = []float64{0, 0.2, 1}
	spin.Values = []float64{0, 0, 2 * math.Pi}
	spin.TimingFunction = anim.EaseInEaseOut
	spin.Duration = GradientCircleRotateDuration
	spin.RepeatCount = math.Inf(1)
	spin.RemovedOnCompletion = false

	circle := ShapeGradientCircle.LayerWith(size, c)
	circle.SetFrame(target.Bounds().Centered(size))
	mustAdd(circle, spin)
	circle.SetMasksToBounds(true)
	target.AddSublayer(circle)
}

// mustAdd attaches a preset animation. Preset animations are constants, so a
// failure is a programming error.
func mustAdd(l *layer.Layer, k *anim.Keyframe) {
	if err := l.Add(k, AnimationKey); err != nil {
		panic(fmt.Sprintf("indicator: %v", err))
	}
}
