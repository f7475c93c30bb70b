package render

import (
	"bytes"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFontSize is the default message font size in points.
const defaultFontSize = 13.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// TextRenderer draws the message label under the indicator.
type TextRenderer struct {
	source   *text.GoTextFaceSource
	fontSize float64
	mu       sync.RWMutex
}

// NewTextRenderer creates a TextRenderer using the embedded Go Regular font.
func NewTextRenderer() *TextRenderer {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// The embedded font is known to parse.
		panic("load embedded font: " + err.Error())
	}
	return &TextRenderer{source: source, fontSize: defaultFontSize}
}

// SetFontSize sets the font size. Non-positive and non-finite sizes are
// ignored.
func (tr *TextRenderer) SetFontSize(size float64) {
	if !(size > 0) || math.IsInf(size, 0) {
		return
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.fontSize = size
}

// FontSize returns the current font size.
func (tr *TextRenderer) FontSize() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize
}

func (tr *TextRenderer) face() *text.GoTextFace {
	return &text.GoTextFace{Source: tr.source, Size: tr.fontSize}
}

// MeasureText returns the width and height of s.
func (tr *TextRenderer) MeasureText(s string) (width, height float64) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return text.Measure(s, tr.face(), tr.fontSize*lineSpacing)
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize * lineSpacing
}

// DrawText renders s with its top-left corner at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, s string, x, y float64, clr color.RGBA) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = tr.fontSize * lineSpacing
	text.Draw(screen, s, tr.face(), op)
}

// DrawCentered renders s horizontally centered on cx with its top at y.
func (tr *TextRenderer) DrawCentered(screen *ebiten.Image, s string, cx, y float64, clr color.RGBA) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = tr.fontSize * lineSpacing
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, s, tr.face(), op)
}
