package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-activity/internal/layer"
)

// EbitenSurface is a layer backing store on an offscreen Ebiten image.
type EbitenSurface struct {
	*CairoRenderer
	img *ebiten.Image
}

// NewEbitenSurface allocates a transparent surface of the given size.
func NewEbitenSurface(width, height int) *EbitenSurface {
	img := ebiten.NewImage(width, height)
	cr := NewCairoRenderer()
	cr.SetScreen(img)
	return &EbitenSurface{CairoRenderer: cr, img: img}
}

// Image returns the backing image.
func (s *EbitenSurface) Image() *ebiten.Image { return s.img }

// Size implements layer.Surface.
func (s *EbitenSurface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements layer.Surface.
func (s *EbitenSurface) Clear() { s.img.Clear() }

// ApplyMask implements layer.Surface by compositing the mask with
// destination-in, which scales every pixel by the mask's alpha.
func (s *EbitenSurface) ApplyMask(mask layer.Surface) {
	m, ok := mask.(*EbitenSurface)
	if !ok {
		return
	}
	s.img.DrawImage(m.img, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
}

// Dispose implements layer.Disposer by releasing the GPU image.
func (s *EbitenSurface) Dispose() { s.img.Deallocate() }

// EbitenBackend allocates EbitenSurfaces.
type EbitenBackend struct{}

// NewSurface implements layer.Backend.
func (*EbitenBackend) NewSurface(width, height int) layer.Surface {
	return NewEbitenSurface(width, height)
}
