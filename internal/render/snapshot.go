package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/opd-ai/go-activity/internal/layer"
)

// ErrUnsupportedFormat is returned when a snapshot path has an extension
// other than .png or .gif.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Snapshotter composites a layer tree in software, without a window.
type Snapshotter struct {
	width, height int
	background    color.Color
	backend       *CanvasBackend
	metrics       *FrameMetrics
}

// NewSnapshotter returns a snapshotter producing width×height images over
// the given background.
func NewSnapshotter(width, height int, background color.Color) *Snapshotter {
	if background == nil {
		background = color.Transparent
	}
	return &Snapshotter{width: width, height: height, background: background, backend: &CanvasBackend{}}
}

// SetMetrics makes every Frame call record its timing into m.
func (s *Snapshotter) SetMetrics(m *FrameMetrics) { s.metrics = m }

// Frame renders root as it appears at compositor time now.
func (s *Snapshotter) Frame(root *layer.Layer, now time.Duration) (*image.RGBA, error) {
	start := time.Now()
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)

	placements := composite(root, s.backend, now)
	for _, p := range placements {
		c, ok := p.surface.(*Canvas)
		if !ok {
			continue
		}
		src := c.RGBA()
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", p.layer, err)
		}

		target := dst
		if p.clipped {
			sub, ok := dst.SubImage(p.clip).(*image.RGBA)
			if !ok || sub.Bounds().Empty() {
				continue
			}
			target = sub
		}
		g := p.geom
		m := f64.Aff3{
			g.Element(0, 0), g.Element(0, 1), g.Element(0, 2),
			g.Element(1, 0), g.Element(1, 1), g.Element(1, 2),
		}
		draw.BiLinear.Transform(target, m, src, src.Bounds(), draw.Over, nil)
	}
	if s.metrics != nil {
		s.metrics.RecordFrame(time.Since(start), len(placements))
	}
	return dst, nil
}

// Frames renders n frames spaced period apart, starting at time zero.
func (s *Snapshotter) Frames(root *layer.Layer, n int, period time.Duration) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, n)
	for i := 0; i < n; i++ {
		img, err := s.Frame(root, time.Duration(i)*period)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// ScaleFrames resamples frames by factor with a Lanczos filter. A factor of
// one, or one that is not positive, returns frames unchanged.
func ScaleFrames(frames []*image.RGBA, factor float64) []*image.RGBA {
	if factor <= 0 || factor == 1 {
		return frames
	}
	out := make([]*image.RGBA, len(frames))
	for i, f := range frames {
		b := f.Bounds()
		w := max(1, int(float64(b.Dx())*factor+0.5))
		h := max(1, int(float64(b.Dy())*factor+0.5))
		scaled := imaging.Resize(f, w, h, imaging.Lanczos)
		dst := image.NewRGBA(scaled.Bounds())
		draw.Draw(dst, dst.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
		out[i] = dst
	}
	return out
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteGIF encodes frames as a looping animated GIF with the given delay
// between frames.
func WriteGIF(w io.Writer, frames []*image.RGBA, delay time.Duration) error {
	if len(frames) == 0 {
		return errors.New("encode gif: no frames")
	}
	centi := int(delay / (10 * time.Millisecond))
	if centi < 1 {
		centi = 1
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, f := range frames {
		p := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, f.Bounds(), f, f.Bounds().Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, centi)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// IsStill reports whether path names a single-frame snapshot format.
func IsStill(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

// SaveSnapshot writes frames to path, picking the encoding from its
// extension. A .png file receives only the first frame.
func SaveSnapshot(path string, frames []*image.RGBA, delay time.Duration) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".gif" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if len(frames) == 0 {
		return errors.New("no frames to save")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close snapshot: %w", cerr)
		}
	}()

	if ext == ".png" {
		return WritePNG(f, frames[0])
	}
	return WriteGIF(f, frames, delay)
}
