package stage

import (
	"image"

	"github.com/rm-hull/convolve2d/internal/pipeline"
	"golang.org/x/image/draw"
)

type ResampleStage struct {
	Width  int
	Height int
}

// Process applies a Catmull-Rom resampling to the requested size
// A zero Width or Height is derived from the other keeping the aspect ratio,
// and when both are zero the image is left as it is
func (s *ResampleStage) Process(p *pipeline.Image) error {
	w, h := s.size(p.Bounds)
	if w == p.Bounds.Dx() && h == p.Bounds.Dy() {
		return nil
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), p.Img, p.Bounds, draw.Src, nil)
	p.Img = scaled
	p.Bounds = scaled.Bounds()
	return nil
}

func (s *ResampleStage) size(b image.Rectangle) (int, int) {
	w, h := s.Width, s.Height
	switch {
	case w <= 0 && h <= 0:
		return b.Dx(), b.Dy()
	case w <= 0:
		w = max(1, b.Dx()*h/b.Dy())
	case h <= 0:
		h = max(1, b.Dy()*w/b.Dx())
	}
	return w, h
}
