package stage

import (
	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/raster"
)

type GreyscaleStage struct{}

// Process converts the image to greyscale by averaging the red, green and blue channels
// Alpha is left untouched, this is the same projection the convolution works on
func (s *GreyscaleStage) Process(p *pipeline.Image) error {
	src, err := raster.FromImage(p.Img)
	if err != nil {
		return err
	}
	gs := convolve.Grayscale(src)
	p.Img = gs
	p.Bounds = gs.Bounds()
	return nil
}
