package stage

import (
	"fmt"

	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/raster"
)

type ConvolveStage struct {
	Kernel  kernel.Kernel
	Options []convolve.Option
}

// Process replaces the image with the grayscale convolution of it with Kernel
// The result has the same bounds as the input, rebased to the origin
func (s *ConvolveStage) Process(p *pipeline.Image) error {
	src, err := raster.FromImage(p.Img)
	if err != nil {
		return err
	}
	engine, err := convolve.NewEngineWith(src, s.Kernel, s.Options...)
	if err != nil {
		return fmt.Errorf("failed to prepare convolution with %s: %w", s.Kernel, err)
	}
	out, err := engine.Convolve()
	if err != nil {
		return fmt.Errorf("failed to convolve with %s: %w", s.Kernel, err)
	}
	p.Img = out
	p.Bounds = out.Bounds()
	return nil
}
