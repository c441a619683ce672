package cmd

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rm-hull/convolve2d/internal/codec"
	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/pipeline/stage"
	"github.com/rm-hull/convolve2d/internal/raster"
)

// Animate writes an APNG whose first frame is the grayscale projection of
// input, followed by one frame per catalog kernel in its default form.
// Output alpha is preserved so the frames stay visible.
func Animate(input, output string, frameDelay float64) error {
	src, err := codec.Open(input)
	if err != nil {
		return err
	}
	img, err := raster.FromImage(src)
	if err != nil {
		return err
	}

	gray := pipeline.New(img, codec.PNG)
	if err := gray.Pipeline(&stage.GreyscaleStage{}); err != nil {
		return err
	}

	frames := []image.Image{gray.Img}
	for _, entry := range kernel.Catalog() {
		k, err := kernel.Default(entry.Name)
		if err != nil {
			return err
		}
		out, err := convolve.Convolve(img, k, convolve.WithPreserveAlpha(true))
		if err != nil {
			return fmt.Errorf("failed to convolve with %s: %w", entry.Name, err)
		}
		log.Printf("Frame %d: %s", len(frames), entry.Name)
		frames = append(frames, out)
	}

	apngBytes, err := codec.Animate(frames, frameDelay)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, apngBytes, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	log.Printf("Wrote %s (%d frames)", output, len(frames))
	return nil
}
