package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rm-hull/convolve2d/internal/codec"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/pipeline/stage"
)

type ConvolveRequest struct {
	Input   string
	Output  string
	Kernel  KernelSpec
	Engine  EngineSpec
	PreBlur float64
	Width   int
	Height  int
}

// Convolve reads one image, optionally resizes and blurs it, convolves it with
// the requested kernel and writes the result in the format implied by the
// output file's extension.
func Convolve(req ConvolveRequest) error {
	k, err := req.Kernel.Resolve()
	if err != nil {
		return err
	}
	opts, err := req.Engine.Options()
	if err != nil {
		return err
	}
	if _, err := codec.FormatFromFilename(req.Output); err != nil {
		return err
	}

	inFile, err := os.Open(req.Input)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", req.Input, err)
	}
	defer func() {
		_ = inFile.Close()
	}()

	img, err := pipeline.NewFromReader(inFile)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", req.Input, err)
	}

	log.Printf("Convolving %s (%dx%d) with [%s]", req.Input, img.Bounds.Dx(), img.Bounds.Dy(), k)
	err = img.Pipeline(
		&stage.ResampleStage{Width: req.Width, Height: req.Height},
		&stage.GaussianBlurStage{Sigma: req.PreBlur},
		&stage.ConvolveStage{Kernel: k, Options: opts},
	)
	if err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	if dir := filepath.Dir(req.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := codec.Save(img.Img, req.Output); err != nil {
		_ = os.Remove(req.Output)
		return err
	}

	log.Printf("Wrote %s", req.Output)
	return nil
}
