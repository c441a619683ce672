package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/rm-hull/convolve2d/internal"
)

type HarnessRequest struct {
	Inputs    []string
	OutDir    string
	Workers   int
	Format    string
	Overwrite bool
	Limit     int
	Engine    EngineSpec
}

// Harness runs the five reference kernels over every input and writes
// numbered results to OutDir. Limit, when positive, caps the number of inputs
// processed.
func Harness(req HarnessRequest) error {
	opts, err := req.Engine.Options()
	if err != nil {
		return err
	}

	processor, err := internal.NewProcessor(req.Inputs, internal.ReferenceKernels(), internal.ProcessorConfig{
		OutDir:    req.OutDir,
		PoolSize:  req.Workers,
		Format:    req.Format,
		Overwrite: req.Overwrite,
		Limit:     req.Limit,
		Options:   opts,
	})
	if err != nil {
		return err
	}

	errs := processor.Run()
	if len(errs) > 0 {
		for _, err := range errs {
			log.Printf("Error: %v", err)
		}
		return fmt.Errorf("%d of the harness jobs failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
