package internal

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/convolve2d/internal/codec"
	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/raster"
)

type NamedKernel struct {
	Name   string
	Kernel kernel.Kernel
}

// ReferenceKernels are the five kernels the reference harness runs: the four
// catalog defaults followed by a 5x5 intensified sharpen with center 25.
func ReferenceKernels() []NamedKernel {
	intensified, err := kernel.SharpeningIntensified(5, 25)
	if err != nil {
		panic(err)
	}
	return []NamedKernel{
		{Name: kernel.Smoothing, Kernel: kernel.DefaultSmoothingUnweighted()},
		{Name: kernel.Gaussian, Kernel: kernel.DefaultGaussianBlur()},
		{Name: kernel.Sharpen, Kernel: kernel.DefaultSharpening()},
		{Name: kernel.SharpenIntensified, Kernel: kernel.DefaultSharpeningIntensified()},
		{Name: kernel.SharpenIntensified + "-5x25", Kernel: intensified},
	}
}

// Job is one input image. Each kernel is applied in turn to the same engine
// and written to <name>-output<seq>, seq starting at 1.
type Job struct {
	Input string
}

type ProcessorConfig struct {
	OutDir    string
	PoolSize  int
	Format    string
	Overwrite bool
	Limit     int
	Options   []convolve.Option
}

type Processor struct {
	startTime time.Time
	endTime   time.Time
	config    ProcessorConfig
	kernels   []NamedKernel
	maxJobs   int
	jobs      chan Job
	results   chan error
	work      []Job
}

func NewProcessor(inputs []string, kernels []NamedKernel, config ProcessorConfig) (*Processor, error) {
	if config.PoolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if len(inputs) == 0 {
		return nil, errors.New("no input images")
	}
	if len(kernels) == 0 {
		return nil, errors.New("no kernels to apply")
	}
	if config.Format != "" {
		if _, err := codec.ParseFormat(config.Format); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]string, len(inputs))
	work := make([]Job, 0, len(inputs))
	for _, input := range inputs {
		name := baseName(input)
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("inputs %s and %s would write the same output files", other, input)
		}
		seen[name] = input
		work = append(work, Job{Input: input})
	}

	if err := os.MkdirAll(config.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	maxJobs := -1
	if config.Limit > 0 && config.Limit < len(work) {
		maxJobs = config.Limit
	}
	log.Printf("Prepared %d jobs (%d images x %d kernels)", len(work), len(inputs), len(kernels))

	return &Processor{
		startTime: time.Now(),
		config:    config,
		kernels:   kernels,
		maxJobs:   maxJobs,
		jobs:      make(chan Job),
		results:   make(chan error),
		work:      work,
	}, nil
}

// DispatchJobs sends jobs to the jobs channel for processing by workers.
// When maxJobs is greater than zero, it limits the number of jobs dispatched,
// hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {

	go func() {
		for n, job := range p.work {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- job
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting convolution with pool size: %d", p.config.PoolSize)

	for i := 0; i < p.config.PoolSize; i++ {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	for job := range p.jobs {
		p.results <- p.processJob(job)
	}
	log.Printf("Worker %d finished", i)
}

func baseName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath is where the seq'th kernel result for input is written:
// <name>-output<seq>.<ext>. Inputs in a format that cannot be encoded are
// written as PNG unless a format is configured.
func (p *Processor) OutputPath(input string, seq int) string {
	ext := filepath.Ext(input)
	if p.config.Format != "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(p.config.Format), ".")
	} else if _, err := codec.ParseFormat(ext); err != nil {
		ext = ".png"
	}
	return filepath.Join(p.config.OutDir, fmt.Sprintf("%s-output%d%s", baseName(input), seq, ext))
}

func (p *Processor) processJob(job Job) error {
	pending := make([]int, 0, len(p.kernels))
	for i := range p.kernels {
		filename := p.OutputPath(job.Input, i+1)

		// if the file already exists, skip processing
		if !p.config.Overwrite {
			if _, err := os.Stat(filename); err == nil {
				log.Printf("Skipping %s, already exists", filename)
				continue
			} else if !os.IsNotExist(err) {
				return err
			}
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return nil
	}

	inFile, err := os.Open(job.Input)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", job.Input, err)
	}
	defer func() {
		_ = inFile.Close()
	}()

	src, err := pipeline.NewFromReader(inFile)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", job.Input, err)
	}
	img, err := raster.FromImage(src.Img)
	if err != nil {
		return fmt.Errorf("failed to read pixels of %s: %w", job.Input, err)
	}

	engine := convolve.NewEngine(p.config.Options...)
	if err := engine.SetImage(img); err != nil {
		return err
	}

	var errs []error
	for _, i := range pending {
		named := p.kernels[i]
		if err := engine.SetKernel(named.Kernel); err != nil {
			errs = append(errs, fmt.Errorf("kernel %s: %w", named.Name, err))
			continue
		}
		if err := p.writeResult(engine, job.Input, i+1, named.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) writeResult(engine *convolve.Engine, input string, seq int, name string) error {
	filename := p.OutputPath(input, seq)
	format, err := codec.FormatFromFilename(filename)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", filename, err)
	}

	out, err := engine.Convolve()
	if err != nil {
		return fmt.Errorf("failed to process %s with %s: %w", input, name, err)
	}

	tmpFile, err := os.CreateTemp(p.config.OutDir, "convolve-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := pipeline.New(out, format).Write(tmpFile); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	log.Printf("Wrote %s (%s)", filename, name)
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := p.maxJobs
	if waitFor < 0 {
		waitFor = len(p.work)
	}
	log.Printf("Waiting for %d images to be convolved", waitFor)

	errors := make([]error, 0, 10)
	for i := 0; i < waitFor; i++ {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All images convolved in %s (errors=%d)", elapsed, len(errors))
	return errors
}

// Run starts the workers, dispatches every job and waits for them to finish.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}
