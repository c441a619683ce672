package convolve

import (
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/raster"
)

// State reports which inputs an Engine has been given.
type State int

const (
	Empty State = iota
	ImageOnly
	KernelOnly
	Ready
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case ImageOnly:
		return "image-only"
	case KernelOnly:
		return "kernel-only"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Engine holds an image and a kernel between configuration and invocation.
// Setters validate eagerly and may be called again to swap either input. An
// Engine is not safe for concurrent use; independent Engines are.
type Engine struct {
	img    *raster.Image
	kernel kernel.Kernel
	opts   []Option
}

// NewEngine returns an Engine with no inputs installed.
func NewEngine(opts ...Option) *Engine {
	return &Engine{opts: opts}
}

// NewEngineWith returns a Ready engine, or an error if either input is invalid.
func NewEngineWith(img *raster.Image, k kernel.Kernel, opts ...Option) (*Engine, error) {
	e := NewEngine(opts...)
	if err := e.SetImage(img); err != nil {
		return nil, err
	}
	if err := e.SetKernel(k); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) SetImage(img *raster.Image) error {
	if img == nil {
		return ErrMissingImage
	}
	e.img = img
	return nil
}

func (e *Engine) SetKernel(k kernel.Kernel) error {
	if !k.Valid() {
		return ErrBadKernel
	}
	e.kernel = k
	return nil
}

// SetMatrix validates m as a square, odd-sided kernel of side 3 or more and
// installs it. On failure the previously installed kernel is kept.
func (e *Engine) SetMatrix(m [][]int) error {
	k, err := kernel.New(m)
	if err != nil {
		return err
	}
	e.kernel = k
	return nil
}

// SetOptions replaces the options used by subsequent calls to Convolve.
func (e *Engine) SetOptions(opts ...Option) {
	e.opts = opts
}

func (e *Engine) State() State {
	switch {
	case e.img != nil && e.kernel.Valid():
		return Ready
	case e.img != nil:
		return ImageOnly
	case e.kernel.Valid():
		return KernelOnly
	}
	return Empty
}

// Convolve runs the convolution on the installed inputs. It fails with
// ErrMissingInputs unless the engine is Ready.
func (e *Engine) Convolve() (*raster.Image, error) {
	if e.State() != Ready {
		return nil, ErrMissingInputs
	}
	return Convolve(e.img, e.kernel, e.opts...)
}
