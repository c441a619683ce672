package convolve

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBoundary = errors.New("unknown boundary policy")

// Boundary selects what the tile holds for neighbours that fall outside the
// image.
type Boundary int

const (
	// BoundaryCenter repeats the target pixel itself for every out-of-bounds
	// neighbour. This is the default and is required for bit-compatible output.
	BoundaryCenter Boundary = iota
	// BoundaryExtend uses the nearest edge pixel.
	BoundaryExtend
	// BoundaryReflect mirrors the image about its edges, edge pixel included.
	BoundaryReflect
	// BoundaryZero pads with transparent black.
	BoundaryZero
)

var boundaryNames = map[Boundary]string{
	BoundaryCenter:  "center",
	BoundaryExtend:  "extend",
	BoundaryReflect: "reflect",
	BoundaryZero:    "zero",
}

func (b Boundary) String() string {
	if name, ok := boundaryNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary maps a name as printed by String back to a Boundary. The empty
// string selects BoundaryCenter.
func ParseBoundary(s string) (Boundary, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BoundaryCenter, nil
	}
	for b, name := range boundaryNames {
		if name == s {
			return b, nil
		}
	}
	return BoundaryCenter, fmt.Errorf("%w %q (want center, extend, reflect or zero)", ErrUnknownBoundary, s)
}

// Option configures a convolution.
type Option func(*options)

type options struct {
	boundary      Boundary
	preserveAlpha bool
	unitDivisor   bool
}

func defaultOptions() options {
	return options{boundary: BoundaryCenter}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBoundary overrides the out-of-bounds policy.
func WithBoundary(b Boundary) Option {
	return func(o *options) {
		o.boundary = b
	}
}

// WithPreserveAlpha copies each pixel's alpha from the grayscale projection
// into the output. By default output alpha is zero.
func WithPreserveAlpha(preserve bool) Option {
	return func(o *options) {
		o.preserveAlpha = preserve
	}
}

// WithUnitDivisor treats a kernel whose weights sum to zero as having divisor
// 1, so edge-detection kernels can be used. By default such kernels fail with
// ErrDegenerateKernel.
func WithUnitDivisor(unit bool) Option {
	return func(o *options) {
		o.unitDivisor = unit
	}
}
