package kernel

import (
	"fmt"
	"slices"
)

// Catalog names.
const (
	Smoothing          = "smoothing"
	Gaussian           = "gaussian"
	Sharpen            = "sharpen"
	SharpenIntensified = "sharpen-intensified"
)

const (
	defaultSide        = 3
	defaultGaussian    = 2
	defaultSharpen     = 5
	defaultIntensified = 9
)

// Entry describes one catalog effect and its default center weight.
type Entry struct {
	Name          string
	Description   string
	DefaultCenter int
	build         func(side, center int) (Kernel, error)
}

var catalog = []Entry{
	{
		Name:          Smoothing,
		Description:   "unweighted smoothing, every weight 1",
		DefaultCenter: 1,
		build:         func(side, _ int) (Kernel, error) { return SmoothingUnweighted(side) },
	},
	{
		Name:          Gaussian,
		Description:   "gaussian cross blur, center weight surrounded by a cross of 1s",
		DefaultCenter: defaultGaussian,
		build:         GaussianBlur,
	},
	{
		Name:          Sharpen,
		Description:   "cross sharpening, center weight surrounded by a cross of -1s",
		DefaultCenter: defaultSharpen,
		build:         Sharpening,
	},
	{
		Name:          SharpenIntensified,
		Description:   "intensified sharpening, center weight surrounded by -1s",
		DefaultCenter: defaultIntensified,
		build:         SharpeningIntensified,
	},
}

// Catalog returns the effects in their canonical order.
func Catalog() []Entry {
	return slices.Clone(catalog)
}

// Names lists the catalog names in canonical order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Entry, error) {
	for _, e := range catalog {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownKernel, name, Names())
}

// Default returns the 3x3 default form of the named effect.
func Default(name string) (Kernel, error) {
	e, err := Lookup(name)
	if err != nil {
		return Kernel{}, err
	}
	return e.build(defaultSide, e.DefaultCenter)
}

// ByName returns the parameterized form of the named effect. The center
// weight is ignored for unweighted smoothing.
func ByName(name string, side, center int) (Kernel, error) {
	e, err := Lookup(name)
	if err != nil {
		return Kernel{}, err
	}
	return e.build(side, center)
}

func verifySide(side int, name string) error {
	switch {
	case side < 0:
		return fmt.Errorf("%w: %s side cannot be negative (side=%d)", ErrBadSide, name, side)
	case side == 0 || side == 1:
		return fmt.Errorf("%w: %s side must be odd number of 3 or greater (side=%d)", ErrBadSide, name, side)
	case side%2 == 0:
		return fmt.Errorf("%w: %s side must not be even number (side=%d)", ErrBadSide, name, side)
	case side > MaxSide:
		return fmt.Errorf("%w: %s side must not exceed %d (side=%d)", ErrBadSide, name, MaxSide, side)
	}
	return nil
}

// fill builds a side x side kernel with center at (side/2, side/2), cross on
// the remaining cells of the center row and column, and rest everywhere else.
func fill(side, center, cross, rest int) Kernel {
	mid := side / 2
	weights := make([]int, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			w := rest
			switch {
			case x == mid && y == mid:
				w = center
			case x == mid || y == mid:
				w = cross
			}
			weights[x*side+y] = w
		}
	}
	return Kernel{side: side, weights: weights}
}

// SmoothingUnweighted returns a side x side kernel of 1s.
func SmoothingUnweighted(side int) (Kernel, error) {
	if err := verifySide(side, "SmoothingUnweighted"); err != nil {
		return Kernel{}, err
	}
	return fill(side, 1, 1, 1), nil
}

// GaussianBlur returns a cross of 1s through the center weight, 0 elsewhere.
//
//	0 1 0
//	1 c 1
//	0 1 0
func GaussianBlur(side, centerWeight int) (Kernel, error) {
	if err := verifySide(side, "GaussianBlur"); err != nil {
		return Kernel{}, err
	}
	return fill(side, centerWeight, 1, 0), nil
}

// Sharpening returns a cross of -1s through the center weight, 0 elsewhere.
//
//	 0 -1  0
//	-1  c -1
//	 0 -1  0
func Sharpening(side, centerWeight int) (Kernel, error) {
	if err := verifySide(side, "Sharpening"); err != nil {
		return Kernel{}, err
	}
	return fill(side, centerWeight, -1, 0), nil
}

// SharpeningIntensified returns the center weight surrounded entirely by -1s.
func SharpeningIntensified(side, centerWeight int) (Kernel, error) {
	if err := verifySide(side, "SharpeningIntensified"); err != nil {
		return Kernel{}, err
	}
	return fill(side, centerWeight, -1, -1), nil
}

func DefaultSmoothingUnweighted() Kernel {
	return fill(defaultSide, 1, 1, 1)
}

func DefaultGaussianBlur() Kernel {
	return fill(defaultSide, defaultGaussian, 1, 0)
}

func DefaultSharpening() Kernel {
	return fill(defaultSide, defaultSharpen, -1, 0)
}

func DefaultSharpeningIntensified() Kernel {
	return fill(defaultSide, defaultIntensified, -1, -1)
}
