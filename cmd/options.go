package cmd

import (
	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/kernel"
)

// KernelSpec selects a kernel either from the catalog or from a literal
// matrix. Matrix wins when both are given.
type KernelSpec struct {
	Name      string
	Matrix    string
	Side      int
	Center    int
	CenterSet bool
}

func (s KernelSpec) Resolve() (kernel.Kernel, error) {
	if s.Matrix != "" {
		return kernel.Parse(s.Matrix)
	}
	name := s.Name
	if name == "" {
		name = kernel.Gaussian
	}
	entry, err := kernel.Lookup(name)
	if err != nil {
		return kernel.Kernel{}, err
	}
	center := entry.DefaultCenter
	if s.CenterSet {
		center = s.Center
	}
	return kernel.ByName(name, s.Side, center)
}

type EngineSpec struct {
	Boundary      string
	PreserveAlpha bool
	UnitDivisor   bool
}

func (s EngineSpec) Options() ([]convolve.Option, error) {
	boundary, err := convolve.ParseBoundary(s.Boundary)
	if err != nil {
		return nil, err
	}
	return []convolve.Option{
		convolve.WithBoundary(boundary),
		convolve.WithPreserveAlpha(s.PreserveAlpha),
		convolve.WithUnitDivisor(s.UnitDivisor),
	}, nil
}
