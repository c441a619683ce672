// Package convolve implements 2D spatial convolution of an image's grayscale
// projection with an integer kernel.
//
// Each output pixel is the kernel-weighted sum of the S x S tile centred on it,
// divided by the sum of the kernel weights (truncating toward zero) and
// saturated to [0, 255]. The result is written to R, G and B alike.
package convolve

import (
	"errors"
	"fmt"

	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/raster"
)

var (
	ErrMissingImage     = errors.New("missing image")
	ErrMissingInputs    = errors.New("missing critical values for convolution")
	ErrDegenerateKernel = errors.New("degenerate kernel: weights sum to zero")

	// ErrBadKernel is kernel.ErrBadKernel, re-exported for callers of the Engine.
	ErrBadKernel = kernel.ErrBadKernel
)

// Grayscale returns a copy of img with R, G and B replaced by their integer
// mean. Alpha is kept. img is not modified.
func Grayscale(img *raster.Image) *raster.Image {
	gray := img.Clone()
	for y := 0; y < gray.Height(); y++ {
		for x := 0; x < gray.Width(); x++ {
			c := gray.Get(x, y)
			level := uint8((int(c.R()) + int(c.G()) + int(c.B())) / 3)
			gray.Set(x, y, raster.Pack(c.A(), level, level, level))
		}
	}
	return gray
}

// Convolve returns a new image of the same size as img holding the grayscale
// convolution of img with k. img and k are not modified.
func Convolve(img *raster.Image, k kernel.Kernel, opts ...Option) (*raster.Image, error) {
	if img == nil {
		return nil, ErrMissingImage
	}
	if !k.Valid() {
		return nil, fmt.Errorf("%w: kernel not initialised", ErrBadKernel)
	}
	o := applyOptions(opts)

	divisor := k.Sum()
	if divisor == 0 {
		if !o.unitDivisor {
			return nil, fmt.Errorf("%w: %s", ErrDegenerateKernel, k)
		}
		divisor = 1
	}

	gray := Grayscale(img)
	out := gray.Clone()
	tile := newTile(k.Side())

	for x := 0; x < gray.Width(); x++ {
		for y := 0; y < gray.Height(); y++ {
			tile.fill(gray, x, y, o.boundary)

			var sum int64
			for i := 0; i < tile.side; i++ {
				for j := 0; j < tile.side; j++ {
					sum += int64(k.At(i, j)) * int64(tile.at(i, j)&0xFF)
				}
			}

			level := clamp(sum / divisor)
			var alpha uint8
			if o.preserveAlpha {
				alpha = gray.Get(x, y).A()
			}
			out.Set(x, y, raster.Pack(alpha, level, level, level))
		}
	}

	return out, nil
}

// clamp saturates v to [0, 255].
func clamp(v int64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
