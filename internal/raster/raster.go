// Package raster holds the pixel buffer the convolution engine reads from and
// writes to: a width x height grid of packed 32-bit ARGB words.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrEmptyImage = errors.New("image must be at least 1x1")

// ARGB is a packed pixel: alpha in bits 24-31, red 16-23, green 8-15, blue 0-7.
// Channels are not premultiplied.
type ARGB uint32

func Pack(a, r, g, b uint8) ARGB {
	return ARGB(a)<<24 | ARGB(r)<<16 | ARGB(g)<<8 | ARGB(b)
}

func (c ARGB) A() uint8 { return uint8(c >> 24) }
func (c ARGB) R() uint8 { return uint8(c >> 16) }
func (c ARGB) G() uint8 { return uint8(c >> 8) }
func (c ARGB) B() uint8 { return uint8(c) }

// RGBA implements color.Color.
func (c ARGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

type Image struct {
	width  int
	height int
	pix    []ARGB
}

// New allocates a zeroed (transparent black) image.
func New(width, height int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyImage, width, height)
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]ARGB, width*height),
	}, nil
}

// FromPixels builds an image from row-major pixel data. The slice is copied.
func FromPixels(width, height int, pix []ARGB) (*Image, error) {
	img, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("pixel count %d does not match %dx%d", len(pix), width, height)
	}
	copy(img.pix, pix)
	return img, nil
}

// FromImage converts any decoded image into an ARGB buffer whose origin is
// the top-left corner of src's bounds.
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	img, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.Set(x-bounds.Min.X, y-bounds.Min.Y, Pack(c.A, c.R, c.G, c.B))
		}
	}
	return img, nil
}

func (p *Image) Width() int  { return p.width }
func (p *Image) Height() int { return p.height }

// In reports whether (x, y) addresses a pixel of the image.
func (p *Image) In(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// Get returns the pixel at (x, y). It panics when (x, y) is outside the image,
// like a slice index would.
func (p *Image) Get(x, y int) ARGB {
	return p.pix[p.offset(x, y)]
}

func (p *Image) Set(x, y int, c ARGB) {
	p.pix[p.offset(x, y)] = c
}

// Clone returns a deep copy.
func (p *Image) Clone() *Image {
	return &Image{width: p.width, height: p.height, pix: p.Pixels()}
}

// Pixels returns a row-major copy of the pixel data.
func (p *Image) Pixels() []ARGB {
	pix := make([]ARGB, len(p.pix))
	copy(pix, p.pix)
	return pix
}

func (p *Image) offset(x, y int) int {
	if !p.In(x, y) {
		panic(fmt.Sprintf("raster: pixel (%d,%d) out of range %dx%d", x, y, p.width, p.height))
	}
	return y*p.width + x
}

// ColorModel, Bounds and At make *Image an image.Image so it can be handed
// straight to an encoder.

func (p *Image) ColorModel() color.Model { return color.NRGBAModel }

func (p *Image) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

func (p *Image) At(x, y int) color.Color {
	if !p.In(x, y) {
		return color.NRGBA{}
	}
	c := p.Get(x, y)
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}
