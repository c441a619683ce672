package pipeline

import (
	"image"
	"io"

	"github.com/rm-hull/convolve2d/internal/codec"
)

type Image struct {
	Img    image.Image
	Bounds image.Rectangle
	Format codec.Format
}

type Stage interface {
	Process(img *Image) error
}

func New(img image.Image, format codec.Format) *Image {
	return &Image{
		Img:    img,
		Bounds: img.Bounds(),
		Format: format,
	}
}

func NewFromReader(r io.Reader) (*Image, error) {
	img, format, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}
	return New(img, format), nil
}

func (p *Image) Write(w io.Writer) error {
	return codec.Encode(w, p.Img, p.Format)
}

func (p *Image) Pipeline(stages ...Stage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
