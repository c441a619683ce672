// Package codec decodes and encodes the image files the convolution driver
// works with. Decoding accepts JPEG, PNG, GIF, TIFF, BMP and WebP; encoding
// supports everything but WebP.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type Format = imaging.Format

const (
	JPEG = imaging.JPEG
	PNG  = imaging.PNG
	GIF  = imaging.GIF
	TIFF = imaging.TIFF
	BMP  = imaging.BMP
)

// ParseFormat accepts a format name or file extension such as "png", ".jpg"
// or "JPEG".
func ParseFormat(name string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.ToLower(strings.TrimPrefix(name, ".")))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// FormatFromFilename picks the output format from a file's extension.
func FormatFromFilename(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// ContentType returns the MIME type written for the format.
func ContentType(f Format) string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case GIF:
		return "image/gif"
	case TIFF:
		return "image/tiff"
	case BMP:
		return "image/bmp"
	}
	return "application/octet-stream"
}

// Decode reads an image and reports the encodable format closest to the one
// it was stored in. WebP input reports PNG since WebP cannot be written.
func Decode(r io.Reader) (image.Image, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read image: %w", err)
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s image: %w", name, err)
	}

	format, err := ParseFormat(name)
	if err != nil {
		format = PNG
	}
	return img, format, nil
}

// Encode writes img in the given format. Formats without an alpha channel
// keep the colour of transparent pixels instead of flattening them to black.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case JPEG, GIF, BMP:
		img = opaque(img)
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the extension.
func Save(img image.Image, path string) error {
	format, err := FormatFromFilename(path)
	if err != nil {
		return err
	}
	switch format {
	case JPEG, GIF, BMP:
		img = opaque(img)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func opaque(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 0xFF
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
