package codec

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(level, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: level, G: level, B: level, A: alpha})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png":  PNG,
		".PNG": PNG,
		"jpg":  JPEG,
		"jpeg": JPEG,
		"gif":  GIF,
		"tif":  TIFF,
		"bmp":  BMP,
	}
	for name, want := range tests {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("out/output1.jpg")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)

	_, err = FormatFromFilename("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(PNG))
	assert.Equal(t, "image/jpeg", ContentType(JPEG))
}

func TestEncodeDecodePNGKeepsTransparentColour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, grayImage(0x80, 0), PNG))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, PNG, format)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	c := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0}, c)
}

func TestEncodeJPEGIgnoresAlpha(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, grayImage(0x80, 0), JPEG))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, JPEG, format)

	r, _, _, _ := img.At(2, 1).RGBA()
	assert.InDelta(t, 0x80, r>>8, 3)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewBufferString("not an image"))
	assert.Error(t, err)
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gray.png")

	require.NoError(t, Save(grayImage(0x40, 0xFF), path))

	img, err := Open(path)
	require.NoError(t, err)
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0x40, 0x40, 0x40, 0xFF}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})

	assert.ErrorIs(t, Save(grayImage(0, 0), filepath.Join(dir, "gray.xyz")), ErrUnsupportedFormat)

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestAnimate(t *testing.T) {
	data, err := Animate([]image.Image{grayImage(0, 0xFF), grayImage(0xFF, 0xFF)}, 0.5)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.True(t, bytes.Contains(data, []byte("acTL")), "expected an animation control chunk")

	_, err = Animate(nil, 1)
	assert.Error(t, err)
}
