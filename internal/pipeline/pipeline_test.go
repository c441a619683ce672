package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/convolve2d/internal/codec"
)

type recordingStage struct {
	name  string
	calls *[]string
	err   error
}

func (s *recordingStage) Process(p *Image) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func encodedPNG(t *testing.T) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, img, codec.PNG))
	return &buf
}

func TestNewFromReaderAndWrite(t *testing.T) {
	p, err := NewFromReader(encodedPNG(t))
	require.NoError(t, err)
	assert.Equal(t, codec.PNG, p.Format)
	assert.Equal(t, image.Rect(0, 0, 2, 2), p.Bounds)

	var out bytes.Buffer
	require.NoError(t, p.Write(&out))

	again, err := NewFromReader(&out)
	require.NoError(t, err)
	c := color.NRGBAModel.Convert(again.Img.At(1, 1)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, c)
}

func TestNewFromReaderRejectsGarbage(t *testing.T) {
	_, err := NewFromReader(bytes.NewBufferString("nope"))
	assert.Error(t, err)
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var calls []string
	p := New(image.NewNRGBA(image.Rect(0, 0, 1, 1)), codec.PNG)

	err := p.Pipeline(
		&recordingStage{name: "a", calls: &calls},
		&recordingStage{name: "b", calls: &calls},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestPipelineStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	p := New(image.NewNRGBA(image.Rect(0, 0, 1, 1)), codec.PNG)

	err := p.Pipeline(
		&recordingStage{name: "a", calls: &calls, err: boom},
		&recordingStage{name: "b", calls: &calls},
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, calls)
}
