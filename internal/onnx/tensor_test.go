package onnx

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageTensorShape(t *testing.T) {
	data := make([]float32, 3*4*5)
	tensor, err := NewImageTensor(data, 3, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 5}, tensor.Shape)
}

func TestNewImageTensorLengthMismatch(t *testing.T) {
	_, err := NewImageTensor(make([]float32, 10), 3, 4, 5)
	assert.Error(t, err)

	_, err = NewImageTensor(nil, 3, 4, 5)
	assert.Error(t, err)
}

func TestNormalizeImageValuesAndLayout(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	data, w, h, err := NormalizeImage(img)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
	require.Len(t, data, 6)

	// NCHW: red plane first, then green, then blue.
	assert.InDelta(t, 1.0, data[0], 0.01) // R of pixel 0
	assert.InDelta(t, 0.0, data[1], 0.01) // R of pixel 1
	assert.InDelta(t, 0.0, data[4], 0.01) // B of pixel 0
	assert.InDelta(t, 1.0, data[5], 0.01) // B of pixel 1
}

func TestNormalizeImageNil(t *testing.T) {
	_, _, _, err := NormalizeImage(nil)
	assert.Error(t, err)
}

func TestImageToTensorResizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 40))
	tensor, err := ImageToTensor(img, 64, 16)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 16, 64}, tensor.Shape)
	assert.Len(t, tensor.Data, 3*16*64)
}
