package onnx

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Tensor is a float32 tensor prepared for ONNX input. Data layout is
// row-major, NCHW for images.
type Tensor struct {
	Data  []float32
	Shape []int64
}

// NewImageTensor wraps data as a single-image tensor with shape [1, C, H, W].
func NewImageTensor(data []float32, c, h, w int) (Tensor, error) {
	if data == nil {
		return Tensor{}, errors.New("nil data")
	}
	if expected := c * h * w; len(data) != expected {
		return Tensor{}, fmt.Errorf("unexpected data length: got %d, want %d", len(data), expected)
	}
	return Tensor{Data: data, Shape: []int64{1, int64(c), int64(h), int64(w)}}, nil
}

// NormalizeImage converts img to an NCHW float32 buffer with pixel values
// scaled to [0, 1]. Alpha is discarded.
func NormalizeImage(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, errors.New("input image is nil")
	}
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, errors.New("invalid image dimensions")
	}

	data := make([]float32, 3*height*width)
	plane := height * width
	for y := range height {
		for x := range width {
			r, g, b, _ := nrgba.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			idx := y*width + x
			data[idx] = float32(r>>8) / 255.0
			data[plane+idx] = float32(g>>8) / 255.0
			data[2*plane+idx] = float32(b>>8) / 255.0
		}
	}
	return data, width, height, nil
}

// ImageToTensor resizes img to exactly targetW x targetH (no aspect
// preservation) and normalizes it into a [1, 3, H, W] tensor.
func ImageToTensor(img image.Image, targetW, targetH int) (Tensor, error) {
	resized := imaging.Resize(img, targetW, targetH, imaging.Linear)
	data, w, h, err := NormalizeImage(resized)
	if err != nil {
		return Tensor{}, err
	}
	return NewImageTensor(data, 3, h, w)
}
