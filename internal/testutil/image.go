// Package testutil provides helpers for generating synthetic document page
// images in tests.
package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LineSpec describes one synthetic text band on a generated page.
type LineSpec struct {
	X, Y          int
	Width, Height int
}

// Vertical reports whether the band is taller than wide.
func (l LineSpec) Vertical() bool { return l.Height > l.Width }

// GeneratePage renders a white page with dark bands at the given line
// positions, mimicking the scanned text lines a detector would find.
func GeneratePage(width, height int, lines []LineSpec) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	band := image.NewUniform(color.Gray{Y: 40})
	for _, l := range lines {
		rect := image.Rect(l.X, l.Y, l.X+l.Width, l.Y+l.Height).Intersect(img.Bounds())
		draw.Draw(img, rect, band, image.Point{}, draw.Src)
	}
	return img
}

// TextImage renders a centered label on a white background, for cases where
// recognizable pixel content matters.
func TextImage(text string, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	drawer.Dot = fixed.P((width-textWidth)/2, (height+textHeight)/2)
	drawer.DrawString(text)
	return img
}

// SaveJPEG writes img as JPEG to path, creating parent directories.
func SaveJPEG(t *testing.T, img image.Image, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))

	file, err := os.Create(path) //nolint:gosec // G304: test-controlled path
	require.NoError(t, err)
	defer func() { require.NoError(t, file.Close()) }()

	require.NoError(t, jpeg.Encode(file, img, nil))
}

// EncodeBase64JPEG returns img serialized as a base64-encoded JPEG, the shape
// OCR requests carry.
func EncodeBase64JPEG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
