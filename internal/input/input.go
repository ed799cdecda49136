// Package input materializes one logical "image" argument (inline-encoded
// bytes, a remote-object reference, or PDF bytes) into page image files in a
// request-scoped working directory.
package input

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/yomitoru/yomitoru/internal/faults"
	"github.com/yomitoru/yomitoru/internal/fetch"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// pdfMagic is the signature that identifies PDF content. Detection is by
// sniffing, never by the argument's declared type.
var pdfMagic = []byte("%PDF-")

// Normalizer turns a request's image argument into local page files.
type Normalizer struct {
	Fetcher fetch.Fetcher
}

// Normalize resolves source into one or more page image files under workdir
// and reports whether the input was a multi-page document. pagesExpr selects
// PDF pages; it is ignored for raster images. All failures here are
// user-input faults.
func (n *Normalizer) Normalize(ctx context.Context, source, pagesExpr, workdir string) ([]string, bool, error) {
	if source == "" {
		return nil, false, faults.Userf("image", "missing required parameter: image")
	}

	data, err := n.resolve(ctx, source)
	if err != nil {
		return nil, false, err
	}

	if IsPDF(data) {
		paths, err := renderPDF(data, workdir, pagesExpr)
		if err != nil {
			return nil, false, err
		}
		return paths, true, nil
	}

	path, err := saveImage(data, workdir)
	if err != nil {
		return nil, false, err
	}
	return []string{path}, false, nil
}

// resolve turns the image argument into raw bytes: remote references are
// fetched, everything else is treated as inline base64.
func (n *Normalizer) resolve(ctx context.Context, source string) ([]byte, error) {
	if fetch.IsRemote(source) {
		if n.Fetcher == nil {
			return nil, faults.Userf("image", "remote references are not supported")
		}
		data, err := n.Fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, faults.User("image", fmt.Errorf("cannot retrieve remote object: %w", err))
		}
		return data, nil
	}
	data, err := base64.StdEncoding.DecodeString(source)
	if err != nil {
		return nil, faults.User("image", fmt.Errorf("failed to decode base64 image data: %w", err))
	}
	return data, nil
}

// IsPDF reports whether data starts with the PDF magic signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// saveImage decodes raster image bytes, converts to RGB and writes a single
// numbered JPEG into workdir.
func saveImage(data []byte, workdir string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", faults.User("image", fmt.Errorf("cannot decode image data: %w", err))
	}
	if err := os.MkdirAll(workdir, 0o750); err != nil {
		return "", fmt.Errorf("create working directory: %w", err)
	}
	path := pageImagePath(workdir, 1)
	if err := writeJPEG(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// pageImagePath names a page file by its 1-based page number.
func pageImagePath(workdir string, pageNum int) string {
	return filepath.Join(workdir, fmt.Sprintf("page_%03d.jpg", pageNum))
}

// writeJPEG saves img as an RGB JPEG. Encoding is deterministic for
// identical input.
func writeJPEG(img image.Image, path string) error {
	rgb := imaging.Clone(img)
	if err := imaging.Save(rgb, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("save page image %s: %w", filepath.Base(path), err)
	}
	return nil
}
