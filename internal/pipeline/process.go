package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yomitoru/yomitoru/internal/detector"
	"github.com/yomitoru/yomitoru/internal/faults"
	"github.com/yomitoru/yomitoru/internal/layout"

	"github.com/disintegration/imaging"
)

// NewRequestID returns a random hex identifier for one invocation, used to
// name the request-scoped working directory.
func NewRequestID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf[:])
}

// workdirFor returns the request-scoped scratch directory path.
func workdirFor(requestID string) string {
	return filepath.Join(os.TempDir(), "yomitoru", requestID)
}

// ProcessRequest runs one full OCR invocation and maps any failure to a
// response envelope: user-input faults yield 400, everything else 500. The
// request-scoped working directory is removed before returning, whatever the
// outcome.
func (p *Pipeline) ProcessRequest(ctx context.Context, req Request) Response {
	requestID := NewRequestID()
	workdir := workdirFor(requestID)
	defer func() {
		if err := os.RemoveAll(workdir); err != nil {
			slog.Warn("workdir cleanup failed", "workdir", workdir, "error", err)
		}
	}()

	start := time.Now()
	pages, err := p.run(ctx, req, workdir)
	if err != nil {
		if faults.IsUserInput(err) {
			slog.Info("request rejected", "request_id", requestID, "error", err)
			return Response{StatusCode: 400, Body: Body{Error: err.Error()}}
		}
		slog.Error("request failed", "request_id", requestID, "error", err)
		return Response{StatusCode: 500, Body: Body{Error: err.Error()}}
	}
	slog.Info("request complete",
		"request_id", requestID,
		"pages", len(pages),
		"duration", time.Since(start))
	return Response{StatusCode: 200, Body: Body{Pages: pages}}
}

// run normalizes the input and processes every page in order. Pages are
// numbered 1..N in processing order; any page failure aborts the whole
// invocation.
func (p *Pipeline) run(ctx context.Context, req Request, workdir string) ([]PageResult, error) {
	paths, multiPage, err := p.normalizer.Normalize(ctx, req.Image, req.Pages, workdir)
	if err != nil {
		return nil, err
	}
	slog.Debug("input normalized", "pages", len(paths), "multi_page", multiPage)

	results := make([]PageResult, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, faults.Internal("process", fmt.Errorf("expected page image missing: %s", path))
		}
		page, err := p.processPage(path)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		page.Page = i + 1
		results = append(results, page)
	}
	return results, nil
}

// processPage runs detection, reading-order assembly and recognition for a
// single page image.
func (p *Pipeline) processPage(path string) (PageResult, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return PageResult{}, faults.Internal("process", fmt.Errorf("open page image: %w", err))
	}
	bounds := img.Bounds()

	detections, err := p.registry.Detector.Detect(img)
	if err != nil {
		return PageResult{}, fmt.Errorf("detect: %w", err)
	}
	buckets := detector.Bucketize(detections)

	lines, err := layout.Assemble(layout.Document{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Name:       filepath.Base(path),
		ClassNames: p.registry.Detector.Classes(),
		Buckets:    buckets,
	})
	if err != nil {
		return PageResult{}, fmt.Errorf("assemble layout: %w", err)
	}

	crops := make([]image.Image, len(lines))
	for i, line := range lines {
		crops[i] = cropLine(img, line)
	}
	texts, err := p.registry.Cascade.RecognizeAll(lines, crops)
	if err != nil {
		return PageResult{}, fmt.Errorf("recognize: %w", err)
	}

	return assemblePage(bounds.Dx(), bounds.Dy(), lines, texts), nil
}

// cropLine cuts a line's region out of the page image, clamped to the page
// bounds. A region that degenerates to nothing yields a single white pixel so
// downstream resizing stays well defined.
func cropLine(img image.Image, line layout.Line) image.Image {
	rect := image.Rect(line.X, line.Y, line.X+line.Width, line.Y+line.Height)
	rect = rect.Intersect(img.Bounds())
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		blank := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		blank.Set(0, 0, color.White)
		return blank
	}
	return imaging.Crop(img, rect)
}
