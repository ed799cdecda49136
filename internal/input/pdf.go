package input

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/yomitoru/yomitoru/internal/faults"
	"github.com/yomitoru/yomitoru/internal/pagerange"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfBaseName is the stem renderPDF writes the incoming document under;
// pdfcpu prefixes every extracted image with it.
const pdfBaseName = "input"

// extractedPagePattern matches the page number in pdfcpu's extracted image
// filenames, which follow <basename>_<page>_<resource>.<ext> with the page
// zero-padded to the document's widest page number.
var extractedPagePattern = regexp.MustCompile(`^` + pdfBaseName + `_(\d+)_`)

// renderPDF materializes the selected pages of a PDF as numbered JPEG files
// in workdir. Scanned documents carry each page as one embedded raster;
// extraction recovers it at native resolution. Returned paths ascend by the
// original 1-based page number, which also names the file.
func renderPDF(data []byte, workdir, pagesExpr string) ([]string, error) {
	if err := os.MkdirAll(workdir, 0o750); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	pdfPath := filepath.Join(workdir, pdfBaseName+".pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, faults.User("image", fmt.Errorf("cannot open PDF: %w", err))
	}
	indices, err := pagerange.Select(pagesExpr, pageCount)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return []string{}, nil
	}

	extractDir := filepath.Join(workdir, "extract")
	if err := os.MkdirAll(extractDir, 0o750); err != nil {
		return nil, fmt.Errorf("create extraction directory: %w", err)
	}
	selected := make([]string, len(indices))
	for i, idx := range indices {
		selected[i] = strconv.Itoa(idx + 1)
	}
	if err := api.ExtractImagesFile(pdfPath, extractDir, selected, nil); err != nil {
		return nil, faults.User("image", fmt.Errorf("cannot render PDF pages: %w", err))
	}

	byPage, err := collectExtractedImages(extractDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, idx := range indices {
		pageNum := idx + 1
		src, ok := byPage[pageNum]
		if !ok {
			slog.Warn("selected page has no raster content, skipping", "page", pageNum)
			continue
		}
		img, err := loadImage(src)
		if err != nil {
			return nil, faults.User("image", fmt.Errorf("cannot decode page %d image: %w", pageNum, err))
		}
		dst := pageImagePath(workdir, pageNum)
		if err := writeJPEG(img, dst); err != nil {
			return nil, err
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

// collectExtractedImages walks dir and maps each page number to its largest
// extracted image file.
func collectExtractedImages(dir string) (map[int]string, error) {
	best := make(map[int]string)
	bestSize := make(map[int]int64)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		pageNum, ok := parsePageFromFilename(info.Name())
		if !ok {
			return nil
		}
		if info.Size() > bestSize[pageNum] {
			best[pageNum] = path
			bestSize[pageNum] = info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect extracted images: %w", err)
	}
	return best, nil
}

// parsePageFromFilename extracts the 1-based page number from a pdfcpu
// extracted image filename.
func parsePageFromFilename(name string) (int, bool) {
	m := extractedPagePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from our own extraction directory
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}
