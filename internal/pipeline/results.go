package pipeline

import (
	"strings"

	"github.com/yomitoru/yomitoru/internal/layout"
	"github.com/yomitoru/yomitoru/internal/recognizer"
)

// Request is a single OCR invocation payload. Image holds either a base64
// encoded document or a remote reference; Pages optionally narrows a PDF to
// a page selection such as "1-3,7".
type Request struct {
	Image string `json:"image"`
	Pages string `json:"pages,omitempty"`
}

// Response is the invocation envelope returned to callers: a status code plus
// a body that carries either page results or an error message.
type Response struct {
	StatusCode int  `json:"statusCode"`
	Body       Body `json:"body"`
}

// Body is the response payload.
type Body struct {
	Pages []PageResult `json:"pages,omitempty"`
	Error string       `json:"error,omitempty"`
}

// ImageInfo records the dimensions of a processed page image.
type ImageInfo struct {
	Width  int `json:"img_width"`
	Height int `json:"img_height"`
}

// LineResult is one recognized text line with its geometry.
type LineResult struct {
	// BoundingBox lists the four corners as top-left, bottom-left,
	// top-right, bottom-right.
	BoundingBox [4][2]int `json:"boundingBox"`
	ID          int       `json:"id"`
	IsVertical  string    `json:"isVertical"`
	Text        string    `json:"text"`
	IsTextline  string    `json:"isTextline"`
	Confidence  float64   `json:"confidence"`
}

// PageResult is the OCR output for one page.
type PageResult struct {
	Page     int          `json:"page"`
	Text     string       `json:"text"`
	ImgInfo  ImageInfo    `json:"imginfo"`
	Contents []LineResult `json:"contents"`
}

// assemblePage serializes a page's lines and recognized texts. The i-th text
// belongs to the i-th line; a missing text yields an empty string. When the
// majority of lines are vertical the page reads right to left, so the joined
// text block list is reversed before the final join.
func assemblePage(width, height int, lines []layout.Line, texts []string) PageResult {
	contents := make([]LineResult, 0, len(lines))
	cleaned := make([]string, 0, len(lines))
	vertical := 0
	for i, line := range lines {
		text := ""
		if i < len(texts) {
			text = recognizer.CleanText(texts[i])
		}
		cleaned = append(cleaned, text)
		if line.Vertical() {
			vertical++
		}
		contents = append(contents, LineResult{
			BoundingBox: [4][2]int{
				{line.X, line.Y},
				{line.X, line.Y + line.Height},
				{line.X + line.Width, line.Y},
				{line.X + line.Width, line.Y + line.Height},
			},
			ID:         i,
			IsVertical: "true",
			Text:       text,
			IsTextline: "true",
			Confidence: line.Confidence,
		})
	}

	blocks := []string{strings.Join(cleaned, "\n")}
	if len(lines) > 0 && vertical*2 > len(lines) {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}

	return PageResult{
		Text:     strings.Join(blocks, "\n"),
		ImgInfo:  ImageInfo{Width: width, Height: height},
		Contents: contents,
	}
}
