// Package layout assembles detected text-line regions into human reading
// order using an XY-cut spatial partition.
package layout

import (
	"log/slog"
	"math"

	"github.com/yomitoru/yomitoru/internal/detector"
)

// Line is one ordered text-line region. Identity is its index in document
// order; geometry is fixed once assembled.
type Line struct {
	X, Y          int
	Width, Height int
	// PredChars estimates how many characters the line holds, used to route
	// it to an appropriately sized recognizer. 100.0 when no estimate is
	// possible.
	PredChars  float64
	Confidence float64
}

// Vertical reports whether the line is taller than wide (tategaki script).
func (l Line) Vertical() bool { return l.Height > l.Width }

// DefaultPredChars is used when the character count cannot be estimated.
const DefaultPredChars = 100.0

// Document is the structured page representation the reading-order pass
// operates on.
type Document struct {
	Width, Height int
	Name          string
	ClassNames    []string
	Buckets       detector.Buckets
}

// Assemble orders the page's class-0 text boxes into reading order and
// returns one Line per box. Line confidences come from the scored class-0
// bucket, matched by insertion order.
func Assemble(doc Document) ([]Line, error) {
	boxes := doc.Buckets.Text
	order, err := orderBoxes(boxes)
	if err != nil {
		return nil, err
	}

	scored := doc.Buckets.ByClass[0]
	lines := make([]Line, 0, len(order))
	for _, idx := range order {
		b := boxes[idx]
		conf := 0.0
		if idx < len(scored) {
			conf = scored[idx].Confidence
		}
		lines = append(lines, Line{
			X:          int(b.XMin),
			Y:          int(b.YMin),
			Width:      int(b.Width()),
			Height:     int(b.Height()),
			PredChars:  estimateChars(b),
			Confidence: conf,
		})
	}

	slog.Debug("reading order assembled",
		"page", doc.Name,
		"lines", len(lines))
	return lines, nil
}

// estimateChars approximates the character count of a line box from its
// aspect ratio, assuming roughly square glyphs.
func estimateChars(b detector.Box) float64 {
	long := math.Max(b.Width(), b.Height())
	short := math.Min(b.Width(), b.Height())
	if short <= 0 || long <= 0 {
		return DefaultPredChars
	}
	return math.Max(1, math.Round(long/short))
}
