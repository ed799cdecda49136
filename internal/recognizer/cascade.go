package recognizer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/yomitoru/yomitoru/internal/layout"

	"github.com/disintegration/imaging"
)

// DefaultEscalationThreshold is the confidence below which the cascade
// escalates to the next larger recognizer.
const DefaultEscalationThreshold = 0.9

// Cascade dispatches line images across recognizers of increasing capacity.
// Each line is routed by its predicted character count; a low-confidence
// read escalates to the next larger recognizer.
type Cascade struct {
	levels    []Recognizer // ascending capacity
	threshold float64
}

// NewCascade builds a cascade over the given recognizers. Levels are ordered
// by capacity internally; at least one recognizer is required.
func NewCascade(threshold float64, levels ...Recognizer) (*Cascade, error) {
	if len(levels) == 0 {
		return nil, errors.New("cascade needs at least one recognizer")
	}
	if threshold <= 0 {
		threshold = DefaultEscalationThreshold
	}
	sorted := make([]Recognizer, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MaxChars() < sorted[j].MaxChars() })
	return &Cascade{levels: sorted, threshold: threshold}, nil
}

// RecognizeAll reads every line crop and returns one string per line,
// preserving input order. The i-th string belongs to the i-th line; a line
// that reads as nothing yields an empty string, never a gap. With no lines,
// no recognizer is invoked.
func (c *Cascade) RecognizeAll(lines []layout.Line, crops []image.Image) ([]string, error) {
	if len(lines) != len(crops) {
		return nil, fmt.Errorf("line/crop count mismatch: %d vs %d", len(lines), len(crops))
	}
	texts := make([]string, len(lines))
	for i, line := range lines {
		crop := crops[i]
		if line.Vertical() {
			// Recognizer inputs are horizontal; vertical columns are read
			// rotated a quarter turn.
			crop = imaging.Rotate90(crop)
		}
		res, err := c.recognizeOne(line.PredChars, crop)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		texts[i] = res.Text
	}
	return texts, nil
}

// recognizeOne routes a single crop through the cascade.
func (c *Cascade) recognizeOne(predChars float64, crop image.Image) (Result, error) {
	start := c.entryLevel(predChars)
	best, err := c.levels[start].Recognize(crop)
	if err != nil {
		return Result{}, err
	}
	for next := start + 1; next < len(c.levels) && best.Confidence < c.threshold; next++ {
		escalated, err := c.levels[next].Recognize(crop)
		if err != nil {
			return Result{}, err
		}
		slog.Debug("cascade escalated",
			"from_capacity", c.levels[next-1].MaxChars(),
			"to_capacity", c.levels[next].MaxChars(),
			"confidence", best.Confidence)
		if escalated.Confidence > best.Confidence {
			best = escalated
		}
	}
	return best, nil
}

// entryLevel picks the smallest recognizer whose capacity covers the
// predicted character count.
func (c *Cascade) entryLevel(predChars float64) int {
	for i, r := range c.levels {
		if predChars <= float64(r.MaxChars()) {
			return i
		}
	}
	return len(c.levels) - 1
}
