package pipeline

import (
	"testing"

	"github.com/yomitoru/yomitoru/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(x, y, w, h int) layout.Line {
	return layout.Line{X: x, Y: y, Width: w, Height: h, PredChars: 10, Confidence: 0.9}
}

func TestAssemblePageCorners(t *testing.T) {
	page := assemblePage(800, 600, []layout.Line{mustLine(10, 20, 100, 30)}, []string{"abc"})

	require.Len(t, page.Contents, 1)
	line := page.Contents[0]
	assert.Equal(t, [4][2]int{{10, 20}, {10, 50}, {110, 20}, {110, 50}}, line.BoundingBox)
	assert.Equal(t, 0, line.ID)
	assert.Equal(t, "abc", line.Text)
	assert.Equal(t, "true", line.IsVertical)
	assert.Equal(t, "true", line.IsTextline)
	assert.InDelta(t, 0.9, line.Confidence, 1e-9)
	assert.Equal(t, 800, page.ImgInfo.Width)
	assert.Equal(t, 600, page.ImgInfo.Height)
}

func TestAssemblePageJoinsTexts(t *testing.T) {
	lines := []layout.Line{mustLine(0, 0, 100, 20), mustLine(0, 30, 100, 20)}
	page := assemblePage(200, 100, lines, []string{"first", "second"})
	assert.Equal(t, "first\nsecond", page.Text)
	assert.Equal(t, 0, page.Contents[0].ID)
	assert.Equal(t, 1, page.Contents[1].ID)
}

func TestAssemblePageMissingTextIsEmpty(t *testing.T) {
	lines := []layout.Line{mustLine(0, 0, 100, 20), mustLine(0, 30, 100, 20)}
	page := assemblePage(200, 100, lines, []string{"only"})
	assert.Equal(t, "only", page.Contents[0].Text)
	assert.Equal(t, "", page.Contents[1].Text)
	assert.Equal(t, "only\n", page.Text)
}

func TestAssemblePageVerticalMajority(t *testing.T) {
	// Two of three lines are taller than wide; the reversal of the single
	// joined block leaves the text unchanged.
	lines := []layout.Line{mustLine(0, 0, 20, 200), mustLine(40, 0, 20, 200), mustLine(0, 220, 200, 20)}
	page := assemblePage(300, 300, lines, []string{"a", "b", "c"})
	assert.Equal(t, "a\nb\nc", page.Text)
}

func TestAssemblePageNormalizesText(t *testing.T) {
	page := assemblePage(100, 100, []layout.Line{mustLine(0, 0, 100, 20)}, []string{" ＡＢ​ "})
	assert.Equal(t, "AB", page.Contents[0].Text)
}

func TestAssemblePageEmpty(t *testing.T) {
	page := assemblePage(100, 100, nil, nil)
	assert.Empty(t, page.Contents)
	assert.Equal(t, "", page.Text)
}
