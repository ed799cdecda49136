package recognizer

import (
	"errors"
	"image"
	"testing"

	"github.com/yomitoru/yomitoru/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecognizer records invocations and returns canned results.
type fakeRecognizer struct {
	capacity   int
	text       string
	confidence float64
	err        error
	calls      int
}

func (f *fakeRecognizer) Recognize(img image.Image) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{Text: f.text, Confidence: f.confidence}, nil
}

func (f *fakeRecognizer) MaxChars() int { return f.capacity }

func crops(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = image.NewNRGBA(image.Rect(0, 0, 100, 20))
	}
	return out
}

func TestNewCascadeRequiresLevels(t *testing.T) {
	_, err := NewCascade(0.9)
	assert.Error(t, err)
}

func TestCascadeRoutesByPredictedChars(t *testing.T) {
	small := &fakeRecognizer{capacity: 30, text: "small", confidence: 0.99}
	medium := &fakeRecognizer{capacity: 50, text: "medium", confidence: 0.99}
	large := &fakeRecognizer{capacity: 100, text: "large", confidence: 0.99}
	c, err := NewCascade(0.9, large, small, medium) // constructor sorts
	require.NoError(t, err)

	lines := []layout.Line{
		{Width: 100, Height: 20, PredChars: 10},
		{Width: 100, Height: 20, PredChars: 40},
		{Width: 100, Height: 20, PredChars: 80},
		{Width: 100, Height: 20, PredChars: 500}, // beyond all capacities: largest
	}
	texts, err := c.RecognizeAll(lines, crops(4))
	require.NoError(t, err)
	assert.Equal(t, []string{"small", "medium", "large", "large"}, texts)
	assert.Equal(t, 1, small.calls)
	assert.Equal(t, 1, medium.calls)
	assert.Equal(t, 2, large.calls)
}

func TestCascadeEscalatesOnLowConfidence(t *testing.T) {
	small := &fakeRecognizer{capacity: 30, text: "fuzzy", confidence: 0.3}
	large := &fakeRecognizer{capacity: 100, text: "clear", confidence: 0.95}
	c, err := NewCascade(0.9, small, large)
	require.NoError(t, err)

	texts, err := c.RecognizeAll(
		[]layout.Line{{Width: 100, Height: 20, PredChars: 5}}, crops(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"clear"}, texts)
	assert.Equal(t, 1, small.calls)
	assert.Equal(t, 1, large.calls)
}

func TestCascadeKeepsBetterResultWhenEscalationIsWorse(t *testing.T) {
	small := &fakeRecognizer{capacity: 30, text: "first", confidence: 0.8}
	large := &fakeRecognizer{capacity: 100, text: "worse", confidence: 0.2}
	c, err := NewCascade(0.9, small, large)
	require.NoError(t, err)

	texts, err := c.RecognizeAll(
		[]layout.Line{{Width: 100, Height: 20, PredChars: 5}}, crops(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, texts)
}

func TestCascadeNoEscalationAboveThreshold(t *testing.T) {
	small := &fakeRecognizer{capacity: 30, text: "good", confidence: 0.95}
	large := &fakeRecognizer{capacity: 100, text: "unused", confidence: 0.99}
	c, err := NewCascade(0.9, small, large)
	require.NoError(t, err)

	_, err = c.RecognizeAll(
		[]layout.Line{{Width: 100, Height: 20, PredChars: 5}}, crops(1))
	require.NoError(t, err)
	assert.Zero(t, large.calls)
}

func TestCascadeEmptyInputInvokesNothing(t *testing.T) {
	small := &fakeRecognizer{capacity: 30}
	c, err := NewCascade(0.9, small)
	require.NoError(t, err)

	texts, err := c.RecognizeAll(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, texts)
	assert.Zero(t, small.calls)
}

func TestCascadeOrderPreservedAndLengthMatches(t *testing.T) {
	rec := &fakeRecognizer{capacity: 100, confidence: 0.99}
	c, err := NewCascade(0.9, rec)
	require.NoError(t, err)

	lines := []layout.Line{
		{Width: 100, Height: 20, PredChars: 1},
		{Width: 100, Height: 20, PredChars: 2},
		{Width: 100, Height: 20, PredChars: 3},
	}
	texts, err := c.RecognizeAll(lines, crops(3))
	require.NoError(t, err)
	assert.Len(t, texts, len(lines))
}

func TestCascadePropagatesRecognizerError(t *testing.T) {
	rec := &fakeRecognizer{capacity: 100, err: errors.New("inference failed")}
	c, err := NewCascade(0.9, rec)
	require.NoError(t, err)

	_, err = c.RecognizeAll(
		[]layout.Line{{Width: 100, Height: 20, PredChars: 5}}, crops(1))
	assert.Error(t, err)
}

func TestCascadeCropCountMismatch(t *testing.T) {
	rec := &fakeRecognizer{capacity: 100}
	c, err := NewCascade(0.9, rec)
	require.NoError(t, err)

	_, err = c.RecognizeAll(
		[]layout.Line{{Width: 100, Height: 20}}, nil)
	assert.Error(t, err)
}
