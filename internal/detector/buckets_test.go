package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketizeAllClassKeysPresent(t *testing.T) {
	b := Bucketize(nil)
	assert.Empty(t, b.Text)
	require.Len(t, b.ByClass, NumClasses)
	for i := range NumClasses {
		require.Contains(t, b.ByClass, i)
		assert.Empty(t, b.ByClass[i])
	}
}

func TestBucketizeClassZeroDoubleRecorded(t *testing.T) {
	dets := []Detection{
		{Box: Box{XMin: 1, YMin: 2, XMax: 3, YMax: 4}, ClassIndex: 0, Confidence: 0.9},
	}
	b := Bucketize(dets)
	require.Len(t, b.Text, 1)
	assert.Equal(t, Box{XMin: 1, YMin: 2, XMax: 3, YMax: 4}, b.Text[0])
	require.Len(t, b.ByClass[0], 1)
	assert.Equal(t, 0.9, b.ByClass[0][0].Confidence)
}

func TestBucketizeNonZeroClasses(t *testing.T) {
	dets := []Detection{
		{Box: Box{XMax: 10, YMax: 10}, ClassIndex: 3, Confidence: 0.7},
		{Box: Box{XMax: 20, YMax: 20}, ClassIndex: 16, Confidence: 0.5},
	}
	b := Bucketize(dets)
	assert.Empty(t, b.Text)
	assert.Len(t, b.ByClass[3], 1)
	assert.Len(t, b.ByClass[16], 1)
}

func TestBucketizePreservesInsertionOrder(t *testing.T) {
	dets := []Detection{
		{Box: Box{XMin: 30}, ClassIndex: 0, Confidence: 0.1},
		{Box: Box{XMin: 10}, ClassIndex: 0, Confidence: 0.2},
		{Box: Box{XMin: 20}, ClassIndex: 0, Confidence: 0.3},
	}
	b := Bucketize(dets)
	require.Len(t, b.Text, 3)
	assert.Equal(t, 30.0, b.Text[0].XMin)
	assert.Equal(t, 10.0, b.Text[1].XMin)
	assert.Equal(t, 20.0, b.Text[2].XMin)
	assert.Equal(t, 0.1, b.ByClass[0][0].Confidence)
	assert.Equal(t, 0.3, b.ByClass[0][2].Confidence)
}

func TestBucketizeIgnoresOutOfRangeClass(t *testing.T) {
	dets := []Detection{
		{Box: Box{XMax: 5}, ClassIndex: 17, Confidence: 0.9},
		{Box: Box{XMax: 5}, ClassIndex: -1, Confidence: 0.9},
	}
	b := Bucketize(dets)
	for i := range NumClasses {
		assert.Empty(t, b.ByClass[i])
	}
}
