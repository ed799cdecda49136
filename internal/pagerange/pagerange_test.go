package pagerange

import (
	"testing"

	"github.com/yomitoru/yomitoru/internal/faults"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEmptyMeansAllPages(t *testing.T) {
	got, err := Select("", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)

	got, err = Select("", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectSinglePages(t *testing.T) {
	got, err := Select("1,3,5", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, got)
}

func TestSelectRange(t *testing.T) {
	got, err := Select("2-4", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSelectMixedAndDeduplicated(t *testing.T) {
	got, err := Select("3,1-3,2", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestSelectOutOfRangeDroppedSilently(t *testing.T) {
	got, err := Select("0,1,99", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)

	got, err = Select("5-9", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectInvertedRangeIsEmpty(t *testing.T) {
	got, err := Select("2-1", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectRangeClampedToDocument(t *testing.T) {
	got, err := Select("2-99", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSelectMalformedTokens(t *testing.T) {
	for _, expr := range []string{"abc", "1,x", "a-3", "1-b"} {
		_, err := Select(expr, 10)
		require.Error(t, err, "expr %q", expr)
		assert.True(t, faults.IsUserInput(err), "expr %q", expr)
	}
}

func TestSelectOutputSortedAscending(t *testing.T) {
	got, err := Select("9,1,5,3", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 8}, got)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,3,5", Format([]int{0, 2, 4}))
	assert.Empty(t, Format(nil))
}
