package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextEmpty(t *testing.T) {
	assert.Empty(t, CleanText(""))
}

func TestCleanTextNFKCFoldsFullWidth(t *testing.T) {
	assert.Equal(t, "ABC123", CleanText("ＡＢＣ１２３"))
}

func TestCleanTextStripsControlAndZeroWidth(t *testing.T) {
	assert.Equal(t, "ab", CleanText("a​b"))
	assert.Equal(t, "ab", CleanText("a‌b‍"))
	assert.Equal(t, "ab", CleanText("a\uFEFFb"))
	assert.Equal(t, "ab", CleanText("a\x00b\x1f"))
}

func TestCleanTextTrimsButKeepsInterior(t *testing.T) {
	assert.Equal(t, "日本 語", CleanText("  日本 語  "))
}
