package recognizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCharset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCharset(t *testing.T) {
	path := writeCharset(t, `
model:
  charset_train: "あいう"
`)
	cs, err := LoadCharset(path)
	require.NoError(t, err)
	assert.Equal(t, []rune("あいう"), cs)
}

func TestLoadCharsetMissingFile(t *testing.T) {
	_, err := LoadCharset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadCharsetEmpty(t *testing.T) {
	path := writeCharset(t, "model: {}\n")
	_, err := LoadCharset(path)
	assert.Error(t, err)
}

func TestNewPARSeqValidation(t *testing.T) {
	_, err := NewPARSeq(Config{})
	assert.Error(t, err)

	_, err = NewPARSeq(Config{ModelPath: filepath.Join(t.TempDir(), "missing.onnx")})
	assert.Error(t, err)
}

func TestDecodeGreedyStopsAtEOS(t *testing.T) {
	p := &PARSeq{cfg: Config{Charset: []rune("ab")}}
	// 3 steps x 3 classes (EOS, 'a', 'b'). Step logits: 'a', 'b', EOS.
	logits := []float32{
		0, 10, 0,
		0, 0, 10,
		10, 0, 0,
	}
	res := p.decode(logits, 3, 3)
	assert.Equal(t, "ab", res.Text)
	assert.Greater(t, res.Confidence, 0.9)
}

func TestDecodeEmptySequence(t *testing.T) {
	p := &PARSeq{cfg: Config{Charset: []rune("ab")}}
	logits := []float32{10, 0, 0}
	res := p.decode(logits, 1, 3)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.Confidence)
}
