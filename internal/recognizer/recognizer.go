// Package recognizer converts cropped line images into text via a cascade of
// recognizers of increasing length capacity.
package recognizer

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// Result is the outcome of recognizing one line image.
type Result struct {
	Text       string
	Confidence float64
}

// Recognizer converts a line image into a text string. Implementations must
// be safe for concurrent read-only inference.
type Recognizer interface {
	Recognize(img image.Image) (Result, error)
	// MaxChars is the capacity of this recognizer: the longest line, in
	// characters, it is trained to read.
	MaxChars() int
}

// charsetFile mirrors the charset YAML layout: the character vocabulary
// lives under model.charset_train as one string.
type charsetFile struct {
	Model struct {
		CharsetTrain string `yaml:"charset_train"`
	} `yaml:"model"`
}

// LoadCharset reads the character vocabulary from a YAML file. Index order
// defines the model's class order.
func LoadCharset(path string) ([]rune, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: configured charset path is expected
	if err != nil {
		return nil, fmt.Errorf("read charset: %w", err)
	}
	var f charsetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse charset %s: %w", path, err)
	}
	if f.Model.CharsetTrain == "" {
		return nil, errors.New("charset file has no characters")
	}
	return []rune(f.Model.CharsetTrain), nil
}
