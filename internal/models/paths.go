// Package models resolves filesystem paths to the bundled model assets.
package models

import (
	"os"
	"path/filepath"
)

// Model and configuration asset names.
const (
	LayoutDetector = "deim-s-1024x1024.onnx"

	RecognizerShort  = "parseq-ndl-16x256-30.onnx"
	RecognizerMedium = "parseq-ndl-16x384-50.onnx"
	RecognizerLong   = "parseq-ndl-16x768-100.onnx"

	ClassMapping = "ndl.yaml"
	Charset      = "charset.yaml"
)

// DefaultModelsDir is the fallback models directory.
const DefaultModelsDir = "models"

// EnvModelsDir overrides the models directory.
const EnvModelsDir = "YOMITORU_MODELS_DIR"

// GetModelsDir returns dir if non-empty, otherwise the environment override
// or the default.
func GetModelsDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv(EnvModelsDir); env != "" {
		return env
	}
	return DefaultModelsDir
}

// DetectorModelPath returns the layout detector model path.
func DetectorModelPath(modelsDir string) string {
	return filepath.Join(GetModelsDir(modelsDir), LayoutDetector)
}

// RecognizerModelPath returns the recognizer model path for the given asset
// name.
func RecognizerModelPath(modelsDir, name string) string {
	return filepath.Join(GetModelsDir(modelsDir), name)
}

// ClassMappingPath returns the detector class-mapping YAML path.
func ClassMappingPath(modelsDir string) string {
	return filepath.Join(GetModelsDir(modelsDir), ClassMapping)
}

// CharsetPath returns the recognizer charset YAML path.
func CharsetPath(modelsDir string) string {
	return filepath.Join(GetModelsDir(modelsDir), Charset)
}
