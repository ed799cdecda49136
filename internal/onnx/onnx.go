// Package onnx holds shared ONNX Runtime plumbing: environment setup,
// session construction and tensor helpers used by the detector and the
// recognizer cascade.
package onnx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yalue/onnxruntime_go"
)

const (
	libLinux  = "libonnxruntime.so"
	libDarwin = "libonnxruntime.dylib"
)

// EnvLibraryPath overrides the ONNX Runtime shared library location.
const EnvLibraryPath = "YOMITORU_ONNXRUNTIME_LIB"

func libraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return libLinux, nil
	case "darwin":
		return libDarwin, nil
	default:
		return "", fmt.Errorf("unsupported platform for ONNX Runtime: %s", runtime.GOOS)
	}
}

func trySetLibraryPath(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	onnxruntime_go.SetSharedLibraryPath(path)
	return true
}

// SetLibraryPath locates the ONNX Runtime shared library: explicit override
// first, then common system locations, then a project-relative bundle.
func SetLibraryPath() error {
	if p := os.Getenv(EnvLibraryPath); p != "" {
		if trySetLibraryPath(p) {
			return nil
		}
		return fmt.Errorf("ONNX Runtime library not found at %s", p)
	}

	name, err := libraryName()
	if err != nil {
		return err
	}
	for _, dir := range []string{"/usr/lib", "/usr/local/lib", "/opt/onnxruntime/lib"} {
		if trySetLibraryPath(filepath.Join(dir, name)) {
			return nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	libPath := filepath.Join(wd, "onnxruntime", "lib", name)
	if !trySetLibraryPath(libPath) {
		return fmt.Errorf("ONNX Runtime library not found at %s", libPath)
	}
	return nil
}

// InitializeEnvironment prepares the process-wide ONNX Runtime environment.
// Safe to call from multiple model constructors.
func InitializeEnvironment() error {
	if err := SetLibraryPath(); err != nil {
		return fmt.Errorf("set ONNX Runtime library path: %w", err)
	}
	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize ONNX Runtime: %w", err)
		}
	}
	return nil
}

// NewSession builds a DynamicAdvancedSession for the model at modelPath with
// the given input/output names and intra-op thread count (0 = runtime
// default).
func NewSession(modelPath string, inputs, outputs []string, numThreads int) (*onnxruntime_go.DynamicAdvancedSession, error) {
	opts, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer func() { _ = opts.Destroy() }()

	if numThreads > 0 {
		if err := opts.SetIntraOpNumThreads(numThreads); err != nil {
			return nil, fmt.Errorf("set thread count: %w", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(modelPath, inputs, outputs, opts)
	if err != nil {
		return nil, fmt.Errorf("create ONNX session for %s: %w", filepath.Base(modelPath), err)
	}
	return session, nil
}

// ModelIO inspects the model at modelPath and returns its input and output
// names in declared order.
func ModelIO(modelPath string) (inputs, outputs []string, err error) {
	inInfo, outInfo, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("inspect model %s: %w", filepath.Base(modelPath), err)
	}
	for _, in := range inInfo {
		inputs = append(inputs, in.Name)
	}
	for _, out := range outInfo {
		outputs = append(outputs, out.Name)
	}
	return inputs, outputs, nil
}
