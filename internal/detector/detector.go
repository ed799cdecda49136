// Package detector defines the layout detection contract, the class-bucketing
// of raw detections, and an ONNX Runtime backed implementation.
package detector

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// NumClasses is the number of layout classes produced by the detector.
// Class 0 is the generic text-line region.
const NumClasses = 17

// Box is an axis-aligned bounding box in page pixel coordinates.
type Box struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Height returns the box height.
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Detection is one candidate layout region. Immutable once produced.
type Detection struct {
	Box        Box
	ClassIndex int
	Confidence float64
}

// Detector locates layout regions in a page image. Implementations must be
// safe for concurrent read-only inference.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
	// Classes returns the class-index ordered class names.
	Classes() []string
}

// classMapping mirrors the detector's class-mapping YAML file.
type classMapping struct {
	Names map[int]string `yaml:"names"`
}

// LoadClassNames reads the class-mapping YAML and returns names ordered by
// class index.
func LoadClassNames(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: configured mapping path is expected
	if err != nil {
		return nil, fmt.Errorf("read class mapping: %w", err)
	}
	var m classMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse class mapping %s: %w", path, err)
	}
	if len(m.Names) == 0 {
		return nil, errors.New("class mapping has no names")
	}
	indices := make([]int, 0, len(m.Names))
	for idx := range m.Names {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	names := make([]string, 0, len(indices))
	for _, idx := range indices {
		names = append(names, m.Names[idx])
	}
	return names, nil
}
