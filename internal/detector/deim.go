package detector

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/yomitoru/yomitoru/internal/onnx"

	onnxrt "github.com/yalue/onnxruntime_go"
)

// Config holds configuration for the ONNX layout detector.
type Config struct {
	ModelPath        string
	ClassMappingPath string
	InputSize        int     // square model input edge, e.g. 1024
	ScoreThreshold   float64 // minimum confidence to keep a detection
	NumThreads       int     // intra-op threads (0 = runtime default)
}

// DefaultConfig returns a default detector configuration.
func DefaultConfig() Config {
	return Config{
		InputSize:      1024,
		ScoreThreshold: 0.2,
		NumThreads:     0,
	}
}

// DEIM is a DETR-style layout detector backed by ONNX Runtime. The model
// emits a fixed set of query results (labels, boxes, scores); no NMS is
// required. Safe for concurrent inference.
type DEIM struct {
	cfg     Config
	session *onnxrt.DynamicAdvancedSession
	inputs  []string
	outputs []string
	classes []string
	mu      sync.RWMutex
}

// NewDEIM loads the detector model and its class mapping.
func NewDEIM(cfg Config) (*DEIM, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("detector model path is empty")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("detector model not found: %s", cfg.ModelPath)
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = DefaultConfig().InputSize
	}

	classes, err := LoadClassNames(cfg.ClassMappingPath)
	if err != nil {
		return nil, err
	}

	if err := onnx.InitializeEnvironment(); err != nil {
		return nil, err
	}
	inputs, outputs, err := onnx.ModelIO(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	session, err := onnx.NewSession(cfg.ModelPath, inputs, outputs, cfg.NumThreads)
	if err != nil {
		return nil, err
	}

	slog.Debug("layout detector initialized",
		"model_path", cfg.ModelPath,
		"classes", len(classes),
		"input_size", cfg.InputSize)

	return &DEIM{cfg: cfg, session: session, inputs: inputs, outputs: outputs, classes: classes}, nil
}

// Classes returns class names ordered by class index.
func (d *DEIM) Classes() []string {
	out := make([]string, len(d.classes))
	copy(out, d.classes)
	return out
}

// Close releases the ONNX session.
func (d *DEIM) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		if err := d.session.Destroy(); err != nil {
			return fmt.Errorf("destroy detector session: %w", err)
		}
		d.session = nil
	}
	return nil
}

// Detect runs layout detection on img and returns regions in model output
// order, filtered by the score threshold, with boxes mapped back to img
// coordinates.
func (d *DEIM) Detect(img image.Image) ([]Detection, error) {
	d.mu.RLock()
	session := d.session
	d.mu.RUnlock()
	if session == nil {
		return nil, errors.New("detector is closed")
	}
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	size := d.cfg.InputSize
	tensor, err := onnx.ImageToTensor(img, size, size)
	if err != nil {
		return nil, fmt.Errorf("preprocess detector input: %w", err)
	}

	input, err := onnxrt.NewTensor(onnxrt.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer func() { _ = input.Destroy() }()

	outputs := make([]onnxrt.Value, len(d.outputs))
	if err := session.Run([]onnxrt.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("detector inference: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				_ = o.Destroy()
			}
		}
	}()

	labels, boxes, scores, err := decodeOutputs(outputs)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	scaleX := float64(bounds.Dx()) / float64(size)
	scaleY := float64(bounds.Dy()) / float64(size)

	detections := make([]Detection, 0, len(scores))
	for i, score := range scores {
		if score < d.cfg.ScoreThreshold {
			continue
		}
		detections = append(detections, Detection{
			Box: Box{
				XMin: boxes[i*4+0] * scaleX,
				YMin: boxes[i*4+1] * scaleY,
				XMax: boxes[i*4+2] * scaleX,
				YMax: boxes[i*4+3] * scaleY,
			},
			ClassIndex: labels[i],
			Confidence: score,
		})
	}
	return detections, nil
}

// decodeOutputs extracts (labels, boxes, scores) from the model's output
// values. Labels may be int64 or float32 depending on the export.
func decodeOutputs(outputs []onnxrt.Value) ([]int, []float64, []float64, error) {
	if len(outputs) < 3 {
		return nil, nil, nil, fmt.Errorf("detector produced %d outputs, want 3", len(outputs))
	}

	labels, err := intData(outputs[0])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode labels: %w", err)
	}
	boxes, err := floatData(outputs[1])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode boxes: %w", err)
	}
	scores, err := floatData(outputs[2])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode scores: %w", err)
	}
	if len(boxes) != 4*len(scores) || len(labels) != len(scores) {
		return nil, nil, nil, fmt.Errorf("inconsistent detector outputs: %d labels, %d box values, %d scores",
			len(labels), len(boxes), len(scores))
	}
	return labels, boxes, scores, nil
}

func intData(v onnxrt.Value) ([]int, error) {
	switch t := v.(type) {
	case *onnxrt.Tensor[int64]:
		data := t.GetData()
		out := make([]int, len(data))
		for i, d := range data {
			out[i] = int(d)
		}
		return out, nil
	case *onnxrt.Tensor[float32]:
		data := t.GetData()
		out := make([]int, len(data))
		for i, d := range data {
			out[i] = int(d)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported tensor type %T", v)
	}
}

func floatData(v onnxrt.Value) ([]float64, error) {
	t, ok := v.(*onnxrt.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unsupported tensor type %T", v)
	}
	data := t.GetData()
	out := make([]float64, len(data))
	for i, d := range data {
		out[i] = float64(d)
	}
	return out, nil
}
