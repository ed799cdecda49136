package recognizer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/yomitoru/yomitoru/internal/onnx"

	onnxrt "github.com/yalue/onnxruntime_go"
)

// Config holds configuration for one ONNX text recognizer.
type Config struct {
	ModelPath   string
	Charset     []rune
	ImageHeight int // model input height, e.g. 16
	ImageWidth  int // model input width, e.g. 256/384/768
	Capacity    int // longest line in characters, e.g. 30/50/100
	NumThreads  int
}

// PARSeq is an autoregressive scene-text recognizer backed by ONNX Runtime.
// The model consumes a fixed HxW line image and emits per-step logits over
// the charset, with class 0 reserved for end-of-sequence.
type PARSeq struct {
	cfg     Config
	session *onnxrt.DynamicAdvancedSession
	inputs  []string
	outputs []string
	mu      sync.RWMutex
}

// NewPARSeq loads a recognizer model.
func NewPARSeq(cfg Config) (*PARSeq, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("recognizer model path is empty")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("recognizer model not found: %s", cfg.ModelPath)
	}
	if len(cfg.Charset) == 0 {
		return nil, errors.New("recognizer charset is empty")
	}
	if cfg.ImageHeight <= 0 || cfg.ImageWidth <= 0 {
		return nil, errors.New("recognizer input dimensions must be > 0")
	}
	if cfg.Capacity <= 0 {
		return nil, errors.New("recognizer capacity must be > 0")
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

	slog.Debug("recognizer initialized",
		"model_path", cfg.ModelPath,
		"capacity", cfg.Capacity,
		"input", fmt.Sprintf("%dx%d", cfg.ImageHeight, cfg.ImageWidth))

	return &PARSeq{cfg: cfg, session: session, inputs: inputs, outputs: outputs}, nil
}

// MaxChars returns the recognizer's length capacity.
func (p *PARSeq) MaxChars() int { return p.cfg.Capacity }

// Close releases the ONNX session.
func (p *PARSeq) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		if err := p.session.Destroy(); err != nil {
			return fmt.Errorf("destroy recognizer session: %w", err)
		}
		p.session = nil
	}
	return nil
}

// Recognize reads the text in a single line image.
func (p *PARSeq) Recognize(img image.Image) (Result, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()
	if session == nil {
		return Result{}, errors.New("recognizer is closed")
	}
	if img == nil {
		return Result{}, errors.New("input image is nil")
	}

	tensor, err := onnx.ImageToTensor(img, p.cfg.ImageWidth, p.cfg.ImageHeight)
	if err != nil {
		return Result{}, fmt.Errorf("preprocess recognizer input: %w", err)
	}
	input, err := onnxrt.NewTensor(onnxrt.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return Result{}, fmt.Errorf("create input tensor: %w", err)
	}
	defer func() { _ = input.Destroy() }()

	outputs := make([]onnxrt.Value, len(p.outputs))
	if err := session.Run([]onnxrt.Value{input}, outputs); err != nil {
		return Result{}, fmt.Errorf("recognizer inference: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				_ = o.Destroy()
			}
		}
	}()

	logits, ok := outputs[0].(*onnxrt.Tensor[float32])
	if !ok {
		return Result{}, fmt.Errorf("unsupported recognizer output type %T", outputs[0])
	}
	shape := logits.GetShape()
	if len(shape) != 3 {
		return Result{}, fmt.Errorf("unexpected logits rank %d", len(shape))
	}
	steps, classes := int(shape[1]), int(shape[2])
	return p.decode(logits.GetData(), steps, classes), nil
}

// decode performs greedy decoding over per-step logits. Class 0 is
// end-of-sequence; classes 1..len(charset) map onto the charset. Confidence
// is the mean softmax probability of the emitted characters.
func (p *PARSeq) decode(logits []float32, steps, classes int) Result {
	var runes []rune
	var probSum float64
	for t := range steps {
		row := logits[t*classes : (t+1)*classes]
		best, prob := argmaxSoftmax(row)
		if best == 0 { // EOS
			break
		}
		if best-1 < len(p.cfg.Charset) {
			runes = append(runes, p.cfg.Charset[best-1])
			probSum += prob
		}
	}
	if len(runes) == 0 {
		return Result{Text: "", Confidence: 0}
	}
	return Result{Text: string(runes), Confidence: probSum / float64(len(runes))}
}

func argmaxSoftmax(row []float32) (int, float64) {
	best := 0
	maxLogit := row[0]
	for i, v := range row {
		if v > maxLogit {
			maxLogit = v
			best = i
		}
	}
	var denom float64
	for _, v := range row {
		denom += math.Exp(float64(v - maxLogit))
	}
	return best, 1 / denom
}
