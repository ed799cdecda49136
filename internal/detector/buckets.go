package detector

// ScoredBox is a bounding box augmented with the detection confidence.
type ScoredBox struct {
	Box        Box
	Confidence float64
}

// Buckets groups detections by class index. All NumClasses keys are present
// even when empty. Class 0 is recorded twice: once as a plain box in Text
// (structural placement) and once with its confidence in ByClass (layout
// classification). Per-class insertion order follows the detection list.
type Buckets struct {
	Text    []Box
	ByClass map[int][]ScoredBox
}

// Bucketize groups raw detections into per-class buckets.
func Bucketize(detections []Detection) Buckets {
	b := Buckets{
		Text:    []Box{},
		ByClass: make(map[int][]ScoredBox, NumClasses),
	}
	for i := range NumClasses {
		b.ByClass[i] = []ScoredBox{}
	}
	for _, det := range detections {
		if det.ClassIndex < 0 || det.ClassIndex >= NumClasses {
			continue
		}
		if det.ClassIndex == 0 {
			b.Text = append(b.Text, det.Box)
		}
		b.ByClass[det.ClassIndex] = append(b.ByClass[det.ClassIndex], ScoredBox{
			Box:        det.Box,
			Confidence: det.Confidence,
		})
	}
	return b
}
