// Package classify maps hand-landmark arrays to gesture predictions. Three
// interchangeable backends sit behind one interface: a geometric single-frame
// model, a sequence model that votes over a window of frames, and a fixed
// mock used when no trained weights are available.
package classify

// Kind identifies which prediction backend a classifier runs. The resolved
// kind is recorded when a backend is selected and drives diagnostics only;
// callers never branch on it for prediction logic.
type Kind int

const (
	KindGeometric Kind = iota
	KindSequence
	KindMock
)

func (k Kind) String() string {
	switch k {
	case KindGeometric:
		return "geometric"
	case KindSequence:
		return "sequence"
	case KindMock:
		return "mock"
	}
	return "unknown"
}

// UnknownLabel is emitted when a model scores a class index that is missing
// from its label mapping.
const UnknownLabel = "Unknown"

// DefaultThreshold is the minimum confidence a prediction needs before it is
// emitted at all.
const DefaultThreshold = 0.5

// Prediction is one recognized gesture. Instances are immutable once
// returned and never persisted by the classifier.
type Prediction struct {
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Smoothed      bool               `json:"smoothed,omitempty"`
}

// Classifier turns a flat landmark array (length 42 or 126) into a gesture
// prediction. A (nil, nil) return means nothing was recognized this frame;
// an error reports a malformed input or backend failure, which callers on
// the frame path log and treat the same as no detection. Implementations
// assume a single caller; they are not safe for concurrent use.
type Classifier interface {
	Classify(landmarks []float64) (*Prediction, error)
	Kind() Kind
	Reset()
	Close() error
}
