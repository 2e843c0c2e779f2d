package classify

import "github.com/ayusman/mudra/internal/landmark"

// Mock is the terminal fallback backend. It recognizes every usable landmark
// array as the same fixed gesture so the rest of the system stays exercisable
// without trained weights.
type Mock struct {
	label      string
	confidence float64
}

// NewMock creates the fixed-output backend.
func NewMock() *Mock {
	return &Mock{label: "hello", confidence: 0.8}
}

// Classify returns the fixed prediction for any landmark array of a
// supported shape.
func (m *Mock) Classify(landmarks []float64) (*Prediction, error) {
	switch len(landmarks) {
	case 0:
		return nil, nil
	case landmark.SingleHandLen, landmark.DualHandLen:
		return &Prediction{Label: m.label, Confidence: m.confidence}, nil
	default:
		return nil, &landmark.LengthError{Got: len(landmarks)}
	}
}

// Kind reports the mock backend tag.
func (m *Mock) Kind() Kind {
	return KindMock
}

// Reset is a no-op.
func (m *Mock) Reset() {}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}
