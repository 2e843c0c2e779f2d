package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a canned implementation of the Detector interface. Tests
// and camera-less deployments script its output.
type MockDetector struct {
	mu        sync.Mutex
	landmarks []float64
	queue     [][]float64
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLandmarks sets the flat landmark array that Detect returns.
func (m *MockDetector) SetLandmarks(landmarks []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.landmarks = landmarks
}

// QueueLandmarks appends per-frame results. Detect consumes the queue in
// order before falling back to the fixed landmarks.
func (m *MockDetector) QueueLandmarks(frames ...[]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured landmarks or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.landmarks, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
