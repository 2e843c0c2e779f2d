// Package detector extracts hand landmarks from video frames. The real
// implementation talks to a MediaPipe subprocess; a mock stands in when no
// camera or Python environment is available.
package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark extraction.
type Detector interface {
	// Detect analyzes a video frame and returns hand landmarks as a flat
	// coordinate array: 42 values (x,y per landmark) for one hand, 126
	// values (x,y,z per landmark, two hands) when both hands are visible.
	// Returns nil when no hands are detected.
	Detect(frame *gocv.Mat) ([]float64, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to report (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	// Hands scored below it are dropped.
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
