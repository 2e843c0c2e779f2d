// Package landmark shapes raw hand-landmark arrays into canonical per-hand
// coordinate matrices following the MediaPipe 21-point convention.
package landmark

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Flat array lengths accepted from a landmark detector. These are the only
// two supported shapes; anything else is a malformed payload.
const (
	SingleHandLen = NumLandmarks * 2     // one hand, (x, y) pairs
	DualHandLen   = 2 * NumLandmarks * 3 // two hands, (x, y, z) triples
)

// FingertipIndices lists the five fingertip landmarks, thumb to pinky.
var FingertipIndices = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// FingerBaseIndices lists the matching finger-base landmarks, thumb to pinky.
var FingerBaseIndices = [5]int{ThumbMCP, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// PalmIndices lists the landmarks whose mean position approximates the palm centre.
var PalmIndices = [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Point2D represents a point in the normalized image plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D represents a point with x, y image coordinates and relative depth z.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand2D is one hand as 21 image-plane points.
type Hand2D [NumLandmarks]Point2D

// Hand3D is one hand as 21 points with relative depth.
type Hand3D [NumLandmarks]Point3D

// LengthError reports a flat landmark array whose length matches no supported
// shape. Callers that only care about "usable or not" may treat it the same as
// an absent detection; the type keeps the two cases distinguishable.
type LengthError struct {
	Got int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("landmark: unsupported array length %d (want %d or %d)", e.Got, SingleHandLen, DualHandLen)
}

// SingleHand shapes a flat landmark array into one hand of (x, y) points.
// A 126-length array keeps only the first hand and drops depth. A nil or
// empty array means no hands were detected and yields (nil, nil); any other
// length yields a *LengthError.
func SingleHand(flat []float64) (*Hand2D, error) {
	switch len(flat) {
	case 0:
		return nil, nil
	case SingleHandLen:
		var h Hand2D
		for i := 0; i < NumLandmarks; i++ {
			h[i] = Point2D{X: flat[i*2], Y: flat[i*2+1]}
		}
		return &h, nil
	case DualHandLen:
		// First hand only, x and y from each (x, y, z) triple.
		var h Hand2D
		for i := 0; i < NumLandmarks; i++ {
			h[i] = Point2D{X: flat[i*3], Y: flat[i*3+1]}
		}
		return &h, nil
	default:
		return nil, &LengthError{Got: len(flat)}
	}
}

// DualHand shapes a flat landmark array into two hands of (x, y, z) points.
// A 42-length array is expanded by copying the single hand into both slots
// with depth zero. A nil or empty array yields (nil, nil); any other length
// yields a *LengthError.
func DualHand(flat []float64) (*[2]Hand3D, error) {
	switch len(flat) {
	case 0:
		return nil, nil
	case SingleHandLen:
		var hands [2]Hand3D
		for i := 0; i < NumLandmarks; i++ {
			p := Point3D{X: flat[i*2], Y: flat[i*2+1]}
			hands[0][i] = p
			hands[1][i] = p
		}
		return &hands, nil
	case DualHandLen:
		var hands [2]Hand3D
		for hi := 0; hi < 2; hi++ {
			base := hi * NumLandmarks * 3
			for i := 0; i < NumLandmarks; i++ {
				off := base + i*3
				hands[hi][i] = Point3D{X: flat[off], Y: flat[off+1], Z: flat[off+2]}
			}
		}
		return &hands, nil
	default:
		return nil, &LengthError{Got: len(flat)}
	}
}

// WristRelative returns a copy of the hand translated so the wrist sits at
// the origin. This removes absolute hand position before feature extraction.
func (h *Hand2D) WristRelative() *Hand2D {
	if h == nil {
		return nil
	}
	wrist := h[Wrist]
	var out Hand2D
	for i := 0; i < NumLandmarks; i++ {
		out[i] = Point2D{X: h[i].X - wrist.X, Y: h[i].Y - wrist.Y}
	}
	return &out
}

// WristRelative returns a copy of the hand translated so the wrist sits at
// the origin.
func (h *Hand3D) WristRelative() *Hand3D {
	if h == nil {
		return nil
	}
	wrist := h[Wrist]
	var out Hand3D
	for i := 0; i < NumLandmarks; i++ {
		out[i] = Point3D{X: h[i].X - wrist.X, Y: h[i].Y - wrist.Y, Z: h[i].Z - wrist.Z}
	}
	return &out
}

// IsZero reports whether every landmark of the hand is at the origin, the
// convention detectors use for an absent hand slot in a two-hand array.
func (h *Hand3D) IsZero() bool {
	if h == nil {
		return true
	}
	for i := 0; i < NumLandmarks; i++ {
		if h[i].X != 0 || h[i].Y != 0 || h[i].Z != 0 {
			return false
		}
	}
	return true
}
