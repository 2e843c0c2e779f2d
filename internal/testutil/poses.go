// Package testutil provides hand-pose landmark fixtures shared across tests.
// Each pose is a flat 42-length array (21 MediaPipe landmarks as x, y pairs in
// normalized image coordinates) with the wrist at (0.5, 0.8) and the fingers
// pointing up (y decreases toward the top of the frame).
package testutil

// numLandmarks matches the MediaPipe hand skeleton.
const numLandmarks = 21

func flatten(points [numLandmarks][2]float64) []float64 {
	flat := make([]float64, 0, numLandmarks*2)
	for _, p := range points {
		flat = append(flat, p[0], p[1])
	}
	return flat
}

// OpenPalm returns a pose with all five fingers extended.
func OpenPalm() []float64 {
	return flatten([numLandmarks][2]float64{
		{0.50, 0.80}, // wrist
		{0.55, 0.75}, {0.62, 0.70}, {0.68, 0.65}, {0.73, 0.60}, // thumb
		{0.55, 0.68}, {0.57, 0.55}, {0.58, 0.45}, {0.58, 0.35}, // index
		{0.50, 0.66}, {0.50, 0.52}, {0.50, 0.40}, {0.50, 0.28}, // middle
		{0.45, 0.68}, {0.43, 0.55}, {0.42, 0.45}, {0.42, 0.35}, // ring
		{0.40, 0.70}, {0.37, 0.60}, {0.35, 0.50}, {0.34, 0.42}, // pinky
	})
}

// Fist returns a fully closed pose: every fingertip curled back toward the
// palm, so all fingertip distances from the wrist are small and similar.
func Fist() []float64 {
	return flatten([numLandmarks][2]float64{
		{0.50, 0.80}, // wrist
		{0.55, 0.75}, {0.56, 0.70}, {0.54, 0.68}, {0.50, 0.68}, // thumb
		{0.55, 0.70}, {0.55, 0.68}, {0.52, 0.70}, {0.50, 0.72}, // index
		{0.50, 0.68}, {0.50, 0.66}, {0.47, 0.68}, {0.45, 0.70}, // middle
		{0.45, 0.70}, {0.45, 0.68}, {0.42, 0.70}, {0.40, 0.72}, // ring
		{0.40, 0.72}, {0.40, 0.70}, {0.37, 0.72}, {0.35, 0.74}, // pinky
	})
}

// ThumbsUp returns a pose with the thumb extended upward and the remaining
// fingers curled.
func ThumbsUp() []float64 {
	return flatten([numLandmarks][2]float64{
		{0.50, 0.80}, // wrist
		{0.55, 0.75}, {0.58, 0.65}, {0.58, 0.50}, {0.58, 0.35}, // thumb
		{0.55, 0.70}, {0.55, 0.68}, {0.52, 0.70}, {0.50, 0.72}, // index
		{0.50, 0.68}, {0.50, 0.66}, {0.47, 0.68}, {0.45, 0.70}, // middle
		{0.45, 0.70}, {0.45, 0.68}, {0.42, 0.70}, {0.40, 0.72}, // ring
		{0.40, 0.72}, {0.40, 0.70}, {0.37, 0.72}, {0.35, 0.74}, // pinky
	})
}

// ILoveYou returns the ASL "I love you" pose: thumb, index, and pinky
// extended with middle and ring curled.
func ILoveYou() []float64 {
	return flatten([numLandmarks][2]float64{
		{0.50, 0.80}, // wrist
		{0.55, 0.75}, {0.62, 0.70}, {0.68, 0.65}, {0.73, 0.60}, // thumb
		{0.55, 0.68}, {0.57, 0.55}, {0.58, 0.45}, {0.58, 0.35}, // index
		{0.50, 0.66}, {0.50, 0.64}, {0.47, 0.66}, {0.45, 0.68}, // middle
		{0.45, 0.68}, {0.45, 0.66}, {0.42, 0.68}, {0.40, 0.70}, // ring
		{0.40, 0.70}, {0.37, 0.60}, {0.35, 0.50}, {0.34, 0.42}, // pinky
	})
}

// Mirror flips a 42-length pose around the vertical image centreline,
// turning a right-hand pose into a left-hand one.
func Mirror(pose []float64) []float64 {
	out := make([]float64, len(pose))
	for i := 0; i < len(pose); i += 2 {
		out[i] = 1 - pose[i]
		if i+1 < len(pose) {
			out[i+1] = pose[i+1]
		}
	}
	return out
}

// TwoHands combines two 42-length poses into one 126-length two-hand array
// with zero depth. Pass nil for the second pose to leave that slot zeroed,
// the convention detectors use for an absent hand.
func TwoHands(first, second []float64) []float64 {
	flat := make([]float64, 2*numLandmarks*3)
	fill := func(slot int, pose []float64) {
		if pose == nil {
			return
		}
		base := slot * numLandmarks * 3
		for i := 0; i < numLandmarks; i++ {
			flat[base+i*3] = pose[i*2]
			flat[base+i*3+1] = pose[i*2+1]
		}
	}
	fill(0, first)
	fill(1, second)
	return flat
}
