// Package feature turns canonical hand-landmark matrices into fixed-length
// geometric feature vectors. All geometry is computed wrist-relative, so the
// vectors describe hand pose independent of where the hand sits in the frame.
package feature

import (
	"fmt"
	"math"
	"sort"

	"github.com/ayusman/mudra/internal/landmark"
)

// Vector widths per extractor variant. A trained model is only valid against
// the layout it was fit on, so these are part of the model contract.
const (
	SingleHandWidth = 16
	HandBlockWidth  = 50
	DualHandWidth   = 2 * HandBlockWidth
)

// Layout names recorded in model artifacts. A model artifact carries the
// layout it was trained against and is rejected when the widths disagree.
const (
	LayoutSingleHand = "single-hand-v1"
	LayoutDualHand   = "dual-hand-v1"
)

// LayoutWidth returns the vector width of a named layout, or 0 when the
// layout is unknown.
func LayoutWidth(layout string) int {
	switch layout {
	case LayoutSingleHand:
		return SingleHandWidth
	case LayoutDualHand:
		return DualHandWidth
	}
	return 0
}

// FromFlat extracts the feature vector of the given layout straight from a
// flat landmark array. Absent landmarks yield (nil, nil); a malformed array
// yields the normalizer's *landmark.LengthError.
func FromFlat(layout string, flat []float64) ([]float64, error) {
	switch layout {
	case LayoutSingleHand:
		hand, err := landmark.SingleHand(flat)
		if hand == nil || err != nil {
			return nil, err
		}
		return SingleHandVector(hand), nil
	case LayoutDualHand:
		hands, err := landmark.DualHand(flat)
		if hands == nil || err != nil {
			return nil, err
		}
		return DualHandVector(hands), nil
	default:
		return nil, fmt.Errorf("feature: unknown layout %q", layout)
	}
}

// SingleHandVector computes the compact 16-value description of one hand:
// five fingertip distances from the wrist, five extension ratios, four
// consecutive inter-fingertip angles, the palm orientation angle, and the
// thumb direction relative to the index fingertip.
func SingleHandVector(h *landmark.Hand2D) []float64 {
	if h == nil {
		return nil
	}
	rel := h.WristRelative()
	v := make([]float64, 0, SingleHandWidth)

	var tips [5]landmark.Point2D
	for i, idx := range landmark.FingertipIndices {
		tips[i] = rel[idx]
		v = append(v, norm2(tips[i]))
	}

	// How far each tip reaches past its finger base.
	for i, idx := range landmark.FingerBaseIndices {
		v = append(v, norm2(tips[i])/(norm2(rel[idx])+eps))
	}

	for i := 0; i < 4; i++ {
		v = append(v, angle2(tips[i], tips[i+1]))
	}

	mid := rel[landmark.MiddleMCP]
	v = append(v, math.Atan2(mid.Y, mid.X))

	v = append(v, math.Atan2(tips[0].Y-tips[1].Y, tips[0].X-tips[1].X))

	return v
}

// DualHandVector computes the rich 100-value description of a two-hand
// landmark set: a 50-value block per hand in slot order. An absent hand
// (all landmarks at the origin) contributes a zero block of the same width.
func DualHandVector(hands *[2]landmark.Hand3D) []float64 {
	if hands == nil {
		return nil
	}
	v := make([]float64, 0, DualHandWidth)
	for i := range hands {
		v = append(v, handBlock(&hands[i])...)
	}
	return v
}

// handBlock computes one hand's 50 features in a fixed order:
// 5 fingertip distances, 5 base distances, 5 extension ratios, 5 curls,
// 10 inter-fingertip angles (4 consecutive + 6 non-adjacent), 3 palm
// orientation angles, the 5 largest fingertip spreads, 5 fingertip-to-palm
// distances, 4 consecutive base spreads, openness, hand size, and the thumb
// direction relative to the index fingertip.
func handBlock(h *landmark.Hand3D) []float64 {
	if h.IsZero() {
		return make([]float64, HandBlockWidth)
	}
	rel := h.WristRelative()
	v := make([]float64, 0, HandBlockWidth)

	var tips, bases [5]landmark.Point3D
	for i := range landmark.FingertipIndices {
		tips[i] = rel[landmark.FingertipIndices[i]]
		bases[i] = rel[landmark.FingerBaseIndices[i]]
	}

	for i := range tips {
		v = append(v, norm3(tips[i]))
	}
	for i := range bases {
		v = append(v, norm3(bases[i]))
	}
	for i := range tips {
		v = append(v, norm3(tips[i])/(norm3(bases[i])+eps))
	}

	// Curl: a folded finger brings its tip back toward its own base.
	for i := range tips {
		v = append(v, dist3(tips[i], bases[i]))
	}

	for i := 0; i < 4; i++ {
		v = append(v, angle3(tips[i], tips[i+1]))
	}
	for i := 0; i < 5; i++ {
		for j := i + 2; j < 5; j++ {
			v = append(v, angle3(tips[i], tips[j]))
		}
	}

	mid := rel[landmark.MiddleMCP]
	v = append(v, math.Atan2(mid.Y, mid.X), math.Atan2(mid.Z, mid.X), math.Atan2(mid.Z, mid.Y))

	// Fingertip spreads, largest five of the ten pairs.
	spreads := make([]float64, 0, 10)
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			spreads = append(spreads, dist3(tips[i], tips[j]))
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(spreads)))
	v = append(v, spreads[:5]...)

	centre := palmCentre(rel)
	openness := 0.0
	for i := range tips {
		d := dist3(tips[i], centre)
		v = append(v, d)
		openness += d
	}

	for i := 0; i < 4; i++ {
		v = append(v, dist3(bases[i], bases[i+1]))
	}

	v = append(v, openness/float64(len(tips)))

	size := 0.0
	for i := 0; i < landmark.NumLandmarks; i++ {
		if d := norm3(rel[i]); d > size {
			size = d
		}
	}
	v = append(v, size)

	v = append(v, math.Atan2(tips[0].Y-tips[1].Y, tips[0].X-tips[1].X))

	return v
}
