package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/ayusman/mudra/internal/feature"
)

// Artifact is the serialized form of a trained geometric model: a multinomial
// logistic regression over one of the fixed feature layouts, an optional
// standard scaler, and the class-index-to-label mapping it was trained with.
type Artifact struct {
	Layout     string            `json:"layout"`
	Coef       [][]float64       `json:"coef"`
	Intercept  []float64         `json:"intercept"`
	Scaler     *Scaler           `json:"scaler,omitempty"`
	IdxToLabel map[string]string `json:"idx_to_label"`
}

// Scaler standardizes a feature vector with per-feature mean and scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Apply centres and scales a vector. A zero scale entry passes the centred
// value through unscaled, the convention scalers use for constant features.
func (s *Scaler) Apply(v []float64) ([]float64, error) {
	if len(s.Mean) != len(v) || len(s.Scale) != len(v) {
		return nil, fmt.Errorf("classify: scaler width %d/%d does not match vector width %d",
			len(s.Mean), len(s.Scale), len(v))
	}
	out := make([]float64, len(v))
	for i := range v {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v[i] - s.Mean[i]) / scale
	}
	return out, nil
}

// Geometric scores single frames with a trained logistic model. It holds no
// temporal state; each gesture it recognizes is spatially defined.
type Geometric struct {
	artifact  *Artifact
	labels    map[int]string
	threshold float64
}

// LoadGeometric reads a model artifact from disk. A missing file is the
// normal "no trained model" condition and surfaces as the read error so the
// caller can fall back.
func LoadGeometric(path string, threshold float64) (*Geometric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("classify: parse model artifact %s: %w", path, err)
	}
	g, err := NewGeometric(&art, threshold)
	if err != nil {
		return nil, fmt.Errorf("classify: model artifact %s: %w", path, err)
	}
	return g, nil
}

// NewGeometric validates an artifact against the feature layout it declares
// and builds a classifier from it. A non-positive threshold selects the
// default.
func NewGeometric(art *Artifact, threshold float64) (*Geometric, error) {
	width := feature.LayoutWidth(art.Layout)
	if width == 0 {
		return nil, fmt.Errorf("unknown feature layout %q", art.Layout)
	}
	if len(art.Coef) == 0 {
		return nil, errors.New("artifact has no coefficients")
	}
	for i, row := range art.Coef {
		if len(row) != width {
			return nil, fmt.Errorf("coefficient row %d has width %d, want %d", i, len(row), width)
		}
	}
	if len(art.Intercept) != len(art.Coef) {
		return nil, fmt.Errorf("intercept count %d does not match class count %d",
			len(art.Intercept), len(art.Coef))
	}

	labels := make(map[int]string, len(art.IdxToLabel))
	for k, name := range art.IdxToLabel {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("label index %q is not numeric", k)
		}
		labels[idx] = name
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Geometric{artifact: art, labels: labels, threshold: threshold}, nil
}

// Classify extracts this model's feature layout from the landmarks and
// returns the best class when its probability clears the threshold.
func (g *Geometric) Classify(landmarks []float64) (*Prediction, error) {
	vec, err := feature.FromFlat(g.artifact.Layout, landmarks)
	if vec == nil || err != nil {
		return nil, err
	}

	if g.artifact.Scaler != nil {
		scaled, err := g.artifact.Scaler.Apply(vec)
		if err != nil {
			// A broken scaler degrades to the raw vector rather than
			// dropping the frame.
			log.Printf("classify: scaler rejected vector: %v", err)
		} else {
			vec = scaled
		}
	}

	probs := softmax(g.logits(vec))
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if probs[best] < g.threshold {
		return nil, nil
	}

	named := make(map[string]float64, len(probs))
	for i, p := range probs {
		named[g.label(i)] = p
	}
	return &Prediction{
		Label:         g.label(best),
		Confidence:    probs[best],
		Probabilities: named,
	}, nil
}

func (g *Geometric) label(idx int) string {
	if name, ok := g.labels[idx]; ok {
		return name
	}
	return UnknownLabel
}

func (g *Geometric) logits(v []float64) []float64 {
	out := make([]float64, len(g.artifact.Coef))
	for i, row := range g.artifact.Coef {
		sum := g.artifact.Intercept[i]
		for j, w := range row {
			sum += w * v[j]
		}
		out[i] = sum
	}
	return out
}

// Kind reports the geometric backend tag.
func (g *Geometric) Kind() Kind {
	return KindGeometric
}

// Reset is a no-op; the geometric backend keeps no temporal state.
func (g *Geometric) Reset() {}

// Close is a no-op.
func (g *Geometric) Close() error {
	return nil
}

// softmax converts logits to probabilities, shifting by the max logit so the
// exponentials cannot overflow.
func softmax(z []float64) []float64 {
	max := z[0]
	for _, v := range z[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	out := make([]float64, len(z))
	for i, v := range z {
		e := math.Exp(v - max)
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
