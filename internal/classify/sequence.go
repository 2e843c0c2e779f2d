package classify

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tphakala/go-tflite"

	"github.com/ayusman/mudra/internal/landmark"
)

// Window dimensions fixed by the trained sequence model contract: 30 frames
// of 126 keypoint values each.
const (
	SequenceLength      = 30
	SequenceFrameWidth  = landmark.DualHandLen
	minSequenceFrames   = 5
	sequenceInputFloats = SequenceLength * SequenceFrameWidth
)

// DefaultSequenceLabels is the built-in vocabulary used when no labels file
// sits beside the model.
var DefaultSequenceLabels = []string{"hello", "no", "please", "thank_you", "yes"}

// Sequence runs a recurrent TensorFlow Lite model over a sliding window of
// keypoint frames and stabilizes its per-frame output with a temporal vote.
type Sequence struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	labels      []string
	threshold   float64
	frames      *ring[[]float64]
	smoother    *Smoother
}

// LoadSequence loads a .tflite model and its label vocabulary. A non-positive
// threshold selects the default.
func LoadSequence(modelPath, labelsPath string, threshold float64, smoothing SmootherConfig) (*Sequence, error) {
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, fmt.Errorf("classify: cannot load TensorFlow Lite model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(2)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, errors.New("classify: cannot create tflite interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, errors.New("classify: tensor allocation failed")
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Sequence{
		model:       model,
		options:     options,
		interpreter: interpreter,
		labels:      loadLabels(labelsPath),
		threshold:   threshold,
		frames:      newRing[[]float64](SequenceLength),
		smoother:    NewSmoother(smoothing),
	}, nil
}

// loadLabels reads one label per line, falling back to the built-in
// vocabulary when the file is unavailable or empty.
func loadLabels(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("classify: labels file unavailable (%v), using built-in vocabulary", err)
		return append([]string(nil), DefaultSequenceLabels...)
	}
	var labels []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			labels = append(labels, line)
		}
	}
	if len(labels) == 0 {
		return append([]string(nil), DefaultSequenceLabels...)
	}
	return labels
}

// Classify buffers the keypoint frame and, once enough frames are in flight,
// runs one inference and routes the raw result through the temporal vote.
func (s *Sequence) Classify(landmarks []float64) (*Prediction, error) {
	frame, err := expandFrame(landmarks)
	if frame == nil || err != nil {
		return nil, err
	}

	s.frames.push(frame)
	if s.frames.len() < minSequenceFrames {
		return nil, nil
	}

	probs, err := s.invoke()
	if err != nil {
		return nil, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	conf := float64(probs[best])
	if conf < s.threshold {
		return nil, nil
	}

	s.smoother.Observe(best, conf)
	if class, meanConf, ok := s.smoother.Apply(); ok {
		return &Prediction{Label: s.label(class), Confidence: meanConf, Smoothed: true}, nil
	}
	// The vote failed; a single very confident frame may still answer.
	if s.smoother.Immediate(conf) {
		return &Prediction{Label: s.label(best), Confidence: conf}, nil
	}
	return nil, nil
}

// invoke fills the input tensor with the buffered window, padded by
// repeating the newest frame, and runs one inference.
func (s *Sequence) invoke() ([]float32, error) {
	frames := s.frames.all()
	newest := frames[len(frames)-1]

	input := s.interpreter.GetInputTensor(0)
	if input == nil {
		return nil, errors.New("classify: sequence model has no input tensor")
	}
	data := input.Float32s()
	if len(data) != sequenceInputFloats {
		return nil, fmt.Errorf("classify: input tensor holds %d floats, want %d", len(data), sequenceInputFloats)
	}
	for i := 0; i < SequenceLength; i++ {
		src := newest
		if i < len(frames) {
			src = frames[i]
		}
		for j, v := range src {
			data[i*SequenceFrameWidth+j] = float32(v)
		}
	}

	if status := s.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.New("classify: sequence model invoke failed")
	}

	output := s.interpreter.GetOutputTensor(0)
	if output == nil {
		return nil, errors.New("classify: sequence model has no output tensor")
	}
	raw := output.Float32s()
	if len(raw) == 0 {
		return nil, errors.New("classify: sequence model produced no output")
	}
	probs := make([]float32, len(raw))
	copy(probs, raw)
	return probs, nil
}

func (s *Sequence) label(idx int) string {
	if idx >= 0 && idx < len(s.labels) {
		return s.labels[idx]
	}
	return UnknownLabel
}

// expandFrame widens a landmark array to the 126-value frame the sequence
// model consumes, duplicating a single hand per the normalizer convention.
func expandFrame(flat []float64) ([]float64, error) {
	hands, err := landmark.DualHand(flat)
	if hands == nil || err != nil {
		return nil, err
	}
	frame := make([]float64, 0, SequenceFrameWidth)
	for hi := range hands {
		for i := 0; i < landmark.NumLandmarks; i++ {
			p := hands[hi][i]
			frame = append(frame, p.X, p.Y, p.Z)
		}
	}
	return frame, nil
}

// Kind reports the sequence backend tag.
func (s *Sequence) Kind() Kind {
	return KindSequence
}

// Reset drops all buffered state in one step: the keypoint window, the class
// history, and the confidence history.
func (s *Sequence) Reset() {
	s.frames.reset()
	s.smoother.Reset()
}

// Close releases the interpreter and model.
func (s *Sequence) Close() error {
	if s.interpreter != nil {
		s.interpreter.Delete()
		s.interpreter = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
	return nil
}
