package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/testutil"
)

// scriptedClassifier returns a fixed prediction or error and counts calls.
type scriptedClassifier struct {
	pred   *classify.Prediction
	err    error
	calls  int
	resets int
}

func (c *scriptedClassifier) Classify(landmarks []float64) (*classify.Prediction, error) {
	c.calls++
	return c.pred, c.err
}

func (c *scriptedClassifier) Kind() classify.Kind { return classify.KindMock }
func (c *scriptedClassifier) Reset()              { c.resets++ }
func (c *scriptedClassifier) Close() error        { return nil }

type scriptedTranslator struct {
	out string
	err error
}

func (t *scriptedTranslator) Translate(ctx context.Context, text string) (string, error) {
	return t.out, t.err
}

type scriptedSpeaker struct {
	err    error
	spoken []string
}

func (s *scriptedSpeaker) Speak(ctx context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.spoken = append(s.spoken, text)
	return nil
}

type capturingRecorder struct {
	gesture     string
	confidence  float64
	translation string
	model       string
	err         error
	records     int
}

func (r *capturingRecorder) Record(gesture string, confidence float64, translation, model string) error {
	r.records++
	r.gesture = gesture
	r.confidence = confidence
	r.translation = translation
	r.model = model
	return r.err
}

func prediction(label string, confidence float64) *classify.Prediction {
	return &classify.Prediction{Label: label, Confidence: confidence}
}

func TestSessionIdle(t *testing.T) {
	clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
	s := New(Config{Classifier: clf})

	res := s.ProcessFrame(context.Background(), testutil.OpenPalm())

	if clf.calls != 0 {
		t.Errorf("expected the classifier to stay untouched while idle, got %d calls", clf.calls)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if res.Gesture != nil {
		t.Errorf("expected null gesture, got %q", *res.Gesture)
	}
	if res.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", res.Confidence)
	}
	if res.Translation != IdlePrompt {
		t.Errorf("expected the idle prompt, got %q", res.Translation)
	}
	if res.DetectionActive {
		t.Error("expected detection_active false")
	}
}

func TestSessionListening(t *testing.T) {
	clf := &scriptedClassifier{} // nothing recognized
	s := New(Config{Classifier: clf})
	s.Start()

	res := s.ProcessFrame(context.Background(), nil)

	if clf.calls != 1 {
		t.Errorf("expected one classifier call, got %d", clf.calls)
	}
	if res.Gesture != nil {
		t.Error("expected null gesture while listening")
	}
	if res.Translation != ListeningPrompt {
		t.Errorf("expected the listening prompt, got %q", res.Translation)
	}
	if !res.DetectionActive {
		t.Error("expected detection_active true while listening")
	}
	if !s.Active() {
		t.Error("expected the session to stay active with no detection")
	}
}

func TestSessionDetectOneAndStop(t *testing.T) {
	clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
	s := New(Config{Classifier: clf})
	s.Start()

	res := s.ProcessFrame(context.Background(), testutil.OpenPalm())

	if res.Gesture == nil || *res.Gesture != "hello" {
		t.Fatalf("expected gesture hello, got %v", res.Gesture)
	}
	if res.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", res.Confidence)
	}
	if res.Translation != "hello" {
		t.Errorf("expected translation hello, got %q", res.Translation)
	}
	if res.DetectionActive {
		t.Error("expected detection_active false after a detection")
	}
	if !res.AutoStopped {
		t.Error("expected auto_stopped true")
	}
	if res.GestureCount != 1 {
		t.Errorf("expected gesture count 1, got %d", res.GestureCount)
	}
	if s.Active() {
		t.Error("expected the session to flip to idle")
	}
	if s.LastGesture() != "hello" {
		t.Errorf("expected last gesture hello, got %q", s.LastGesture())
	}

	// The counter must not move again without a new Start.
	res = s.ProcessFrame(context.Background(), testutil.OpenPalm())
	if res.Translation != IdlePrompt {
		t.Errorf("expected the idle prompt after auto-stop, got %q", res.Translation)
	}
	if res.GestureCount != 1 {
		t.Errorf("expected gesture count to stay 1, got %d", res.GestureCount)
	}
	if clf.calls != 1 {
		t.Errorf("expected exactly one classifier call, got %d", clf.calls)
	}
}

func TestSessionDisplayNames(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"thank_you", "thank you"},
		{"i_love_you", "I love you"},
		{"yes", "yes"},
		{"wave", "wave"}, // unmapped labels pass through
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			clf := &scriptedClassifier{pred: prediction(tt.label, 0.8)}
			s := New(Config{Classifier: clf})
			s.Start()

			res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
			if res.Translation != tt.want {
				t.Errorf("expected translation %q, got %q", tt.want, res.Translation)
			}
			if res.Gesture == nil || *res.Gesture != tt.label {
				t.Errorf("expected the raw label %q in the gesture field", tt.label)
			}
		})
	}
}

func TestSessionTranslator(t *testing.T) {
	t.Run("translation replaces the display phrase", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("thank_you", 0.8)}
		s := New(Config{Classifier: clf, Translator: &scriptedTranslator{out: "thank you very much"}})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if res.Translation != "thank you very much" {
			t.Errorf("expected the improved phrase, got %q", res.Translation)
		}
	})

	t.Run("translator failure keeps the raw phrase", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("thank_you", 0.8)}
		s := New(Config{Classifier: clf, Translator: &scriptedTranslator{err: errors.New("service down")}})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if res.Translation != "thank you" {
			t.Errorf("expected the raw phrase, got %q", res.Translation)
		}
	})

	t.Run("empty translation keeps the raw phrase", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("no", 0.8)}
		s := New(Config{Classifier: clf, Translator: &scriptedTranslator{out: ""}})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if res.Translation != "no" {
			t.Errorf("expected the raw phrase, got %q", res.Translation)
		}
	})
}

func TestSessionSpeaker(t *testing.T) {
	t.Run("successful speech is reported", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
		spk := &scriptedSpeaker{}
		s := New(Config{Classifier: clf, Speaker: spk})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if !res.SpeechPlayed {
			t.Error("expected speech_played true")
		}
		if len(spk.spoken) != 1 || spk.spoken[0] != "hello" {
			t.Errorf("expected the translation to be spoken, got %v", spk.spoken)
		}
	})

	t.Run("speech failure does not block the detection", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
		s := New(Config{Classifier: clf, Speaker: &scriptedSpeaker{err: errors.New("no audio")}})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if res.SpeechPlayed {
			t.Error("expected speech_played false")
		}
		if res.Gesture == nil {
			t.Error("expected the detection to survive the speech failure")
		}
	})
}

func TestSessionRecorder(t *testing.T) {
	t.Run("detections are recorded", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("please", 0.77)}
		rec := &capturingRecorder{}
		s := New(Config{Classifier: clf, Recorder: rec})
		s.Start()

		s.ProcessFrame(context.Background(), testutil.OpenPalm())

		if rec.records != 1 {
			t.Fatalf("expected one record, got %d", rec.records)
		}
		if rec.gesture != "please" || rec.confidence != 0.77 {
			t.Errorf("expected please@0.77, got %s@%f", rec.gesture, rec.confidence)
		}
		if rec.translation != "please" {
			t.Errorf("expected translation please, got %q", rec.translation)
		}
		if rec.model != "mock" {
			t.Errorf("expected model kind mock, got %q", rec.model)
		}
	})

	t.Run("recorder failure does not block the detection", func(t *testing.T) {
		clf := &scriptedClassifier{pred: prediction("please", 0.77)}
		s := New(Config{Classifier: clf, Recorder: &capturingRecorder{err: errors.New("disk full")}})
		s.Start()

		res := s.ProcessFrame(context.Background(), testutil.OpenPalm())
		if res.Gesture == nil {
			t.Error("expected the detection to survive the recorder failure")
		}
	})
}

func TestSessionClassifierError(t *testing.T) {
	clf := &scriptedClassifier{err: errors.New("bad landmark length")}
	s := New(Config{Classifier: clf})
	s.Start()

	res := s.ProcessFrame(context.Background(), make([]float64, 5))

	// A malformed payload reads exactly like an empty frame at the boundary.
	if res.Translation != ListeningPrompt {
		t.Errorf("expected the listening prompt, got %q", res.Translation)
	}
	if res.Gesture != nil {
		t.Error("expected null gesture on classify error")
	}
	if !s.Active() {
		t.Error("expected the session to stay active")
	}
}

func TestSessionSentenceAccumulation(t *testing.T) {
	clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
	s := New(Config{Classifier: clf})

	s.Start()
	s.ProcessFrame(context.Background(), testutil.OpenPalm())

	clf.pred = prediction("yes", 0.8)
	s.Start()
	res := s.ProcessFrame(context.Background(), testutil.ThumbsUp())

	if res.Sentence != "hello yes" {
		t.Errorf("expected sentence %q, got %q", "hello yes", res.Sentence)
	}
	if res.GestureCount != 2 {
		t.Errorf("expected gesture count 2, got %d", res.GestureCount)
	}
	if s.Sentence() != "hello yes" {
		t.Errorf("expected accumulated sentence, got %q", s.Sentence())
	}
}

func TestSessionReset(t *testing.T) {
	clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
	s := New(Config{Classifier: clf})
	s.Start()
	s.ProcessFrame(context.Background(), testutil.OpenPalm())

	resetsBefore := clf.resets
	s.Reset()

	if s.GestureCount() != 0 {
		t.Errorf("expected the counter cleared, got %d", s.GestureCount())
	}
	if s.Sentence() != "" {
		t.Errorf("expected the sentence cleared, got %q", s.Sentence())
	}
	if s.LastGesture() != "" {
		t.Errorf("expected last gesture cleared, got %q", s.LastGesture())
	}
	if clf.resets != resetsBefore+1 {
		t.Error("expected the classifier buffers to be cleared")
	}
	if s.Active() {
		t.Error("expected reset to preserve the idle state")
	}

	// Reset while active must preserve the active state too.
	s.Start()
	s.Reset()
	if !s.Active() {
		t.Error("expected reset to preserve the active state")
	}
}

func TestSessionStartClearsStaleMemory(t *testing.T) {
	clf := &scriptedClassifier{pred: prediction("hello", 0.9)}
	s := New(Config{Classifier: clf})

	s.Start()
	s.ProcessFrame(context.Background(), testutil.OpenPalm())
	if s.LastGesture() != "hello" {
		t.Fatalf("expected last gesture hello, got %q", s.LastGesture())
	}

	resetsBefore := clf.resets
	s.Start()

	if s.LastGesture() != "" {
		t.Errorf("expected stale gesture memory cleared, got %q", s.LastGesture())
	}
	if clf.resets != resetsBefore+1 {
		t.Error("expected a fresh episode to clear classifier buffers")
	}
}

func TestResultJSONShape(t *testing.T) {
	// The sentence, speech, and auto-stop fields only appear on detections;
	// the always-present fields keep their snake_case names.
	res := Result{Success: true, Translation: ListeningPrompt, DetectionActive: true}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, want := range []string{`"success":true`, `"gesture":null`, `"confidence":0`, `"gesture_count":0`, `"detection_active":true`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %s in %s", want, data)
		}
	}
	for _, absent := range []string{"sentence", "speech_played", "auto_stopped"} {
		if strings.Contains(string(data), absent) {
			t.Errorf("expected %s omitted from %s", absent, data)
		}
	}
}
