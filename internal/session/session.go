// Package session implements the detection state machine that gates frame
// processing. A session is Active while it hunts for one gesture; a confident
// detection forwards the gesture to the translation and speech collaborators
// and drops the session back to Idle, so every episode is single-shot.
package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/ayusman/mudra/internal/classify"
)

// Boundary status texts. Frontends display these verbatim, so they are part
// of the wire contract.
const (
	IdlePrompt      = `Press "Start Detection" to begin`
	ListeningPrompt = "Listening for gesture..."
)

// displayNames maps recognized glosses to readable phrases.
var displayNames = map[string]string{
	"hello":      "hello",
	"thank_you":  "thank you",
	"i_love_you": "I love you",
	"help":       "help",
	"no":         "no",
	"please":     "please",
	"yes":        "yes",
}

// Translator rewrites a recognized phrase. Failure degrades to the raw
// phrase; translation never blocks detection.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Speaker voices a phrase. Failure is recorded in the result payload and
// otherwise ignored.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Recorder persists a confident detection.
type Recorder interface {
	Record(gesture string, confidence float64, translation, model string) error
}

// Result is the payload the boundary layers serialize for every processed
// frame. Its shape is the external contract: gesture is null when nothing
// was detected, and detection_active reports the post-frame state.
type Result struct {
	Success         bool    `json:"success"`
	Gesture         *string `json:"gesture"`
	Confidence      float64 `json:"confidence"`
	Translation     string  `json:"translation"`
	Sentence        string  `json:"sentence,omitempty"`
	GestureCount    int     `json:"gesture_count"`
	SpeechPlayed    bool    `json:"speech_played,omitempty"`
	DetectionActive bool    `json:"detection_active"`
	AutoStopped     bool    `json:"auto_stopped,omitempty"`
}

// Config wires a session's collaborators. Only the classifier is required;
// every other collaborator may be nil and the session degrades gracefully.
type Config struct {
	Classifier classify.Classifier
	Translator Translator
	Speaker    Speaker
	Recorder   Recorder
}

// Session owns the Idle/Active state for one camera stream. The mutex
// serializes ProcessFrame against the state transitions, so exactly one
// frame is ever in flight per session.
type Session struct {
	mu         sync.Mutex
	classifier classify.Classifier
	translator Translator
	speaker    Speaker
	recorder   Recorder

	active       bool
	gestureCount int
	lastGesture  string
	sentence     []string
}

// New creates an idle session.
func New(cfg Config) *Session {
	return &Session{
		classifier: cfg.Classifier,
		translator: cfg.Translator,
		speaker:    cfg.Speaker,
		recorder:   cfg.Recorder,
	}
}

// Start switches the session to Active and clears stale gesture memory so
// the new episode votes from a clean slate.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.lastGesture = ""
	s.classifier.Reset()
}

// Stop switches the session to Idle. Frames already processed are
// unaffected; later frames short-circuit.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Reset clears the gesture counter, the running sentence, and the
// classifier's buffered state. The Active/Idle state does not change.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestureCount = 0
	s.lastGesture = ""
	s.sentence = nil
	s.classifier.Reset()
}

// Active reports whether the session is accepting frames.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// GestureCount reports how many confident detections this session has made.
func (s *Session) GestureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestureCount
}

// LastGesture reports the most recently detected gesture label, or "".
func (s *Session) LastGesture() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGesture
}

// Sentence reports the accumulated translations of this conversation.
func (s *Session) Sentence() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.sentence, " ")
}

// ProcessFrame runs the classification chain on one landmark array. While
// Idle it returns immediately without touching the classifier. A malformed
// landmark payload is logged and reported identically to an empty frame, so
// the boundary cannot stall on recoverable input problems.
func (s *Session) ProcessFrame(ctx context.Context, landmarks []float64) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return s.idleResult()
	}

	pred, err := s.classifier.Classify(landmarks)
	if err != nil {
		log.Printf("session: classify failed: %v", err)
		return s.listeningResult()
	}
	if pred == nil {
		return s.listeningResult()
	}
	return s.detected(ctx, pred)
}

// detected handles one confident prediction: count it, translate it, voice
// it, record it, and end the episode.
func (s *Session) detected(ctx context.Context, pred *classify.Prediction) Result {
	s.gestureCount++
	s.lastGesture = pred.Label

	translation := displayName(pred.Label)
	if s.translator != nil {
		improved, err := s.translator.Translate(ctx, translation)
		if err != nil {
			log.Printf("session: translation failed, using raw phrase: %v", err)
		} else if improved != "" {
			translation = improved
		}
	}
	s.sentence = append(s.sentence, translation)

	played := false
	if s.speaker != nil {
		if err := s.speaker.Speak(ctx, translation); err != nil {
			log.Printf("session: speech failed: %v", err)
		} else {
			played = true
		}
	}

	if s.recorder != nil {
		if err := s.recorder.Record(pred.Label, pred.Confidence, translation, s.classifier.Kind().String()); err != nil {
			log.Printf("session: recording detection failed: %v", err)
		}
	}

	// Detect one and stop: a held pose must not re-trigger.
	s.active = false

	label := pred.Label
	return Result{
		Success:         true,
		Gesture:         &label,
		Confidence:      pred.Confidence,
		Translation:     translation,
		Sentence:        strings.Join(s.sentence, " "),
		GestureCount:    s.gestureCount,
		SpeechPlayed:    played,
		DetectionActive: false,
		AutoStopped:     true,
	}
}

func (s *Session) idleResult() Result {
	return Result{
		Success:         true,
		Translation:     IdlePrompt,
		GestureCount:    s.gestureCount,
		DetectionActive: false,
	}
}

func (s *Session) listeningResult() Result {
	return Result{
		Success:         true,
		Translation:     ListeningPrompt,
		GestureCount:    s.gestureCount,
		DetectionActive: true,
	}
}

func displayName(label string) string {
	if name, ok := displayNames[label]; ok {
		return name
	}
	return label
}
