package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Synthesizer is the slice of the speech client the API layer uses.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
	ListVoices(ctx context.Context) (map[string]string, error)
}

// SpeechHandler handles manual speech requests and voice discovery.
type SpeechHandler struct {
	speech Synthesizer
}

// NewSpeechHandler creates a new SpeechHandler with the given synthesizer.
func NewSpeechHandler(s Synthesizer) *SpeechHandler {
	return &SpeechHandler{speech: s}
}

type speakRequest struct {
	Text string `json:"text"`
}

type voicesResponse struct {
	Voices map[string]string `json:"voices"`
}

// ServeHTTP routes between the speech endpoints.
// Expected paths: /api/speak, /api/voices
func (h *SpeechHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/speak":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.speak(w, r)
	case "/api/voices":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.voices(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// speak handles POST /api/speak and voices the given text.
func (h *SpeechHandler) speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}

	if err := h.speech.Speak(r.Context(), req.Text); err != nil {
		writeError(w, http.StatusInternalServerError, "Speech synthesis failed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: fmt.Sprintf("Speaking: %q", req.Text)})
}

// voices handles GET /api/voices and returns the available voices by ID.
func (h *SpeechHandler) voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.speech.ListVoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list voices")
		return
	}

	writeJSON(w, http.StatusOK, voicesResponse{Voices: voices})
}
