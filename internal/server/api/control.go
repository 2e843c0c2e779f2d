package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/session"
)

// ControlHandler handles the detection lifecycle endpoints. All of them are
// POST-only and reply with a status message the frontend shows verbatim.
type ControlHandler struct {
	session *session.Session
}

// NewControlHandler creates a new ControlHandler with the given session.
func NewControlHandler(s *session.Session) *ControlHandler {
	return &ControlHandler{session: s}
}

// ServeHTTP routes between the lifecycle endpoints.
// Expected paths: /api/detection/start, /api/detection/stop, /api/reset
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/detection/start":
		h.session.Start()
		writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Detection started - show your gesture!"})
	case "/api/detection/stop":
		h.session.Stop()
		writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Detection stopped"})
	case "/api/reset":
		h.session.Reset()
		writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Demo reset - ready for new gestures!"})
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
