package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/session"
)

// FrameHandler accepts browser-captured camera frames and runs them through
// the detection pipeline. The response body is the session result for that
// frame, whatever the session state.
type FrameHandler struct {
	session  *session.Session
	detector detector.Detector
}

// NewFrameHandler creates a new FrameHandler with the given session and detector.
func NewFrameHandler(s *session.Session, d detector.Detector) *FrameHandler {
	return &FrameHandler{session: s, detector: d}
}

type processFrameRequest struct {
	Image string `json:"image"`
}

// ServeHTTP handles POST /api/frame.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req processFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	frame, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not decode image")
		return
	}
	defer frame.Close()

	// A detector hiccup is indistinguishable from an empty frame as far as
	// the session is concerned: it keeps listening.
	landmarks, err := h.detector.Detect(frame)
	if err != nil {
		log.Printf("frame: detection failed: %v", err)
		landmarks = nil
	}

	result := h.session.ProcessFrame(r.Context(), landmarks)
	writeJSON(w, http.StatusOK, result)
}

// decodeImage turns a data URL (or bare base64 string) into a BGR image.
func decodeImage(data string) (*gocv.Mat, error) {
	// Browsers send "data:image/jpeg;base64,<payload>".
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	if mat.Empty() {
		mat.Close()
		return nil, errEmptyImage
	}
	return &mat, nil
}

var errEmptyImage = errors.New("empty image")
