package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// defaultHistoryLimit caps unbounded history queries.
const defaultHistoryLimit = 50

// HistoryHandler handles HTTP requests for recorded detections.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/detections or /api/detections/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/detections")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/detections
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/detections/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type detectionResponse struct {
	ID          string  `json:"id"`
	Gesture     string  `json:"gesture"`
	Confidence  float64 `json:"confidence"`
	Translation string  `json:"translation"`
	Model       string  `json:"model"`
	CreatedAt   string  `json:"created_at"`
}

type listDetectionsResponse struct {
	Detections []detectionResponse `json:"detections"`
	Total      int                 `json:"total"`
}

// toDetectionResponse converts a store.Detection to a detectionResponse.
func toDetectionResponse(d *store.Detection) detectionResponse {
	return detectionResponse{
		ID:          d.ID,
		Gesture:     d.Gesture,
		Confidence:  d.Confidence,
		Translation: d.Translation,
		Model:       d.ModelKind,
		CreatedAt:   d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/detections and returns the most recent detections.
// The limit query parameter bounds the page size.
func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	detections, err := h.store.Detections().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	total, err := h.store.Detections().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count detections")
		return
	}

	response := listDetectionsResponse{
		Detections: make([]detectionResponse, 0, len(detections)),
		Total:      total,
	}
	for _, d := range detections {
		response.Detections = append(response.Detections, toDetectionResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/detections/{id} and returns a single detection.
func (h *HistoryHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	detection, err := h.store.Detections().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get detection")
		return
	}

	writeJSON(w, http.StatusOK, toDetectionResponse(detection))
}

// delete handles DELETE /api/detections/{id} and removes a detection.
func (h *HistoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Detections().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete detection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
