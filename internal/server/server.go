// Package server provides the HTTP server for the Mudra gesture recognition
// system. Routes are registered only for the collaborators the caller wires
// in, so a headless or storeless deployment simply lacks those endpoints.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration. Every field except StaticDir is a
// collaborator; nil fields disable their routes.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *session.Session
	Detector  detector.Detector
	Camera    capture.Camera
	Speech    api.Synthesizer
	Events    *Hub
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Detection lifecycle and frame ingestion need a session
	if s.config.Session != nil {
		control := api.NewControlHandler(s.config.Session)
		s.mux.Handle("/api/detection/start", control)
		s.mux.Handle("/api/detection/stop", control)
		s.mux.Handle("/api/reset", control)

		if s.config.Detector != nil {
			s.mux.Handle("/api/frame", api.NewFrameHandler(s.config.Session, s.config.Detector))
		}
	}

	// Register history and settings handlers if Store is configured
	if s.config.Store != nil {
		history := api.NewHistoryHandler(s.config.Store)
		s.mux.Handle("/api/detections", history)
		s.mux.Handle("/api/detections/", history)

		settings := api.NewSettingsHandler(s.config.Store)
		s.mux.Handle("/api/settings", settings)
		s.mux.Handle("/api/settings/", settings)
	}

	// Register speech endpoints if a synthesizer is configured
	if s.config.Speech != nil {
		speech := api.NewSpeechHandler(s.config.Speech)
		s.mux.Handle("/api/speak", speech)
		s.mux.Handle("/api/voices", speech)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Register result WebSocket endpoint if an event hub is configured
	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.Session != nil {
		response["detection_active"] = s.config.Session.Active()
		response["gesture_count"] = s.config.Session.GestureCount()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
