// Package app runs the desktop detection pipeline: camera frames through the
// motion gate and hand detector into the session, with results fanned out to
// the websocket hub and detection hooks.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/session"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate when no motion is detected.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate while motion is present.
	DefaultActiveFPS = 15
	// DefaultIdleTimeout is how long without motion before dropping back to
	// the idle frame rate.
	DefaultIdleTimeout = 2 * time.Second
	// hookTimeoutMs bounds one hook execution.
	hookTimeoutMs = 5000
)

// Publisher pushes pipeline results to connected frontends. The server's
// websocket hub satisfies it.
type Publisher interface {
	Publish(event string, payload any)
}

// Config holds configuration options for the application. Session is
// required; a nil Detector selects MediaPipe with a mock fallback, and a nil
// Events publisher disables result broadcasting.
type Config struct {
	Camera          capture.Config
	MotionThreshold float64
	IdleFPS         int
	ActiveFPS       int
	IdleTimeout     time.Duration
	HookDir         string
	Session         *session.Session
	Detector        detector.Detector
	Events          Publisher
}

// App is the main application that orchestrates frame capture, landmark
// extraction, and gesture detection.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	session  *session.Session
	events   Publisher
	hooks    *hook.Manager
	hookExec *hook.Executor

	onDetection func(session.Result)
	mu          sync.RWMutex
	stopCh      chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.Camera),
		motion:   capture.NewMotionDetector(config.MotionThreshold),
		session:  config.Session,
		events:   config.Events,
		hooks:    hook.NewManager(config.HookDir),
		hookExec: hook.NewExecutor(hookTimeoutMs),
	}

	if config.Detector != nil {
		a.detector = config.Detector
		return a
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// OnDetection sets the callback invoked for every confident detection, after
// the session has already recorded it. The tray uses this to update its menu.
func (a *App) OnDetection(fn func(session.Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onDetection = fn
}

// DiscoverHooks scans the hook directory and loads available hooks.
func (a *App) DiscoverHooks() error {
	return a.hooks.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(a.config.IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Hooks returns the hook manager.
func (a *App) Hooks() *hook.Manager {
	return a.hooks
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
