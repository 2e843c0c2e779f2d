package app

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/session"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the transitions between idle and active frame rates based on
// motion detection.
//
// Pipeline logic:
// 1. Start at the idle frame rate (5 fps)
// 2. Skip frames entirely while the session is idle
// 3. On motion detected, switch to the active rate (15 fps)
// 4. Extract hand landmarks and feed them to the session
// 5. Publish every session result to the event hub
// 6. On a confident detection, run subscribed hooks and the detection callback
// 7. After the idle timeout with no motion, drop back to the idle rate
func (a *App) runPipeline(stopCh <-chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(a.config.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing while the session is not hunting a gesture
			if !a.session.Active() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Motion gates the frame rate, not the classifier: a held pose
			// must keep classifying after the scene goes still.
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > a.config.IdleTimeout {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Hand landmark extraction
			landmarks, err := a.Detector().Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				// A detector failure is indistinguishable from an empty
				// frame downstream
				log.Printf("Error detecting hands: %v", err)
				landmarks = nil
			}

			result := a.session.ProcessFrame(context.Background(), landmarks)

			if a.events != nil {
				a.events.Publish("result", result)
			}

			if result.Gesture != nil {
				log.Printf("Detected gesture: %s (confidence: %.2f)", *result.Gesture, result.Confidence)
				go a.runHooks(result)

				a.mu.RLock()
				callback := a.onDetection
				a.mu.RUnlock()
				if callback != nil {
					callback(result)
				}
			}
		}
	}
}

// runHooks fans one confident detection out to every subscribed hook.
// Hook failures are logged and never block the pipeline.
func (a *App) runHooks(result session.Result) {
	gesture := ""
	if result.Gesture != nil {
		gesture = *result.Gesture
	}

	for _, h := range a.hooks.List() {
		if !h.Wants(gesture) {
			continue
		}

		resp, err := a.hookExec.Execute(h, result)
		if err != nil {
			log.Printf("Hook %s failed: %v", h.Manifest.Name, err)
			continue
		}
		if !resp.OK {
			log.Printf("Hook %s rejected detection: %s", h.Manifest.Name, resp.Message)
		}
	}
}
