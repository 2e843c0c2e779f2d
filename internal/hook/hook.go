// Package hook runs external programs in response to confident gesture
// detections. A hook is a directory holding a hook.json manifest and an
// executable; on each detection the executable receives the session result
// as JSON on stdin and replies with a JSON status on stdout.
package hook

// Manifest describes a hook's metadata and entry point.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Gestures    []string `json:"gestures,omitempty"`
}

// Response is the reply a hook writes to stdout after handling a detection.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the hook subscribes to the given gesture. An empty
// gesture list in the manifest subscribes to every detection.
func (h *Hook) Wants(gesture string) bool {
	if len(h.Manifest.Gestures) == 0 {
		return true
	}
	for _, g := range h.Manifest.Gestures {
		if g == gesture {
			return true
		}
	}
	return false
}
