// Package tray provides a desktop system tray interface for the Mudra sign
// language translator.
package tray

import (
	"strconv"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(active bool)
	onDashboard func()
	onQuit      func()
	active      bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuCount       *systray.MenuItem
}

// New creates a new Tray instance. Detection starts off; the user opts in
// per episode.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when detection is toggled.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback function to be called when the dashboard menu
// item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is
// clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the system tray loop. Safe to call from any goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Sign Language Translator")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("○ Start Detection", "Toggle gesture detection")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last detected gesture")
	t.menuLastGesture.Disable()
	t.menuCount = systray.AddMenuItem("Gestures: 0", "Gestures detected this session")
	t.menuCount.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the web dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active

	// Update menu item text based on new state
	if active {
		t.menuToggle.SetTitle("● Detecting...")
	} else {
		t.menuToggle.SetTitle("○ Start Detection")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetDetection reflects an externally driven state change in the menu. The
// session stops itself after each detection, so the toggle cannot rely on
// clicks alone.
func (t *Tray) SetDetection(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	if t.menuToggle == nil {
		return
	}
	if active {
		t.menuToggle.SetTitle("● Detecting...")
	} else {
		t.menuToggle.SetTitle("○ Start Detection")
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(gesture, translation string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture == nil {
		return
	}
	switch {
	case gesture == "":
		t.menuLastGesture.SetTitle("Last: none")
	case translation != "" && translation != gesture:
		t.menuLastGesture.SetTitle("Last: " + gesture + " (" + translation + ")")
	default:
		t.menuLastGesture.SetTitle("Last: " + gesture)
	}
}

// SetGestureCount updates the session gesture counter in the menu.
func (t *Tray) SetGestureCount(n int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCount != nil {
		t.menuCount.SetTitle("Gestures: " + strconv.Itoa(n))
	}
}

// Active returns whether detection is currently shown as running.
func (t *Tray) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}
