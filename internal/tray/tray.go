// Package tray provides a system tray menu for Pinch Master: the live score
// and a Quit item.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/pinchmaster/internal/game"
)

// Tray represents the system tray application.
type Tray struct {
	onQuit func()
	status string
	mu     sync.RWMutex

	// Menu items stored for later updates
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{
		status: StatusText(game.Event{Kind: game.EventReset, State: game.Idle}),
	}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called or the quit item is clicked.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Pinch Master")
	systray.SetTooltip("Pinch Master")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(t.status, "Current game")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Pinch Master")

	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback()
	}

	systray.Quit()
}

// HandleEvent updates the status line for a game event.
func (t *Tray) HandleEvent(e game.Event) {
	t.SetStatus(StatusText(e))
}

// SetStatus replaces the status line in the menu.
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = text
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(text)
	}
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// StatusText renders the status line for an event.
func StatusText(e game.Event) string {
	switch e.Kind {
	case game.EventCountdown:
		return "Get ready..."
	case game.EventStart, game.EventScore:
		return fmt.Sprintf("Playing - Score: %d", e.Score)
	case game.EventOver:
		return fmt.Sprintf("Game over - Score: %d", e.Score)
	default:
		return "Idle"
	}
}
