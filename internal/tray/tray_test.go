package tray

import (
	"testing"

	"github.com/ayusman/pinchmaster/internal/game"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name  string
		event game.Event
		want  string
	}{
		{"countdown", game.Event{Kind: game.EventCountdown}, "Get ready..."},
		{"start", game.Event{Kind: game.EventStart}, "Playing - Score: 0"},
		{"score", game.Event{Kind: game.EventScore, Score: 7}, "Playing - Score: 7"},
		{"over", game.Event{Kind: game.EventOver, Score: 12}, "Game over - Score: 12"},
		{"reset", game.Event{Kind: game.EventReset, Score: 12}, "Idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusText(tt.event); got != tt.want {
				t.Errorf("StatusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTray_HandleEventBeforeRun(t *testing.T) {
	tr := New()
	if tr.Status() != "Idle" {
		t.Errorf("initial Status() = %q, want Idle", tr.Status())
	}

	// Menu items do not exist yet; only the stored text changes
	tr.HandleEvent(game.Event{Kind: game.EventScore, Score: 2})
	if tr.Status() != "Playing - Score: 2" {
		t.Errorf("Status() = %q", tr.Status())
	}
}

func TestTray_OnQuit(t *testing.T) {
	tr := New()
	called := false
	tr.OnQuit(func() { called = true })

	tr.mu.RLock()
	cb := tr.onQuit
	tr.mu.RUnlock()
	cb()

	if !called {
		t.Error("quit callback was not stored")
	}
}
