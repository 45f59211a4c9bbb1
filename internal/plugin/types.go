// Package plugin runs external programs in response to game events, so a
// round can feed a scoreboard, a stream overlay or anything else.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/pinchmaster/internal/game"
)

// Manifest is the plugin.json found in each plugin directory.
type Manifest struct {
	Name        string           `json:"name"`
	Version     string           `json:"version"`
	Description string           `json:"description"`
	Executable  string           `json:"executable"`
	Events      []game.EventKind `json:"events"`
	Config      json.RawMessage  `json:"config,omitempty"`
}

// Wants reports whether the plugin subscribes to kind.
// A manifest without events receives every kind.
func (m Manifest) Wants(kind game.EventKind) bool {
	if len(m.Events) == 0 {
		return true
	}
	for _, k := range m.Events {
		if k == kind {
			return true
		}
	}
	return false
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Event  game.Event      `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
