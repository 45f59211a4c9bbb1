package game

import (
	"time"

	"github.com/ayusman/pinchmaster/internal/geom"
)

// EventKind names what happened in an Event.
type EventKind string

// Event kinds, one per transition plus one per scored pinch.
const (
	EventCountdown EventKind = "countdown"
	EventStart     EventKind = "start"
	EventScore     EventKind = "score"
	EventOver      EventKind = "over"
	EventReset     EventKind = "reset"
)

// Event reports a state transition or a scored pinch.
type Event struct {
	Kind     EventKind  `json:"kind"`
	Round    string     `json:"round"`
	State    State      `json:"state"`
	Score    int        `json:"score"`
	Position geom.Point `json:"position"`
	At       time.Time  `json:"at"`
}
