// Package game implements the pinch game rules: the Idle/Countdown/Running/Over
// state machine, its timers and score, and the score feedback animation.
package game

import "fmt"

// State is the phase the game is in. Exactly one holds at a time.
type State int

const (
	// Idle shows the title screen and waits for a click.
	Idle State = iota
	// Countdown runs the pre-game timer; clicks are ignored.
	Countdown
	// Running moves the target and scores pinches until the game timer expires.
	Running
	// Over shows the final score and waits for a click to reset.
	Over
)

var stateNames = map[State]string{
	Idle:      "idle",
	Countdown: "countdown",
	Running:   "running",
	Over:      "over",
}

// String returns the lower-case state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name so it reads well in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
