package game

import (
	"time"

	"github.com/ayusman/pinchmaster/internal/geom"
	"github.com/ayusman/pinchmaster/internal/target"
)

// Timing defaults.
const (
	DefaultGameDuration      = 30 * time.Second
	DefaultCountdownDuration = 3 * time.Second
)

// Settings holds the tunable rules of a game.
type Settings struct {
	GameDuration      time.Duration
	CountdownDuration time.Duration
	SpawnMargin       int
	Magnitudes        []int
	AnimationFrames   int
	AnimationStep     int
}

// DefaultSettings returns the standard 3 second countdown, 30 second game.
func DefaultSettings() Settings {
	return Settings{
		GameDuration:      DefaultGameDuration,
		CountdownDuration: DefaultCountdownDuration,
		SpawnMargin:       geom.DefaultMargin,
		Magnitudes:        target.DefaultMagnitudes,
		AnimationFrames:   DefaultAnimationFrames,
		AnimationStep:     DefaultAnimationStep,
	}
}

// withDefaults fills non-positive fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.GameDuration <= 0 {
		s.GameDuration = d.GameDuration
	}
	if s.CountdownDuration <= 0 {
		s.CountdownDuration = d.CountdownDuration
	}
	if s.SpawnMargin <= 0 {
		s.SpawnMargin = d.SpawnMargin
	}
	if len(s.Magnitudes) == 0 {
		s.Magnitudes = d.Magnitudes
	}
	if s.AnimationFrames <= 0 {
		s.AnimationFrames = d.AnimationFrames
	}
	if s.AnimationStep <= 0 {
		s.AnimationStep = d.AnimationStep
	}
	return s
}

// Session is the score and timers of the current round.
// A zero time means the timer is not set.
type Session struct {
	Round          string
	Score          int
	CountdownStart time.Time
	GameStart      time.Time
}

// Snapshot is a read-only view of the machine at one instant.
type Snapshot struct {
	State     State          `json:"state"`
	Round     string         `json:"round,omitempty"`
	Score     int            `json:"score"`
	Countdown int            `json:"countdown"`
	TimeLeft  int            `json:"time_left"`
	Target    *target.Target `json:"target,omitempty"`
	Ring      *Ring          `json:"ring,omitempty"`
}

// remainingSeconds is total minus whole elapsed seconds, the way the HUD counts down.
func remainingSeconds(total, elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	return int((total - elapsed.Truncate(time.Second)).Seconds())
}
