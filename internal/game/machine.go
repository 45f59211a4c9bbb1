package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ayusman/pinchmaster/internal/geom"
	"github.com/ayusman/pinchmaster/internal/target"
	"github.com/google/uuid"
)

// PinchFunc reports whether the player is pinching the target centered at p.
// It is only called while the game is Running.
type PinchFunc func(p geom.Point) bool

// Machine is the game state machine. It is owned by the frame loop and is not
// safe for concurrent use.
type Machine struct {
	settings Settings
	rng      *rand.Rand

	state   State
	session Session
	target  target.Target
	anim    *Animation
	ring    *Ring
}

// NewMachine creates a machine in the Idle state.
func NewMachine(settings Settings, rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings = settings.withDefaults()
	return &Machine{
		settings: settings,
		rng:      rng,
		state:    Idle,
		anim:     NewAnimation(settings.AnimationFrames, settings.AnimationStep),
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	return m.session
}

// Score returns the current score.
func (m *Machine) Score() int {
	return m.session.Score
}

// Target returns the target. It is only meaningful while Running or Over.
func (m *Machine) Target() (target.Target, bool) {
	return m.target, m.state == Running || m.state == Over
}

// Click handles a click anywhere on the display. It starts the countdown from
// Idle and resets from Over; clicks in other states are ignored.
func (m *Machine) Click(now time.Time) []Event {
	switch m.state {
	case Idle:
		m.session.Round = uuid.NewString()
		m.session.CountdownStart = now
		m.state = Countdown
		return []Event{m.event(EventCountdown, now)}

	case Over:
		round := m.session.Round
		m.Reset()
		ev := m.event(EventReset, now)
		ev.Round = round
		return []Event{ev}
	}

	return nil
}

// Reset returns to Idle with a zero score, cleared timers and no ring in flight.
func (m *Machine) Reset() {
	m.state = Idle
	m.session = Session{}
	m.anim.Reset()
	m.ring = nil
}

// Update advances the game by one frame. While Running it asks pinch whether
// the target is pinched; a pinch scores once and respawns the target before
// the target moves, so the same pinch cannot score twice. The feedback ring
// advances on every call whatever the state.
func (m *Machine) Update(now time.Time, b geom.Bounds, pinch PinchFunc) ([]Event, error) {
	var events []Event

	switch m.state {
	case Countdown:
		if now.Sub(m.session.CountdownStart) >= m.settings.CountdownDuration {
			if err := m.start(now, b); err != nil {
				return nil, err
			}
			events = append(events, m.event(EventStart, now))
		}

	case Running:
		if now.Sub(m.session.GameStart) >= m.settings.GameDuration {
			m.state = Over
			events = append(events, m.event(EventOver, now))
			break
		}

		if pinch != nil && pinch(m.target.Position) {
			pos := m.target.Position
			if err := m.respawn(b); err != nil {
				return nil, err
			}
			m.session.Score++
			m.anim.Trigger(pos)

			ev := m.event(EventScore, now)
			ev.Position = pos
			events = append(events, ev)
		}

		m.target.Tick(b)
	}

	m.ring = nil
	if ring, ok := m.anim.Advance(); ok {
		m.ring = &ring
	}

	return events, nil
}

func (m *Machine) start(now time.Time, b geom.Bounds) error {
	if err := m.respawn(b); err != nil {
		return err
	}
	m.session.GameStart = now
	m.state = Running
	return nil
}

func (m *Machine) respawn(b geom.Bounds) error {
	t, err := target.Spawn(m.rng, b, m.settings.SpawnMargin, m.settings.Magnitudes)
	if err != nil {
		return fmt.Errorf("spawn target: %w", err)
	}
	m.target = t
	return nil
}

// CountdownRemaining returns the whole seconds shown during the countdown.
func (m *Machine) CountdownRemaining(now time.Time) int {
	if m.state != Countdown {
		return 0
	}
	return remainingSeconds(m.settings.CountdownDuration, now.Sub(m.session.CountdownStart))
}

// TimeRemaining returns the whole seconds left in the running game.
func (m *Machine) TimeRemaining(now time.Time) int {
	if m.state != Running {
		return 0
	}
	return remainingSeconds(m.settings.GameDuration, now.Sub(m.session.GameStart))
}

// Snapshot returns a view of the machine for rendering and observers.
// The ring is the one produced by the last Update.
func (m *Machine) Snapshot(now time.Time) Snapshot {
	s := Snapshot{
		State:     m.state,
		Round:     m.session.Round,
		Score:     m.session.Score,
		Countdown: m.CountdownRemaining(now),
		TimeLeft:  m.TimeRemaining(now),
	}
	if t, ok := m.Target(); ok {
		s.Target = &t
	}
	if m.ring != nil {
		ring := *m.ring
		s.Ring = &ring
	}
	return s
}

func (m *Machine) event(kind EventKind, now time.Time) Event {
	return Event{
		Kind:  kind,
		Round: m.session.Round,
		State: m.state,
		Score: m.session.Score,
		At:    now,
	}
}
