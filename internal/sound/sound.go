// Package sound plays short synthesized cues for game events.
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/pinchmaster/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Player plays the cue for a game event.
type Player interface {
	Play(kind game.EventKind)
	Close()
}

// Noop is a Player that stays silent.
type Noop struct{}

func (Noop) Play(game.EventKind) {}
func (Noop) Close()              {}

// cue is a short melody: each note plays for step.
type cue struct {
	notes []float64
	step  time.Duration
}

var cues = map[game.EventKind]cue{
	game.EventCountdown: {notes: []float64{440}, step: 60 * time.Millisecond},
	game.EventStart:     {notes: []float64{660, 880}, step: 90 * time.Millisecond},
	game.EventScore:     {notes: []float64{880, 1320}, step: 60 * time.Millisecond},
	game.EventOver:      {notes: []float64{660, 550, 440}, step: 140 * time.Millisecond},
}

// Speaker plays cues through the default audio device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSpeaker opens the audio device.
func NewSpeaker() (*Speaker, error) {
	s := &Speaker{mixer: &beep.Mixer{}}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}

	speaker.Play(s.mixer)
	s.initialized = true
	return s, nil
}

// Play queues the cue for kind. Kinds without a cue are ignored.
func (s *Speaker) Play(kind game.EventKind) {
	c, ok := cues[kind]
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	streamer := NewToneGenerator(sampleRate, c.notes, c.step)
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
}

// Close stops playback and releases the audio device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
