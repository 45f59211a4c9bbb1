package game

import "github.com/ayusman/pinchmaster/internal/geom"

// Animation defaults.
const (
	DefaultAnimationFrames = 10
	DefaultAnimationStep   = 5
)

// Ring is one frame of the expanding score ring.
type Ring struct {
	Center geom.Point `json:"center"`
	Radius int        `json:"radius"`
}

// Animation is the expanding ring shown where the target was pinched.
// Only one ring is in flight; a new trigger restarts it.
type Animation struct {
	frames int
	step   int
	center geom.Point
	frame  int // 0 means inactive
}

// NewAnimation creates an inactive animation lasting frames frames and growing
// step pixels per frame. Non-positive values use the defaults.
func NewAnimation(frames, step int) *Animation {
	if frames <= 0 {
		frames = DefaultAnimationFrames
	}
	if step <= 0 {
		step = DefaultAnimationStep
	}
	return &Animation{frames: frames, step: step}
}

// Trigger starts the ring at p, replacing any ring still in flight.
func (a *Animation) Trigger(p geom.Point) {
	a.center = p
	a.frame = 1
}

// Advance returns the ring to draw this frame and moves to the next one.
// It returns false when the animation is inactive.
func (a *Animation) Advance() (Ring, bool) {
	if a.frame <= 0 {
		return Ring{}, false
	}

	ring := Ring{Center: a.center, Radius: a.frame * a.step}
	a.frame++
	if a.frame > a.frames {
		a.frame = 0
	}
	return ring, true
}

// Active reports whether a ring is in flight.
func (a *Animation) Active() bool {
	return a.frame > 0
}

// Frame returns the current frame index, 0 when inactive.
func (a *Animation) Frame() int {
	return a.frame
}

// Reset stops the ring.
func (a *Animation) Reset() {
	a.frame = 0
}
