// Package target implements the moving target: random spawning and bounce-off-walls motion.
package target

import (
	"math/rand"

	"github.com/ayusman/pinchmaster/internal/geom"
)

// DefaultMagnitudes is the per-axis speed set, in pixels per tick. A random sign is applied per axis.
var DefaultMagnitudes = []int{15, 17, 20}

// Target is the single on-screen object the player pinches.
type Target struct {
	Position geom.Point    `json:"position"`
	Velocity geom.Velocity `json:"velocity"`
}

// Spawn places a new target at a random position inside b with a random velocity.
func Spawn(rng *rand.Rand, b geom.Bounds, margin int, magnitudes []int) (Target, error) {
	pos, err := geom.RandomPosition(rng, b, margin)
	if err != nil {
		return Target{}, err
	}

	return Target{
		Position: pos,
		Velocity: RandomVelocity(rng, magnitudes),
	}, nil
}

// RandomVelocity picks each axis independently from magnitudes with a random sign.
// An empty or zero-only set falls back to DefaultMagnitudes so the target never stalls.
func RandomVelocity(rng *rand.Rand, magnitudes []int) geom.Velocity {
	if !usable(magnitudes) {
		magnitudes = DefaultMagnitudes
	}

	return geom.Velocity{
		DX: signedPick(rng, magnitudes),
		DY: signedPick(rng, magnitudes),
	}
}

func signedPick(rng *rand.Rand, magnitudes []int) int {
	for {
		m := magnitudes[rng.Intn(len(magnitudes))]
		if m < 0 {
			m = -m
		}
		if m == 0 {
			continue
		}
		if rng.Intn(2) == 0 {
			return -m
		}
		return m
	}
}

func usable(magnitudes []int) bool {
	for _, m := range magnitudes {
		if m != 0 {
			return true
		}
	}
	return false
}

// Tick moves the target by its velocity, then reverses each axis whose new
// coordinate is at or beyond a frame edge. The check runs after the move, so
// the target may sit up to one step outside the frame for a single tick.
func (t *Target) Tick(b geom.Bounds) {
	t.Position = t.Position.Add(t.Velocity)

	if t.Position.X <= 0 || t.Position.X >= b.Width {
		t.Velocity.DX = -t.Velocity.DX
	}
	if t.Position.Y <= 0 || t.Position.Y >= b.Height {
		t.Velocity.DY = -t.Velocity.DY
	}
}
