package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	amplitude = 0.25
	fadeTime  = 5 * time.Millisecond
)

// ToneGenerator plays a sequence of sine notes of equal length, then ends.
type ToneGenerator struct {
	sr    beep.SampleRate
	notes []float64
	step  int
	fade  int
	pos   int
}

// NewToneGenerator creates a generator playing notes (Hz), each for step.
func NewToneGenerator(sr beep.SampleRate, notes []float64, step time.Duration) *ToneGenerator {
	return &ToneGenerator{
		sr:    sr,
		notes: notes,
		step:  sr.N(step),
		fade:  sr.N(fadeTime),
	}
}

// Len returns the total number of samples.
func (g *ToneGenerator) Len() int {
	return len(g.notes) * g.step
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.Len()
	if g.pos >= total {
		return 0, false
	}

	for i := range samples {
		if g.pos >= total {
			return i, true
		}

		note := g.pos / g.step
		offset := g.pos % g.step
		t := float64(offset) / float64(g.sr)

		sample := amplitude * math.Sin(2*math.Pi*g.notes[note]*t)

		// Short fade at both ends of each note avoids clicks
		if g.fade > 0 {
			env := 1.0
			if offset < g.fade {
				env = float64(offset) / float64(g.fade)
			} else if g.step-offset < g.fade {
				env = float64(g.step-offset) / float64(g.fade)
			}
			sample *= env
		}

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}
