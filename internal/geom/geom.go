// Package geom provides the pixel-space geometry shared by the target, the pinch detector and the renderer.
package geom

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
)

// DefaultMargin is the distance in pixels kept between a spawned point and the frame edges.
const DefaultMargin = 50

// ErrInvalidBounds is returned when a frame is too small to hold a spawn region.
var ErrInvalidBounds = errors.New("invalid bounds")

// Point is a pixel coordinate in the current video frame (origin top-left).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Image converts the point to an image.Point for drawing.
func (p Point) Image() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// Add returns p moved by v.
func (p Point) Add(v Velocity) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Velocity is a signed per-axis displacement applied once per tick.
type Velocity struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Bounds is the size of the frame the target moves in.
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ValidateBounds checks that a spawn region with the given margin fits inside b.
func ValidateBounds(b Bounds, margin int) error {
	if b.Width <= 2*margin || b.Height <= 2*margin {
		return fmt.Errorf("%w: %dx%d with margin %d", ErrInvalidBounds, b.Width, b.Height, margin)
	}
	return nil
}

// RandomPosition returns a point drawn uniformly from
// [margin, Width-margin] x [margin, Height-margin], both ends inclusive.
func RandomPosition(rng *rand.Rand, b Bounds, margin int) (Point, error) {
	if err := ValidateBounds(b, margin); err != nil {
		return Point{}, err
	}

	return Point{
		X: margin + rng.Intn(b.Width-2*margin+1),
		Y: margin + rng.Intn(b.Height-2*margin+1),
	}, nil
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
