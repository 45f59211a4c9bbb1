// Package gesture recognizes the pinch gesture: thumb tip and index finger tip
// both closing on the target.
package gesture

import (
	"github.com/ayusman/pinchmaster/internal/detector"
	"github.com/ayusman/pinchmaster/internal/geom"
)

// DefaultThreshold is the pinch distance in pixels.
const DefaultThreshold = 45.0

// Fingertips holds the pixel positions of the two tips that form a pinch.
type Fingertips struct {
	Thumb geom.Point `json:"thumb"`
	Index geom.Point `json:"index"`
}

// CheckPinch reports whether the thumb tip and the index tip are each strictly
// closer than threshold to the target center.
func CheckPinch(thumb, index, target geom.Point, threshold float64) bool {
	return geom.Distance(thumb, target) < threshold &&
		geom.Distance(index, target) < threshold
}

// TipsFromHand converts the normalized thumb and index tip landmarks of hand
// into pixel coordinates for a frame of size b. Coordinates are truncated.
func TipsFromHand(hand *detector.HandLandmarks, b geom.Bounds) Fingertips {
	return Fingertips{
		Thumb: toPixel(hand.Points[detector.ThumbTip], b),
		Index: toPixel(hand.Points[detector.IndexTip], b),
	}
}

func toPixel(p detector.Point3D, b geom.Bounds) geom.Point {
	return geom.Point{
		X: int(p.X * float64(b.Width)),
		Y: int(p.Y * float64(b.Height)),
	}
}

// PinchDetector applies CheckPinch to the output of a hand detector.
type PinchDetector struct {
	threshold float64
}

// NewPinchDetector creates a PinchDetector. Non-positive thresholds use DefaultThreshold.
func NewPinchDetector(threshold float64) *PinchDetector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &PinchDetector{threshold: threshold}
}

// Threshold returns the pinch distance in pixels.
func (d *PinchDetector) Threshold() float64 {
	return d.threshold
}

// Locate returns the fingertips of the first detected hand.
// It returns false when no hand was detected; that is not an error.
func (d *PinchDetector) Locate(hands []detector.HandLandmarks, b geom.Bounds) (Fingertips, bool) {
	if len(hands) == 0 {
		return Fingertips{}, false
	}
	return TipsFromHand(&hands[0], b), true
}

// Check reports whether tips pinch the target centered at target.
func (d *PinchDetector) Check(tips Fingertips, target geom.Point) bool {
	return CheckPinch(tips.Thumb, tips.Index, target, d.threshold)
}
