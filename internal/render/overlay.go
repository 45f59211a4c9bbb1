// Package render draws the game onto camera frames and shows them in a window.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchmaster/internal/detector"
	"github.com/ayusman/pinchmaster/internal/game"
	"github.com/ayusman/pinchmaster/internal/geom"
	"github.com/ayusman/pinchmaster/internal/gesture"
)

// Colors of the game screens.
var (
	ColorText       = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	ColorHUD        = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	ColorTarget     = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	ColorRing       = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	ColorPinchLine  = color.RGBA{R: 255, G: 165, B: 0, A: 0}
	ColorLandmark   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	ColorConnection = color.RGBA{R: 224, G: 224, B: 224, A: 0}
)

const (
	font = gocv.FontHersheySimplex

	// DefaultTargetRadius is the drawn radius of the target in pixels.
	DefaultTargetRadius = 30

	titleScale     = 2.0
	titleThickness = 3
	textScale      = 1.0
	textThickness  = 2
	countdownScale = 1.5
	ringThickness  = 2
	lineThickness  = 2
	landmarkRadius = 3
	titleLift      = 50
	retryDrop      = 50
)

// View is everything the overlay needs to draw one frame.
type View struct {
	Snapshot game.Snapshot
	// Hands are drawn only while the game is running.
	Hands []detector.HandLandmarks
}

// Overlay draws the game screens onto a frame.
type Overlay struct {
	title        string
	targetRadius int
}

// NewOverlay creates an Overlay. An empty title or non-positive radius uses defaults.
func NewOverlay(title string, targetRadius int) *Overlay {
	if title == "" {
		title = "Pinch Master"
	}
	if targetRadius <= 0 {
		targetRadius = DefaultTargetRadius
	}
	return &Overlay{title: title, targetRadius: targetRadius}
}

// Draw renders the screen for v.Snapshot onto frame in place.
func (o *Overlay) Draw(frame *gocv.Mat, v View) {
	if frame == nil || frame.Empty() {
		return
	}
	b := geom.Bounds{Width: frame.Cols(), Height: frame.Rows()}
	snap := v.Snapshot

	switch snap.State {
	case game.Idle:
		o.drawIdle(frame, b)
	case game.Countdown:
		text := fmt.Sprintf("%d", snap.Countdown)
		size := gocv.GetTextSize(text, font, countdownScale, textThickness)
		org := image.Pt(centerX(b.Width, size.X), (b.Height+size.Y)/2)
		gocv.PutText(frame, text, org, font, countdownScale, ColorText, textThickness)
	case game.Running:
		for i := range v.Hands {
			drawHand(frame, &v.Hands[i], b)
		}
		if snap.Target != nil {
			gocv.Circle(frame, snap.Target.Position.Image(), o.targetRadius, ColorTarget, -1)
		}
		gocv.PutText(frame, fmt.Sprintf("Score: %d", snap.Score), image.Pt(10, 30), font, textScale, ColorHUD, textThickness)
		gocv.PutText(frame, fmt.Sprintf("Time: %d", snap.TimeLeft), image.Pt(10, 70), font, textScale, ColorHUD, textThickness)
	case game.Over:
		o.drawOver(frame, b, snap.Score)
	}

	if snap.Ring != nil {
		gocv.Circle(frame, snap.Ring.Center.Image(), snap.Ring.Radius, ColorRing, ringThickness)
	}
}

func (o *Overlay) drawIdle(frame *gocv.Mat, b geom.Bounds) {
	size := gocv.GetTextSize(o.title, font, titleScale, titleThickness)
	org := image.Pt(centerX(b.Width, size.X), b.Height/2-titleLift)
	gocv.PutText(frame, o.title, org, font, titleScale, ColorText, titleThickness)

	drawCentered(frame, "Click to Start", b.Width, b.Height/2)
}

func (o *Overlay) drawOver(frame *gocv.Mat, b geom.Bounds, score int) {
	y := b.Height / 2
	drawCentered(frame, fmt.Sprintf("Score: %d", score), b.Width, y)
	drawCentered(frame, "Click to Retry", b.Width, y+retryDrop)
}

func drawCentered(frame *gocv.Mat, text string, width, y int) {
	size := gocv.GetTextSize(text, font, textScale, textThickness)
	gocv.PutText(frame, text, image.Pt(centerX(width, size.X), y), font, textScale, ColorText, textThickness)
}

// drawHand draws the landmark skeleton and the thumb to index line.
func drawHand(frame *gocv.Mat, hand *detector.HandLandmarks, b geom.Bounds) {
	var pts [detector.NumLandmarks]image.Point
	for i, p := range hand.Points {
		pts[i] = image.Pt(int(p.X*float64(b.Width)), int(p.Y*float64(b.Height)))
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, pts[c[0]], pts[c[1]], ColorConnection, lineThickness)
	}
	for _, p := range pts {
		gocv.Circle(frame, p, landmarkRadius, ColorLandmark, -1)
	}

	tips := gesture.TipsFromHand(hand, b)
	gocv.Line(frame, tips.Thumb.Image(), tips.Index.Image(), ColorPinchLine, lineThickness)
}

// centerX returns the x origin that centers text of textWidth in width.
func centerX(width, textWidth int) int {
	return (width - textWidth) / 2
}
