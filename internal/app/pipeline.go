package app

import (
	"errors"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchmaster/internal/capture"
	"github.com/ayusman/pinchmaster/internal/detector"
	"github.com/ayusman/pinchmaster/internal/game"
	"github.com/ayusman/pinchmaster/internal/geom"
	"github.com/ayusman/pinchmaster/internal/render"
)

// step processes one frame. It reports done when the loop should end cleanly.
//
// Frame logic:
// 1. Read and optionally mirror the frame
// 2. Check the frame can hold a target
// 3. Feed queued clicks to the machine
// 4. Update the machine; hands are detected only when it asks for a pinch
// 5. Dispatch events, draw, show and publish the frame
// 6. Poll for the quit key
func (a *App) step() (bool, error) {
	frame, err := a.config.Camera.ReadFrame()
	if errors.Is(err, capture.ErrFrameUnavailable) {
		log.Println("Camera stream ended")
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if a.settings.Mirror {
		capture.Mirror(frame)
	}

	b := geom.Bounds{Width: frame.Cols(), Height: frame.Rows()}
	if err := geom.ValidateBounds(b, a.settings.SpawnMargin); err != nil {
		return true, fmt.Errorf("camera frame %dx%d: %w", b.Width, b.Height, err)
	}

	now := a.config.Clock()

	var events []game.Event
	for n := a.config.Display.Clicks(); n > 0; n-- {
		events = append(events, a.machine.Click(now)...)
	}

	var hands []detector.HandLandmarks
	pinched := func(p geom.Point) bool {
		hands = a.detect(frame)
		tips, ok := a.pinch.Locate(hands, b)
		return ok && a.pinch.Check(tips, p)
	}

	updated, err := a.machine.Update(now, b, pinched)
	if err != nil {
		return true, err
	}
	events = append(events, updated...)

	for _, e := range events {
		a.dispatch(e)
	}

	snap := a.machine.Snapshot(now)
	a.mu.Lock()
	a.snapshot = snap
	a.frames++
	a.mu.Unlock()

	a.overlay.Draw(frame, render.View{Snapshot: snap, Hands: hands})
	a.config.Display.Show(frame)
	a.publishFrame(frame)

	key := a.config.Display.PollKey(a.settings.FrameDelayMs)
	if key >= 0 && key == a.settings.QuitKey {
		log.Println("Quit key pressed")
		return true, nil
	}
	if !a.config.Display.IsOpen() {
		log.Println("Window closed")
		return true, nil
	}

	return false, nil
}

// detect runs the hand detector. A failing detector counts as no hands.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		if !a.detectFailing {
			log.Printf("Hand detection failed: %v", err)
			a.detectFailing = true
		}
		return nil
	}
	if a.detectFailing {
		log.Println("Hand detection recovered")
		a.detectFailing = false
	}
	return hands
}

// dispatch fans an event out to the log, sound, websocket feed and listeners.
func (a *App) dispatch(e game.Event) {
	switch e.Kind {
	case game.EventScore:
		log.Printf("[%s] score %d at (%d,%d)", shortRound(e.Round), e.Score, e.Position.X, e.Position.Y)
	default:
		log.Printf("[%s] %s (state=%s, score=%d)", shortRound(e.Round), e.Kind, e.State, e.Score)
	}

	a.config.Sound.Play(e.Kind)

	if a.config.Events != nil {
		a.config.Events.Publish(e)
	}

	for _, fn := range a.config.Listeners {
		fn(e)
	}
}

func (a *App) publishFrame(frame *gocv.Mat) {
	if a.config.Frames == nil || !a.config.Frames.Wanted() {
		return
	}
	if err := a.config.Frames.PublishMat(frame); err != nil {
		log.Printf("Stream frame dropped: %v", err)
	}
}

// shortRound trims a round id for log lines.
func shortRound(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
