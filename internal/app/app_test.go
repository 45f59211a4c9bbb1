package app

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchmaster/internal/capture"
	"github.com/ayusman/pinchmaster/internal/config"
	"github.com/ayusman/pinchmaster/internal/detector"
	"github.com/ayusman/pinchmaster/internal/game"
	"github.com/ayusman/pinchmaster/internal/geom"
)

// fakeDisplay counts frames by PollKey calls and replays scripted input.
type fakeDisplay struct {
	frame    int
	clicksAt map[int]int
	quitAt   int
	shown    int
	closed   bool
}

func (d *fakeDisplay) Show(*gocv.Mat) { d.shown++ }

func (d *fakeDisplay) PollKey(int) int {
	d.frame++
	if d.quitAt > 0 && d.frame >= d.quitAt {
		return 27
	}
	return -1
}

func (d *fakeDisplay) Clicks() int  { return d.clicksAt[d.frame] }
func (d *fakeDisplay) IsOpen() bool { return true }
func (d *fakeDisplay) Close() error { d.closed = true; return nil }

// stepClock advances by step on every reading.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// targetDetector reports a hand pinching wherever the target currently is.
type targetDetector struct {
	app   *App
	calls int
}

func (d *targetDetector) Detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	d.calls++
	tgt, ok := d.app.Machine().Target()
	if !ok {
		return nil, nil
	}
	x := float64(tgt.Position.X) / float64(frame.Cols())
	y := float64(tgt.Position.Y) / float64(frame.Rows())
	return []detector.HandLandmarks{detector.PinchLandmarks(x, y)}, nil
}

func (d *targetDetector) Close() error { return nil }

type recordingPlayer struct {
	played []game.EventKind
	closed bool
}

func (p *recordingPlayer) Play(kind game.EventKind) { p.played = append(p.played, kind) }
func (p *recordingPlayer) Close()                   { p.closed = true }

func newFrames(t *testing.T, rows, cols, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
		frames[i] = &m
		t.Cleanup(func() { m.Close() })
	}
	return frames
}

func TestGameSettings(t *testing.T) {
	cfg := config.Default()
	cfg.GameDuration = 10 * time.Second
	cfg.VelocityMagnitudes = []int{4}

	s := GameSettings(cfg)
	if s.GameDuration != 10*time.Second || s.CountdownDuration != 3*time.Second {
		t.Errorf("durations = %v, %v", s.GameDuration, s.CountdownDuration)
	}
	if len(s.Magnitudes) != 1 || s.Magnitudes[0] != 4 {
		t.Errorf("Magnitudes = %v", s.Magnitudes)
	}
	if s.SpawnMargin != 50 || s.AnimationFrames != 10 || s.AnimationStep != 5 {
		t.Errorf("unexpected settings %+v", s)
	}
}

func TestCameraOptions(t *testing.T) {
	cfg := config.Default()
	cfg.CameraID = 2
	cfg.CameraFPS = 60

	got := CameraOptions(cfg)
	want := capture.Options{DeviceID: 2, Width: 640, Height: 480, FPS: 60}
	if got != want {
		t.Errorf("CameraOptions() = %+v, want %+v", got, want)
	}
}

func TestDetectorConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxHands = 2

	dc := DetectorConfig(cfg)
	if dc.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", dc.MaxHands)
	}
	if dc.IdleShutdown != 0 {
		t.Errorf("IdleShutdown = %v, want 0 so the service survives between rounds", dc.IdleShutdown)
	}
	if dc.MinConfidence != detector.DefaultConfig().MinConfidence {
		t.Errorf("MinConfidence = %v", dc.MinConfidence)
	}
}

func TestApp_FullRound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	cam := capture.NewMockCamera(newFrames(t, 480, 640, 1), true)
	display := &fakeDisplay{clicksAt: map[int]int{0: 1, 340: 1}, quitAt: 400}
	clock := &stepClock{t: time.Unix(1000, 0), step: 100 * time.Millisecond}
	player := &recordingPlayer{}

	var events []game.Event
	det := &targetDetector{}
	a := New(Config{
		Settings:  config.Default(),
		Camera:    cam,
		Detector:  det,
		Display:   display,
		Sound:     player,
		Clock:     clock.Now,
		Rand:      rand.New(rand.NewSource(1)),
		Listeners: []func(game.Event){func(e game.Event) { events = append(events, e) }},
	})
	det.app = a

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if a.Frames() != 400 {
		t.Errorf("Frames() = %d, want 400", a.Frames())
	}
	if display.shown != 400 {
		t.Errorf("shown = %d, want 400", display.shown)
	}
	if !display.closed || !player.closed || cam.IsOpen() {
		t.Error("Run() should release the display, sound and camera")
	}

	if len(events) < 4 {
		t.Fatalf("got %d events, want at least 4", len(events))
	}
	if events[0].Kind != game.EventCountdown || events[1].Kind != game.EventStart {
		t.Errorf("first events = %s, %s", events[0].Kind, events[1].Kind)
	}
	last := events[len(events)-1]
	over := events[len(events)-2]
	if over.Kind != game.EventOver || last.Kind != game.EventReset {
		t.Errorf("last events = %s, %s; want over, reset", over.Kind, last.Kind)
	}

	scores := 0
	for _, e := range events {
		if e.Kind == game.EventScore {
			scores++
			if e.Score != scores {
				t.Errorf("score event %d carries score %d", scores, e.Score)
			}
		}
		if e.Round != events[0].Round {
			t.Errorf("event %s has round %q, want %q", e.Kind, e.Round, events[0].Round)
		}
	}
	if scores == 0 {
		t.Error("a hand pinching the target should score")
	}
	if over.Score != scores {
		t.Errorf("over score = %d, want %d", over.Score, scores)
	}

	// Detection runs only on Running frames that are not timing out
	if det.calls != scores {
		t.Errorf("detector calls = %d, want %d", det.calls, scores)
	}

	if len(player.played) != len(events) {
		t.Errorf("sound cues = %d, want one per event (%d)", len(player.played), len(events))
	}

	snap := a.Snapshot()
	if snap.State != game.Idle || snap.Score != 0 {
		t.Errorf("final snapshot = %+v, want idle with zero score", snap)
	}
}

func TestApp_NoClickNoDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PinchLandmarks(0.5, 0.5)})

	a := New(Config{
		Camera:   capture.NewMockCamera(newFrames(t, 480, 640, 1), true),
		Detector: det,
		Display:  &fakeDisplay{quitAt: 20},
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if det.Calls() != 0 {
		t.Errorf("detector called %d times while idle", det.Calls())
	}
	if a.Snapshot().State != game.Idle {
		t.Errorf("state = %s, want idle", a.Snapshot().State)
	}
}

func TestApp_DetectorErrorIsNotFatal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	det := detector.NewMockDetector()
	det.SetError(errors.New("pipe closed"))
	clock := &stepClock{t: time.Unix(0, 0), step: 100 * time.Millisecond}

	a := New(Config{
		Camera:   capture.NewMockCamera(newFrames(t, 480, 640, 1), true),
		Detector: det,
		Display:  &fakeDisplay{clicksAt: map[int]int{0: 1}, quitAt: 60},
		Clock:    clock.Now,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if det.Calls() == 0 {
		t.Error("detector should have been asked while running")
	}
	snap := a.Snapshot()
	if snap.State != game.Running || snap.Score != 0 {
		t.Errorf("snapshot = %+v, want running with zero score", snap)
	}
}

func TestApp_StreamEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	display := &fakeDisplay{}
	a := New(Config{
		Camera:   capture.NewMockCamera(newFrames(t, 480, 640, 3), false),
		Detector: detector.NewMockDetector(),
		Display:  display,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil at end of stream", err)
	}
	if a.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", a.Frames())
	}
	if !display.closed {
		t.Error("display should be closed")
	}
}

func TestApp_FrameTooSmall(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	a := New(Config{
		Camera:   capture.NewMockCamera(newFrames(t, 80, 80, 1), true),
		Detector: detector.NewMockDetector(),
		Display:  &fakeDisplay{},
	})

	err := a.Run(context.Background())
	if !errors.Is(err, geom.ErrInvalidBounds) {
		t.Errorf("Run() error = %v, want ErrInvalidBounds", err)
	}
	if a.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", a.Frames())
	}
}

func TestApp_FrameShrinksMidSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	frames := append(newFrames(t, 480, 640, 2), newFrames(t, 80, 80, 1)...)
	a := New(Config{
		Camera:   capture.NewMockCamera(frames, false),
		Detector: detector.NewMockDetector(),
		Display:  &fakeDisplay{clicksAt: map[int]int{0: 1}},
	})

	err := a.Run(context.Background())
	if !errors.Is(err, geom.ErrInvalidBounds) {
		t.Fatalf("Run() error = %v, want ErrInvalidBounds", err)
	}
	if !strings.Contains(err.Error(), "camera frame 80x80") {
		t.Errorf("Run() error = %q, want it to name the camera frame", err)
	}
	if a.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", a.Frames())
	}
}

func TestApp_ContextCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	cam := capture.NewMockCamera(newFrames(t, 480, 640, 1), true)
	display := &fakeDisplay{}
	a := New(Config{
		Camera:   cam,
		Detector: detector.NewMockDetector(),
		Display:  display,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", a.Frames())
	}
	if cam.IsOpen() || !display.closed {
		t.Error("Run() should release devices on cancellation")
	}
}
