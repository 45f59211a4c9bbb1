// Package app runs the Pinch Master frame loop: capture, detect, update the
// game, render and dispatch events.
package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/ayusman/pinchmaster/internal/capture"
	"github.com/ayusman/pinchmaster/internal/config"
	"github.com/ayusman/pinchmaster/internal/detector"
	"github.com/ayusman/pinchmaster/internal/game"
	"github.com/ayusman/pinchmaster/internal/gesture"
	"github.com/ayusman/pinchmaster/internal/render"
	"github.com/ayusman/pinchmaster/internal/server"
	"github.com/ayusman/pinchmaster/internal/sound"
)

// Config holds the collaborators of the frame loop.
// Nil fields get a default; Frames and Events stay off when nil.
type Config struct {
	Settings *config.Config
	Camera   capture.Camera
	Detector detector.Detector
	// Display is created inside Run when nil, on the loop's thread.
	Display render.Display
	Sound   sound.Player
	Frames  *server.FrameBuffer
	Events  *server.Hub
	// Listeners receive every game event on the loop goroutine.
	Listeners []func(game.Event)
	Clock     func() time.Time
	Rand      *rand.Rand
}

// App is the game host. It owns the Machine and everything the loop touches.
type App struct {
	config   Config
	settings *config.Config
	machine  *game.Machine
	pinch    *gesture.PinchDetector
	overlay  *render.Overlay

	mu       sync.RWMutex
	snapshot game.Snapshot
	frames   int

	detectFailing bool
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	if cfg.Camera == nil {
		cfg.Camera = capture.NewCamera(CameraOptions(settings))
	}

	// Try MediaPipe first, fall back to mock detector
	if cfg.Detector == nil {
		if mp, err := detector.NewMediaPipeDetector(DetectorConfig(settings)); err == nil {
			cfg.Detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			cfg.Detector = detector.NewMockDetector()
		}
	}

	if cfg.Sound == nil {
		cfg.Sound = sound.Noop{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &App{
		config:   cfg,
		settings: settings,
		machine:  game.NewMachine(GameSettings(settings), cfg.Rand),
		pinch:    gesture.NewPinchDetector(settings.PinchThreshold),
		overlay:  render.NewOverlay(settings.WindowTitle, settings.TargetRadius),
		snapshot: game.Snapshot{State: game.Idle},
	}
}

// GameSettings converts the configuration into game rules.
func GameSettings(c *config.Config) game.Settings {
	return game.Settings{
		GameDuration:      c.GameDuration,
		CountdownDuration: c.CountdownDuration,
		SpawnMargin:       c.SpawnMargin,
		Magnitudes:        c.VelocityMagnitudes,
		AnimationFrames:   c.AnimationFrames,
		AnimationStep:     c.AnimationStep,
	}
}

// CameraOptions converts the configuration into the requested capture mode.
func CameraOptions(c *config.Config) capture.Options {
	return capture.Options{
		DeviceID: c.CameraID,
		Width:    c.CameraWidth,
		Height:   c.CameraHeight,
		FPS:      c.CameraFPS,
	}
}

// DetectorConfig converts the configuration into MediaPipe options.
// Idle shutdown is off: the service stays loaded for the whole session.
func DetectorConfig(c *config.Config) detector.Config {
	dc := detector.DefaultConfig()
	dc.MaxHands = c.MaxHands
	dc.IdleShutdown = 0
	return dc
}

// Run drives the loop until the quit key, a closed window, the end of the
// camera stream or ctx cancellation. All devices are released on return.
func (a *App) Run(ctx context.Context) error {
	// highgui windows belong to the thread that created them
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}()

	defer func() {
		if err := a.config.Detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}()

	if a.config.Display == nil {
		a.config.Display = render.NewWindow(a.settings.WindowTitle)
	}
	defer func() {
		if err := a.config.Display.Close(); err != nil {
			log.Printf("Error closing window: %v", err)
		}
	}()

	defer a.config.Sound.Close()

	log.Println("Game loop started")
	defer log.Println("Game loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		done, err := a.step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Snapshot returns the state shown on the most recent frame.
func (a *App) Snapshot() game.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Frames returns the number of frames processed.
func (a *App) Frames() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames
}

// Machine returns the game state machine. It must only be used from the loop.
func (a *App) Machine() *game.Machine {
	return a.machine
}
