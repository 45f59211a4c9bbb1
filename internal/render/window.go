package render

import (
	"sync"

	"gocv.io/x/gocv"
)

// highgui mouse event code for a left button press.
const eventLeftButtonDown = 1

// Display shows frames and collects player input.
type Display interface {
	Show(frame *gocv.Mat)
	// PollKey waits up to delayMs for a key and returns its code, or -1.
	PollKey(delayMs int) int
	// Clicks returns the left clicks received since the previous call.
	Clicks() int
	IsOpen() bool
	Close() error
}

// Window is a highgui window that queues left clicks.
// Mouse callbacks fire during PollKey, on the thread that owns the window.
type Window struct {
	win    *gocv.Window
	mu     sync.Mutex
	clicks int
}

// NewWindow opens a window named title.
func NewWindow(title string) *Window {
	w := &Window{win: gocv.NewWindow(title)}
	w.win.SetMouseHandler(w.onMouse, nil)
	return w
}

func (w *Window) onMouse(event, x, y, flags int, userdata interface{}) {
	if event != eventLeftButtonDown {
		return
	}
	w.mu.Lock()
	w.clicks++
	w.mu.Unlock()
}

// Show displays frame.
func (w *Window) Show(frame *gocv.Mat) {
	w.win.IMShow(*frame)
}

// PollKey waits up to delayMs for a key press.
func (w *Window) PollKey(delayMs int) int {
	key := w.win.WaitKey(delayMs)
	if key < 0 {
		return -1
	}
	return key & 0xFF
}

// Clicks drains the click queue.
func (w *Window) Clicks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := w.clicks
	w.clicks = 0
	return n
}

// IsOpen reports whether the window is still shown.
func (w *Window) IsOpen() bool {
	return w.win.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
