// Package capture reads webcam frames for the game loop using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrFrameUnavailable is returned when the device delivers no frame.
	// The game loop treats it as the end of the stream.
	ErrFrameUnavailable = errors.New("frame unavailable")
)

// Camera is a source of frames for the game loop.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// Options is the capture mode requested from the device.
// Zero or negative Width, Height and FPS leave the driver's choice.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
}

// DefaultOptions asks the first camera for 640x480 at 30 fps.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 480, FPS: 30}
}

type property struct {
	prop  gocv.VideoCaptureProperties
	value float64
}

// properties lists the capture properties to request, in the order they are set.
func (o Options) properties() []property {
	var props []property
	if o.Width > 0 {
		props = append(props, property{gocv.VideoCaptureFrameWidth, float64(o.Width)})
	}
	if o.Height > 0 {
		props = append(props, property{gocv.VideoCaptureFrameHeight, float64(o.Height)})
	}
	if o.FPS > 0 {
		props = append(props, property{gocv.VideoCaptureFPS, float64(o.FPS)})
	}
	return props
}

// Device is a Camera backed by gocv.VideoCapture.
type Device struct {
	opts    Options
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

var _ Camera = (*Device)(nil)

// NewCamera creates a Device. Nothing is opened until Open.
func NewCamera(opts Options) *Device {
	return &Device{opts: opts}
}

// Options returns the capture mode the device was created with.
func (d *Device) Options() Options {
	return d.opts
}

// Open opens the device and requests the configured mode. Drivers may pick
// a different resolution; the frames carry whatever was granted.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(d.opts.DeviceID)
	if err != nil {
		return fmt.Errorf("failed to open camera %d: %w", d.opts.DeviceID, err)
	}

	for _, p := range d.opts.properties() {
		vc.Set(p.prop, p.value)
	}
	log.Printf("Camera %d opened at %.0fx%.0f, %.0f fps", d.opts.DeviceID,
		vc.Get(gocv.VideoCaptureFrameWidth), vc.Get(gocv.VideoCaptureFrameHeight), vc.Get(gocv.VideoCaptureFPS))

	d.capture = vc
	return nil
}

// Close releases the device. Closing a closed device is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

// ReadFrame grabs the next frame. The caller closes the returned Mat.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrFrameUnavailable
	}
	return &mat, nil
}

// IsOpen reports whether Open succeeded and Close has not been called.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}
