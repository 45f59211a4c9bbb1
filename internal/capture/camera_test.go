package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestOptions_Properties(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []property
	}{
		{
			name: "defaults",
			opts: DefaultOptions(),
			want: []property{
				{gocv.VideoCaptureFrameWidth, 640},
				{gocv.VideoCaptureFrameHeight, 480},
				{gocv.VideoCaptureFPS, 30},
			},
		},
		{
			name: "fps only",
			opts: Options{DeviceID: 2, FPS: 60},
			want: []property{{gocv.VideoCaptureFPS, 60}},
		},
		{
			name: "driver choice",
			opts: Options{Width: 0, Height: -1, FPS: 0},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.properties()
			if len(got) != len(tt.want) {
				t.Fatalf("properties() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("property %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewCamera_Closed(t *testing.T) {
	opts := Options{DeviceID: 1, Width: 1280, Height: 720, FPS: 24}
	cam := NewCamera(opts)

	if cam.Options() != opts {
		t.Errorf("Options() = %+v, want %+v", cam.Options(), opts)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open before Open()")
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on a closed camera = %v, want nil", err)
	}
}

func TestCamera_OpenReadClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultOptions())
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}
	if err := cam.Open(); err != nil {
		t.Errorf("second Open() = %v, want nil", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned an empty frame")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() after Close() error = %v, want ErrCameraNotOpen", err)
	}
}
