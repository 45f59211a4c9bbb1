// Package testdata builds synthetic camera frames for tests.
package testdata

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Standard webcam frame size.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// BlankFrame returns a black BGR frame of the given size.
func BlankFrame(width, height int) *gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
	return &m
}

// Sequence returns n blank frames of the standard size.
// Release them with CloseAll.
func Sequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frames[i] = BlankFrame(FrameWidth, FrameHeight)
	}
	return frames
}

// LoadFrame decodes an image file into a frame.
func LoadFrame(path string) (*gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("load frame %s: empty or unreadable", path)
	}
	return &mat, nil
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
