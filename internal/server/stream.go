package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"gocv.io/x/gocv"
)

// FrameBuffer holds the latest rendered frame as JPEG for stream viewers.
// The game loop publishes into it only while someone is watching.
type FrameBuffer struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	viewers int
	updated chan struct{}
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{updated: make(chan struct{})}
}

// Wanted reports whether any viewer is connected.
func (b *FrameBuffer) Wanted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewers > 0
}

// Publish replaces the latest frame and wakes waiting viewers.
func (b *FrameBuffer) Publish(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.jpeg = jpeg
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
}

// PublishMat encodes frame as JPEG and publishes it.
func (b *FrameBuffer) PublishMat(frame *gocv.Mat) error {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	b.Publish(data)
	return nil
}

// Next blocks until a frame newer than after is available.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > after && b.jpeg != nil {
			data, seq := b.jpeg, b.seq
			b.mu.Unlock()
			return data, seq, nil
		}
		ch := b.updated
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-ch:
		}
	}
}

func (b *FrameBuffer) join() {
	b.mu.Lock()
	b.viewers++
	b.mu.Unlock()
}

func (b *FrameBuffer) leave() {
	b.mu.Lock()
	b.viewers--
	b.mu.Unlock()
}

// StreamHandler serves the rendered game view as MJPEG.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.frames.join()
	defer h.frames.leave()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var seq uint64
	for {
		data, next, err := h.frames.Next(r.Context(), seq)
		if err != nil {
			return
		}
		seq = next

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
