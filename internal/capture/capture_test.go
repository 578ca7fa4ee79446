package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"testing"
	"time"
)

type stubSource struct {
	grabs int
}

func (s *stubSource) Grab() (image.Image, error) {
	s.grabs++
	return image.NewRGBA(image.Rect(0, 0, 4, 2)), nil
}

func (s *stubSource) Close() error { return nil }

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSessionBuffersFramesInOrder(t *testing.T) {
	src := &stubSource{}
	cam := NewCamera(func() (VideoSource, error) { return src, nil }, testLogger())
	cam.Interval = 2 * time.Millisecond

	session, err := cam.Start(context.Background())
	if err != nil {
		t.Fatalf("Failed to start capture: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for session.FrameCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	frames := session.Stop()
	if len(frames) < 3 {
		t.Fatalf("Expected at least 3 frames, got %d", len(frames))
	}

	for i, frame := range frames {
		if frame.Index != i {
			t.Errorf("Frame %d has index %d", i, frame.Index)
		}
		if frame.Image == nil {
			t.Errorf("Frame %d has nil image", i)
		}
	}

	for i := 1; i < len(frames); i++ {
		if frames[i].Timestamp.Before(frames[i-1].Timestamp) {
			t.Errorf("Frame %d captured before frame %d", i, i-1)
		}
	}
}

func TestStopDisarmsImmediately(t *testing.T) {
	cam := NewCamera(func() (VideoSource, error) { return &stubSource{}, nil }, testLogger())
	cam.Interval = 2 * time.Millisecond

	session, err := cam.Start(context.Background())
	if err != nil {
		t.Fatalf("Failed to start capture: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	frames := session.Stop()
	count := len(frames)

	time.Sleep(20 * time.Millisecond)
	if session.FrameCount() != count {
		t.Errorf("Frames appended after stop: %d -> %d", count, session.FrameCount())
	}

	// Stop is idempotent and returns the same buffer.
	again := session.Stop()
	if len(again) != count {
		t.Errorf("Second stop returned %d frames, want %d", len(again), count)
	}
}

func TestCancelStopsSampling(t *testing.T) {
	cam := NewCamera(func() (VideoSource, error) { return &stubSource{}, nil }, testLogger())
	cam.Interval = 2 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	session, err := cam.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start capture: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	cancel()

	// Already-buffered frames remain after abort.
	frames := session.Stop()
	if len(frames) == 0 {
		t.Error("Expected buffered frames to survive cancellation")
	}
}

func TestExclusiveDevice(t *testing.T) {
	cam := NewCamera(func() (VideoSource, error) { return &stubSource{}, nil }, testLogger())
	cam.Interval = 2 * time.Millisecond

	session, err := cam.Start(context.Background())
	if err != nil {
		t.Fatalf("Failed to start capture: %v", err)
	}

	if _, err := cam.Start(context.Background()); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable for second session, got %v", err)
	}

	session.Stop()

	// Device is reusable once released.
	second, err := cam.Start(context.Background())
	if err != nil {
		t.Fatalf("Failed to restart capture after stop: %v", err)
	}
	second.Stop()
}

func TestOpenFailureIsDeviceUnavailable(t *testing.T) {
	cam := NewCamera(func() (VideoSource, error) {
		return nil, fmt.Errorf("permission denied")
	}, testLogger())

	if _, err := cam.Start(context.Background()); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}
}
