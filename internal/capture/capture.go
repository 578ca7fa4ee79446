package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"
)

// ErrDeviceUnavailable means the camera could not be acquired: no
// permission, no hardware, or another session already holds the device.
// Fatal to the capture flow.
var ErrDeviceUnavailable = errors.New("camera device unavailable")

// DefaultInterval is the frame sampling cadence.
const DefaultInterval = 100 * time.Millisecond

// Frame is one immutable bitmap snapshot taken from the video feed.
// Index is monotonic in capture order.
type Frame struct {
	Image     image.Image
	Timestamp time.Time
	Index     int
}

// VideoSource yields the current frame of a live video feed. Grab may
// fail transiently (no frame delivered yet); the session skips that tick.
type VideoSource interface {
	Grab() (image.Image, error)
	Close() error
}

// Camera guards exclusive access to one physical video device. Only one
// session may be armed against it at a time.
type Camera struct {
	open     func() (VideoSource, error)
	Interval time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	armed bool
}

func NewCamera(open func() (VideoSource, error), logger *log.Logger) *Camera {
	return &Camera{
		open:     open,
		Interval: DefaultInterval,
		logger:   logger,
	}
}

// Start acquires the device and begins sampling frames every Interval
// until the context is cancelled or Stop is called.
func (c *Camera) Start(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.armed {
		return nil, fmt.Errorf("%w: capture session already armed", ErrDeviceUnavailable)
	}

	src, err := c.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	c.armed = true

	loopCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		cam:      c,
		src:      src,
		interval: c.Interval,
		logger:   c.logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go session.run(loopCtx)

	return session, nil
}

func (c *Camera) release() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()
}

// Session owns the in-memory frame buffer for one capture. Frames are
// appended in strict capture order and handed to the caller on Stop.
type Session struct {
	cam      *Camera
	src      VideoSource
	interval time.Duration
	logger   *log.Logger
	cancel   context.CancelFunc
	done     chan struct{}

	mu      sync.Mutex
	frames  []Frame
	stopped bool
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			img, err := s.src.Grab()
			if err != nil {
				s.logger.Printf("[CAPTURE] skipping tick: %v", err)
				continue
			}

			s.mu.Lock()
			s.frames = append(s.frames, Frame{
				Image:     img,
				Timestamp: time.Now(),
				Index:     len(s.frames),
			})
			s.mu.Unlock()
		}
	}
}

// Stop disarms sampling, releases the camera and returns ownership of
// the accumulated buffer. Safe to call more than once.
func (s *Session) Stop() []Frame {
	s.cancel()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		s.stopped = true
		s.cam.release()
		if err := s.src.Close(); err != nil {
			s.logger.Printf("[CAPTURE] closing video source: %v", err)
		}
	}

	return s.frames
}

// FrameCount reports how many frames have been buffered so far.
func (s *Session) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
