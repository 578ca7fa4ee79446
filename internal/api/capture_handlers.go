package api

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ovasilenko/roomproof/internal/capture"
	"github.com/ovasilenko/roomproof/internal/panorama"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// feedSource adapts a websocket frame feed to capture.VideoSource. The
// client pushes JPEG frames at its own rate; the capture session samples
// the latest one at its fixed cadence.
type feedSource struct {
	mu    sync.Mutex
	frame image.Image
}

func (f *feedSource) Set(img image.Image) {
	f.mu.Lock()
	f.frame = img
	f.mu.Unlock()
}

func (f *feedSource) Grab() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frame == nil {
		return nil, fmt.Errorf("no frame delivered yet")
	}
	return f.frame, nil
}

func (f *feedSource) Close() error {
	f.mu.Lock()
	f.frame = nil
	f.mu.Unlock()
	return nil
}

type activeCapture struct {
	session *capture.Session
	source  *feedSource
}

// StartCaptureHandler arms a new capture session. Each websocket feed is
// its own device; the session outlives the request and is finished or
// aborted explicitly.
func (app *App) StartCaptureHandler(w http.ResponseWriter, r *http.Request) {
	source := &feedSource{}
	camera := capture.NewCamera(func() (capture.VideoSource, error) {
		return source, nil
	}, app.Logger)

	session, err := camera.Start(context.Background())
	if err != nil {
		app.Logger.Printf("[API] starting capture: %v", err)
		writeError(w, http.StatusServiceUnavailable, "Camera unavailable")
		return
	}

	captureID := uuid.New().String()
	app.capturesMu.Lock()
	app.captures[captureID] = &activeCapture{session: session, source: source}
	app.capturesMu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"capture_id": captureID,
		"feed_url":   fmt.Sprintf("/api/captures/%s/feed", captureID),
	})
}

// CaptureFeedHandler receives JPEG frames over a websocket and makes
// each the current frame of the capture's video source.
func (app *App) CaptureFeedHandler(w http.ResponseWriter, r *http.Request) {
	captureID := chi.URLParam(r, "captureID")

	app.capturesMu.Lock()
	entry, exists := app.captures[captureID]
	app.capturesMu.Unlock()
	if !exists {
		writeError(w, http.StatusNotFound, "Capture not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Printf("[API] upgrading feed connection: %v", err)
		return
	}
	defer conn.Close()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			app.Logger.Printf("[API] dropping undecodable frame: %v", err)
			continue
		}
		entry.source.Set(img)
	}
}

// FinishCaptureHandler stops sampling and assembles the panorama. Zero
// buffered frames is a no-op: no composite is produced.
func (app *App) FinishCaptureHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := app.takeCapture(w, r)
	if !ok {
		return
	}

	frames := entry.session.Stop()
	composite := panorama.Assemble(frames)
	if composite == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"assembled": false,
			"frames":    0,
		})
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, composite, &jpeg.Options{Quality: 90}); err != nil {
		app.Logger.Printf("[API] encoding panorama: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode panorama")
		return
	}

	url, err := app.Blobs.PutBlob(fmt.Sprintf("panoramas/%s.jpg", uuid.New().String()), buf.Bytes())
	if err != nil {
		app.Logger.Printf("[API] persisting panorama: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save panorama")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assembled":    true,
		"frames":       len(frames),
		"panorama_url": url,
	})
}

// AbortCaptureHandler disarms sampling and discards the buffer.
func (app *App) AbortCaptureHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := app.takeCapture(w, r)
	if !ok {
		return
	}

	entry.session.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) takeCapture(w http.ResponseWriter, r *http.Request) (*activeCapture, bool) {
	captureID := chi.URLParam(r, "captureID")

	app.capturesMu.Lock()
	entry, exists := app.captures[captureID]
	delete(app.captures, captureID)
	app.capturesMu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "Capture not found")
		return nil, false
	}
	return entry, true
}
