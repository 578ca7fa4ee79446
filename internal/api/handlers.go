package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ovasilenko/roomproof/internal/detect"
	"github.com/ovasilenko/roomproof/internal/inventory"
	"github.com/ovasilenko/roomproof/internal/review"
	"github.com/ovasilenko/roomproof/internal/scan"
	"github.com/ovasilenko/roomproof/internal/storage"
)

type App struct {
	Scan          *scan.Service
	Rooms         inventory.RoomStore
	Blobs         storage.BlobStore
	Logger        *log.Logger
	MaxUploadSize int64

	capturesMu sync.Mutex
	captures   map[string]*activeCapture
}

func NewApp(scanService *scan.Service, rooms inventory.RoomStore, blobs storage.BlobStore, logger *log.Logger, maxUploadSize int64) *App {
	return &App{
		Scan:          scanService,
		Rooms:         rooms,
		Blobs:         blobs,
		Logger:        logger,
		MaxUploadSize: maxUploadSize,
		captures:      make(map[string]*activeCapture),
	}
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) ScanImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "File too large")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to get image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/octet-stream" {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image file")
		return
	}

	result, err := app.Scan.ProcessImage(r.Context(), imageData, header.Filename)
	if errors.Is(err, detect.ErrDetectionFailed) {
		// The upload itself succeeded; only the enrichment was lost.
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"image_url": result.ImageURL,
			"error":     "object detection failed",
		})
		return
	}
	if err != nil {
		app.Logger.Printf("[API] scan failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (app *App) session(w http.ResponseWriter, r *http.Request) (*review.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")

	session, exists := app.Scan.Session(sessionID)
	if !exists {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func (app *App) ReviewStateHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (app *App) ReviewNextHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.session(w, r)
	if !ok {
		return
	}
	session.Next()
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (app *App) ReviewPreviousHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.session(w, r)
	if !ok {
		return
	}
	session.Previous()
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (app *App) ReviewSkipHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.session(w, r)
	if !ok {
		return
	}
	session.Skip()
	writeJSON(w, http.StatusOK, session.Snapshot())
}

type commitRequest struct {
	RoomID   string `json:"room_id"`
	Category string `json:"category"`
}

func (app *App) ReviewCommitHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.session(w, r)
	if !ok {
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := session.Commit(r.Context(), req.RoomID, inventory.Category(req.Category))
	switch {
	case errors.Is(err, review.ErrNoRoomSelected):
		writeError(w, http.StatusBadRequest, "Select a destination room first")
		return
	case errors.Is(err, review.ErrSessionClosed):
		writeError(w, http.StatusConflict, "Review session is closed")
		return
	case err != nil:
		app.Logger.Printf("[API] commit failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save item")
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (app *App) ReviewCloseHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := app.Scan.CloseSession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (app *App) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Room name is required")
		return
	}

	room := inventory.NewRoom(req.Name)
	if err := app.Rooms.CreateRoom(r.Context(), room); err != nil {
		app.Logger.Printf("[API] creating room: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

func (app *App) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := app.Rooms.ListRooms(r.Context())
	if err != nil {
		app.Logger.Printf("[API] listing rooms: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []inventory.Room{}
	}

	writeJSON(w, http.StatusOK, rooms)
}

func (app *App) RoomItemsHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	items, err := app.Rooms.GetItemsForRoom(r.Context(), roomID)
	if err != nil {
		app.Logger.Printf("[API] listing items: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (app *App) BlobHandler(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	file, err := app.Blobs.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	modTime := time.Now()
	if statter, ok := file.(interface{ Stat() (os.FileInfo, error) }); ok {
		if stat, err := statter.Stat(); err == nil {
			modTime = stat.ModTime()
		}
	}

	http.ServeContent(w, r, filepath.Base(path), modTime, file)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
