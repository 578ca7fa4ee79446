package scan

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ovasilenko/roomproof/internal/detect"
	"github.com/ovasilenko/roomproof/internal/inventory"
	"github.com/ovasilenko/roomproof/internal/pricing"
	"github.com/ovasilenko/roomproof/internal/review"
	"github.com/ovasilenko/roomproof/internal/storage"
)

// Service runs the image scan pipeline: persist the source image, detect
// objects, enrich them with best-effort pricing, and open a review
// session over the batch.
type Service struct {
	detector detect.Detector
	pricer   pricing.Pricer
	blobs    storage.BlobStore
	rooms    inventory.RoomStore
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[string]*review.Session
}

func NewService(
	detector detect.Detector,
	pricer pricing.Pricer,
	blobs storage.BlobStore,
	rooms inventory.RoomStore,
	logger *log.Logger,
) *Service {
	return &Service{
		detector: detector,
		pricer:   pricer,
		blobs:    blobs,
		rooms:    rooms,
		logger:   logger,
		sessions: make(map[string]*review.Session),
	}
}

// Result reports a scan. ImageURL is always set once the source image
// is persisted, even when detection later fails: the upload succeeds,
// enrichment may fail. SessionID is empty for an empty batch.
type Result struct {
	ImageURL  string          `json:"image_url"`
	Objects   []detect.Object `json:"objects"`
	SessionID string          `json:"session_id,omitempty"`
}

// ProcessImage is a two-phase operation. Phase one persists the source
// image and commits independently. Phase two runs detection and
// pricing; if it fails, the returned Result still carries the persisted
// image URL alongside the error.
func (s *Service) ProcessImage(ctx context.Context, imageData []byte, filename string) (*Result, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	path := fmt.Sprintf("uploads/%s%s", uuid.New().String(), ext)
	url, err := s.blobs.PutBlob(path, imageData)
	if err != nil {
		return nil, fmt.Errorf("persisting image: %w", err)
	}

	result := &Result{ImageURL: url, Objects: []detect.Object{}}

	objects, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		// The main image stays persisted; only the detection is lost.
		return result, fmt.Errorf("detecting objects: %w", err)
	}

	for i := range objects {
		est, err := s.pricer.Estimate(ctx, objects[i].ImageURL)
		if err != nil {
			s.logger.Printf("[SCAN] pricing unavailable for %q: %v", objects[i].Label, err)
			continue
		}
		objects[i].Price = est.Price
		objects[i].Description = est.Description
	}

	result.Objects = objects
	if len(objects) == 0 {
		s.logger.Printf("[SCAN] no objects detected in %s", path)
		return result, nil
	}

	session, err := review.NewSession(objects, s.rooms, s.logger)
	if err != nil {
		return result, fmt.Errorf("opening review session: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Printf("[SCAN] opened review session %s with %d objects", session.ID, len(objects))
	result.SessionID = session.ID
	return result, nil
}

// Session looks up an open review session.
func (s *Service) Session(id string) (*review.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[id]
	return session, exists
}

// CloseSession closes and forgets a review session. Uncommitted objects
// are discarded; committed items stay persisted.
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	session, exists := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("session not found")
	}

	session.Close()
	return nil
}
