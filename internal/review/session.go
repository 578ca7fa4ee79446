package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ovasilenko/roomproof/internal/detect"
	"github.com/ovasilenko/roomproof/internal/inventory"
)

var (
	// ErrNoRoomSelected means Commit was attempted without a
	// destination room. Recovered locally: no state is mutated.
	ErrNoRoomSelected = errors.New("no destination room selected")

	// ErrSessionClosed means a transition was attempted after Close.
	ErrSessionClosed = errors.New("review session closed")
)

// Session is the review state machine over one detection batch. The
// cursor wraps circularly; the committed set is the single source of
// truth for which objects already became inventory items.
type Session struct {
	ID string

	store  inventory.RoomStore
	logger *log.Logger

	mu        sync.Mutex
	objects   []detect.Object
	cursor    int
	committed map[int]bool
	closed    bool
}

// State is a snapshot of the session for presentation.
type State struct {
	SessionID string         `json:"session_id"`
	Cursor    int            `json:"cursor"`
	Total     int            `json:"total"`
	Committed []int          `json:"committed"`
	Closed    bool           `json:"closed"`
	Object    *detect.Object `json:"object,omitempty"`
}

// NewSession starts a review over a non-empty detection batch. Empty
// batches never enter review; callers report them as a non-error empty
// result instead.
func NewSession(objects []detect.Object, store inventory.RoomStore, logger *log.Logger) (*Session, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("empty detection batch")
	}

	return &Session{
		ID:        uuid.New().String(),
		store:     store,
		logger:    logger,
		objects:   objects,
		committed: make(map[int]bool),
	}, nil
}

// Next advances the cursor circularly.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.objects)
}

// Previous moves the cursor back circularly.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cursor = (s.cursor - 1 + len(s.objects)) % len(s.objects)
}

// Skip advances the cursor to the next uncommitted object, wrapping.
// If every object is committed the session closes. Skip never touches
// the committed set.
func (s *Session) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.advanceLocked()
}

// Commit turns the current object into an inventory item in the given
// room. It fails fast without mutating state when no room is selected,
// and is a no-op on an already-committed index regardless of any UI
// guard. On success the session behaves like Skip.
func (s *Session) Commit(ctx context.Context, roomID string, category inventory.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if roomID == "" {
		return ErrNoRoomSelected
	}
	if s.committed[s.cursor] {
		return nil
	}

	obj := s.objects[s.cursor]
	item := buildItem(obj, roomID, category)

	items, err := s.store.GetItemsForRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("loading room items: %w", err)
	}

	items = append(items, *item)
	if err := s.store.SetItemsForRoom(ctx, roomID, items); err != nil {
		// Not marked committed, so the same object can be retried.
		return fmt.Errorf("persisting room items: %w", err)
	}

	s.logger.Printf("[REVIEW] committed %q to room %s (value %.2f)", item.Name, roomID, item.EstimatedValue)
	s.committed[s.cursor] = true
	s.advanceLocked()

	return nil
}

// Close discards the remaining uncommitted objects. Already-committed
// items stay persisted; there is no rollback.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns the current presentation state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := make([]int, 0, len(s.committed))
	for i := range s.objects {
		if s.committed[i] {
			committed = append(committed, i)
		}
	}

	state := State{
		SessionID: s.ID,
		Cursor:    s.cursor,
		Total:     len(s.objects),
		Committed: committed,
		Closed:    s.closed,
	}
	if !s.closed {
		obj := s.objects[s.cursor]
		state.Object = &obj
	}
	return state
}

func (s *Session) advanceLocked() {
	n := len(s.objects)
	for i := 1; i <= n; i++ {
		idx := (s.cursor + i) % n
		if !s.committed[idx] {
			s.cursor = idx
			return
		}
	}
	s.closed = true
}

func buildItem(obj detect.Object, roomID string, category inventory.Category) *inventory.InventoryItem {
	name := obj.Name
	if name == "" {
		name = obj.Label
	}

	description := obj.Description
	if description == "" {
		description = "A " + strings.ToLower(obj.Label)
	}

	item := inventory.NewItem(name, description, ParsePrice(obj.Price), roomID, category)
	item.ImageURL = obj.ImageURL
	return item
}
