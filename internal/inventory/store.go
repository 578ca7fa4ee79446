package inventory

import "context"

// RoomStore is the persistence boundary for rooms and their item lists.
// SetItemsForRoom has whole-list replace semantics: callers always write
// the full updated list, never a partial patch.
type RoomStore interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	GetItemsForRoom(ctx context.Context, roomID string) ([]InventoryItem, error)
	SetItemsForRoom(ctx context.Context, roomID string, items []InventoryItem) error
}
