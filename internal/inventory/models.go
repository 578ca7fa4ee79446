package inventory

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryAppliance   Category = "appliance"
	CategoryDecor       Category = "decor"
	CategoryClothing    Category = "clothing"
	CategoryOther       Category = "other"
)

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type InventoryItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	EstimatedValue float64  `json:"estimated_value"`
	Room           string   `json:"room"`
	Category       Category `json:"category"`
	ImageURL       string   `json:"image_url,omitempty"`
}

func NewRoom(name string) *Room {
	return &Room{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func NewItem(name, description string, estimatedValue float64, roomID string, category Category) *InventoryItem {
	if category == "" {
		category = CategoryOther
	}
	return &InventoryItem{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    description,
		EstimatedValue: estimatedValue,
		Room:           roomID,
		Category:       category,
	}
}
