package inventory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
}

func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func (db *DB) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		estimated_value REAL NOT NULL DEFAULT 0,
		category TEXT NOT NULL,
		image_url TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_items_room ON items(room_id, position);
	`

	_, err := db.conn.Exec(query)
	return err
}

func (db *DB) Close() error {
	return db.conn.Close()
}

type SQLiteStore struct {
	db *DB
}

func NewSQLiteStore(db *DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateRoom(ctx context.Context, room *Room) error {
	query := `INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)`
	if _, err := s.db.conn.ExecContext(ctx, query, room.ID, room.Name, room.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRoom(ctx context.Context, id string) (*Room, error) {
	query := `SELECT id, name, created_at FROM rooms WHERE id = ?`

	var room Room
	err := s.db.conn.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}

func (s *SQLiteStore) ListRooms(ctx context.Context) ([]Room, error) {
	query := `SELECT id, name, created_at FROM rooms ORDER BY created_at`

	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (s *SQLiteStore) GetItemsForRoom(ctx context.Context, roomID string) ([]InventoryItem, error) {
	query := `
		SELECT id, name, description, estimated_value, category, image_url
		FROM items
		WHERE room_id = ?
		ORDER BY position`

	rows, err := s.db.conn.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		item := InventoryItem{Room: roomID}
		var description, imageURL sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &description, &item.EstimatedValue, &item.Category, &imageURL); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Description = description.String
		item.ImageURL = imageURL.String
		items = append(items, item)
	}

	return items, rows.Err()
}

// SetItemsForRoom replaces the room's item list wholesale inside one
// transaction, preserving the order of the list as written.
func (s *SQLiteStore) SetItemsForRoom(ctx context.Context, roomID string, items []InventoryItem) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE room_id = ?`, roomID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	insert := `
		INSERT INTO items (id, room_id, position, name, description, estimated_value, category, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for i, item := range items {
		if _, err := tx.ExecContext(ctx, insert,
			item.ID, roomID, i, item.Name, item.Description,
			item.EstimatedValue, item.Category, item.ImageURL,
		); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}

	return nil
}
