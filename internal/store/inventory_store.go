package store

import (
	"context"
	"database/sql"
	"errors"

	"irontycoon/internal/models"
)

type InventoryStore struct {
	db DB
}

func NewInventoryStore(db DB) *InventoryStore {
	return &InventoryStore{db: db}
}

const inventoryColumns = `id, item_id, status, type, acquired_at, consumed_at`

func (s *InventoryStore) List(ctx context.Context) ([]models.InventoryEntry, error) {
	var rows []models.InventoryEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+inventoryColumns+` FROM inventory ORDER BY acquired_at, id
	`)
	return rows, err
}

func (s *InventoryStore) Insert(ctx context.Context, tx Execer, entry models.InventoryEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.ItemID, entry.Status, entry.Type, entry.AcquiredAt, entry.ConsumedAt)
	return err
}

// OldestOwned returns the FIFO consumption candidate for an item, or ok
// false when none is owned.
func (s *InventoryStore) OldestOwned(ctx context.Context, tx Getter, itemID int64) (models.InventoryEntry, bool, error) {
	var row models.InventoryEntry
	err := tx.GetContext(ctx, &row, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE item_id = ? AND status = ?
		ORDER BY acquired_at, id
		LIMIT 1
	`, itemID, models.InventoryOwned)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryEntry{}, false, nil
	}
	if err != nil {
		return models.InventoryEntry{}, false, err
	}
	return row, true, nil
}

func (s *InventoryStore) MarkConsumed(ctx context.Context, tx Execer, id string, consumedAt int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE inventory SET status = ?, consumed_at = ? WHERE id = ?
	`, models.InventoryConsumed, consumedAt, id)
	return err
}

func (s *InventoryStore) CountOwned(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM inventory WHERE status = ?
	`, models.InventoryOwned)
	return count, err
}
