package store

import (
	"context"
	"database/sql"
	"errors"

	"irontycoon/internal/models"
)

// ShopStore owns the rotating daily shop singleton and its slot rows. A
// rotation replaces the whole slot set, never merges.
type ShopStore struct {
	db DB
}

func NewShopStore(db DB) *ShopStore {
	return &ShopStore{db: db}
}

func (s *ShopStore) GetState(ctx context.Context) (models.ShopState, error) {
	var row models.ShopState
	err := s.db.GetContext(ctx, &row, `SELECT id, last_refresh FROM daily_shop WHERE id = 1`)
	return row, err
}

func (s *ShopStore) GetStateForUpdate(ctx context.Context, tx Getter) (models.ShopState, error) {
	var row models.ShopState
	err := tx.GetContext(ctx, &row, `SELECT id, last_refresh FROM daily_shop WHERE id = 1`)
	return row, err
}

func (s *ShopStore) Slots(ctx context.Context) ([]models.ShopSlot, error) {
	var rows []models.ShopSlot
	err := s.db.SelectContext(ctx, &rows, `
		SELECT position, item_id, sold_out FROM daily_shop_slots ORDER BY position
	`)
	return rows, err
}

func (s *ShopStore) SlotsForUpdate(ctx context.Context, tx Selecter) ([]models.ShopSlot, error) {
	var rows []models.ShopSlot
	err := tx.SelectContext(ctx, &rows, `
		SELECT position, item_id, sold_out FROM daily_shop_slots ORDER BY position
	`)
	return rows, err
}

// ReplaceSlots swaps in a fresh slot set and stamps the rotation time.
func (s *ShopStore) ReplaceSlots(ctx context.Context, tx Execer, lastRefresh int64, slots []models.ShopSlot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_shop_slots`); err != nil {
		return err
	}
	for _, slot := range slots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_shop_slots (position, item_id, sold_out) VALUES (?, ?, ?)
		`, slot.Position, slot.ItemID, slot.SoldOut); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `UPDATE daily_shop SET last_refresh = ? WHERE id = 1`, lastRefresh)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		_, err := tx.ExecContext(ctx, `INSERT INTO daily_shop (id, last_refresh) VALUES (1, ?)`, lastRefresh)
		return err
	}
	return nil
}

// MarkSold flips one slot to sold out. Returns false when the slot is
// missing or already sold, without mutating anything.
func (s *ShopStore) MarkSold(ctx context.Context, tx Execer, itemID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE daily_shop_slots SET sold_out = 1 WHERE item_id = ? AND sold_out = 0
	`, itemID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
