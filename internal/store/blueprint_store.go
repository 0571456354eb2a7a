package store

import (
	"context"

	"irontycoon/internal/models"
)

// BlueprintStore and ShopItemStore back presentation-only tables; they
// carry no simulation logic but ride along in backups.
type BlueprintStore struct {
	db DB
}

func NewBlueprintStore(db DB) *BlueprintStore {
	return &BlueprintStore{db: db}
}

func (s *BlueprintStore) List(ctx context.Context) ([]models.Blueprint, error) {
	var rows []models.Blueprint
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, created_at, exercises FROM blueprints ORDER BY created_at, id
	`)
	return rows, err
}

func (s *BlueprintStore) Insert(ctx context.Context, tx Execer, b models.Blueprint) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO blueprints (id, name, created_at, exercises) VALUES (?, ?, ?, ?)
	`, b.ID, b.Name, b.CreatedAt, b.Exercises)
	return err
}

type ShopItemStore struct {
	db DB
}

func NewShopItemStore(db DB) *ShopItemStore {
	return &ShopItemStore{db: db}
}

func (s *ShopItemStore) List(ctx context.Context) ([]models.ShopItem, error) {
	var rows []models.ShopItem
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, cost, type, purchased_count, icon FROM shop ORDER BY id
	`)
	return rows, err
}

func (s *ShopItemStore) Insert(ctx context.Context, tx Execer, item models.ShopItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO shop (id, name, cost, type, purchased_count, icon)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Name, item.Cost, item.Type, item.PurchasedCount, item.Icon)
	return err
}
