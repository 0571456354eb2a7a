package store

import (
	"context"

	"irontycoon/internal/models"
)

type ContractStore struct {
	db DB
}

func NewContractStore(db DB) *ContractStore {
	return &ContractStore{db: db}
}

const contractColumns = `id, week_id, type, title, description, difficulty,
	target_value, reward, penalty, duration_hours, status, current_progress,
	deadline, created_at`

func (s *ContractStore) ListByWeek(ctx context.Context, weekID string) ([]models.Contract, error) {
	var rows []models.Contract
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+contractColumns+` FROM contracts WHERE week_id = ? ORDER BY created_at, id
	`, weekID)
	return rows, err
}

func (s *ContractStore) ListByWeekForUpdate(ctx context.Context, tx Selecter, weekID string) ([]models.Contract, error) {
	var rows []models.Contract
	err := tx.SelectContext(ctx, &rows, `
		SELECT `+contractColumns+` FROM contracts WHERE week_id = ? ORDER BY created_at, id
	`, weekID)
	return rows, err
}

func (s *ContractStore) List(ctx context.Context) ([]models.Contract, error) {
	var rows []models.Contract
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+contractColumns+` FROM contracts ORDER BY created_at, id
	`)
	return rows, err
}

func (s *ContractStore) CountByWeek(ctx context.Context, tx Getter, weekID string) (int64, error) {
	var count int64
	err := tx.GetContext(ctx, &count, `SELECT COUNT(1) FROM contracts WHERE week_id = ?`, weekID)
	return count, err
}

func (s *ContractStore) Insert(ctx context.Context, tx Execer, c models.Contract) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.WeekID, c.Type, c.Title, c.Description, c.Difficulty,
		c.TargetValue, c.Reward, c.Penalty, c.DurationHours, c.Status,
		c.CurrentProgress, c.Deadline, c.CreatedAt)
	return err
}

func (s *ContractStore) SetStatus(ctx context.Context, tx Execer, id, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE contracts SET status = ? WHERE id = ?`, status, id)
	return err
}

func (s *ContractStore) Activate(ctx context.Context, tx Execer, id string, deadline int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE contracts SET status = ?, deadline = ? WHERE id = ?
	`, models.ContractActive, deadline, id)
	return err
}

func (s *ContractStore) SetProgress(ctx context.Context, tx Execer, id string, progress int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE contracts SET current_progress = ? WHERE id = ?`, progress, id)
	return err
}
