package store

import (
	"context"

	"irontycoon/internal/models"
)

type ExerciseStore struct {
	db DB
}

func NewExerciseStore(db DB) *ExerciseStore {
	return &ExerciseStore{db: db}
}

func (s *ExerciseStore) List(ctx context.Context) ([]models.Exercise, error) {
	var rows []models.Exercise
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, category, multiplier, personal_record FROM exercises ORDER BY id
	`)
	return rows, err
}

func (s *ExerciseStore) GetForUpdate(ctx context.Context, tx Getter, id int64) (models.Exercise, error) {
	var row models.Exercise
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, category, multiplier, personal_record FROM exercises WHERE id = ?
	`, id)
	return row, err
}

func (s *ExerciseStore) SetPersonalRecord(ctx context.Context, tx Execer, id int64, record float64) error {
	_, err := tx.ExecContext(ctx, `UPDATE exercises SET personal_record = ? WHERE id = ?`, record, id)
	return err
}

func (s *ExerciseStore) Insert(ctx context.Context, tx Execer, e models.Exercise) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO exercises (name, category, multiplier, personal_record)
		VALUES (?, ?, ?, ?)
	`, e.Name, e.Category, e.Multiplier, e.PersonalRecord)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Restore inserts with an explicit id so set logs imported alongside keep
// resolving their exercise.
func (s *ExerciseStore) Restore(ctx context.Context, tx Execer, e models.Exercise) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, multiplier, personal_record)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Category, e.Multiplier, e.PersonalRecord)
	return err
}
