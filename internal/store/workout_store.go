package store

import (
	"context"

	"irontycoon/internal/models"
)

// WorkoutStore covers both the per-session workout rows and the per-set
// logs feeding tonnage stats.
type WorkoutStore struct {
	db DB
}

func NewWorkoutStore(db DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

func (s *WorkoutStore) InsertWorkout(ctx context.Context, tx Execer, w models.Workout) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO workouts (id, date, duration, total_gain, mood)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.Date, w.Duration, w.TotalGain, w.Mood)
	return err
}

func (s *WorkoutStore) InsertLog(ctx context.Context, tx Execer, l models.SetLog) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO logs (id, exercise_id, weight, reps, duration, gain, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.ExerciseID, l.Weight, l.Reps, l.Duration, l.Gain, l.LoggedAt)
	return err
}

func (s *WorkoutStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var rows []models.Workout
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, date, duration, total_gain, mood FROM workouts ORDER BY date, id
	`)
	return rows, err
}

func (s *WorkoutStore) ListLogs(ctx context.Context) ([]models.SetLog, error) {
	var rows []models.SetLog
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, exercise_id, weight, reps, duration, gain, logged_at
		FROM logs ORDER BY logged_at, id
	`)
	return rows, err
}

// TotalTonnage sums weight x reps over every logged set.
func (s *WorkoutStore) TotalTonnage(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(weight * reps), 0) FROM logs
	`)
	return total, err
}
