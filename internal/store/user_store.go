package store

import (
	"context"

	"irontycoon/internal/models"
)

// UserStore owns the singleton user row. Every wallet mutation goes through
// an Execer so it can share a transaction with whatever state it is
// contingent on.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, balance, total_earned, current_rank, last_workout_at,
	last_seen_at, pending_income, last_penalized_workout_at, owned_upgrades,
	holiday_mode, unit_system, haptics, theme, onboarding_complete, created_at`

func (s *UserStore) Get(ctx context.Context) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM user WHERE id = 1`)
	return row, err
}

func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter) (models.User, error) {
	var row models.User
	err := tx.GetContext(ctx, &row, `SELECT `+userColumns+` FROM user WHERE id = 1`)
	return row, err
}

func (s *UserStore) UpdateWallet(ctx context.Context, tx Execer, balance, totalEarned int64, rank string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE user SET balance = ?, total_earned = ?, current_rank = ?
		WHERE id = 1
	`, balance, totalEarned, rank)
	return err
}

func (s *UserStore) SetLastWorkout(ctx context.Context, tx Execer, at int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE user SET last_workout_at = ? WHERE id = 1`, at)
	return err
}

func (s *UserStore) SetPenaltyMarker(ctx context.Context, tx Execer, workoutAt int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE user SET last_penalized_workout_at = ? WHERE id = 1`, workoutAt)
	return err
}

func (s *UserStore) SetHolidayMode(ctx context.Context, tx Execer, active bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE user SET holiday_mode = ? WHERE id = 1`, active)
	return err
}

func (s *UserStore) SetOwnedUpgrades(ctx context.Context, tx Execer, upgradesJSON string) error {
	_, err := tx.ExecContext(ctx, `UPDATE user SET owned_upgrades = ? WHERE id = 1`, upgradesJSON)
	return err
}

func (s *UserStore) SetHeartbeat(ctx context.Context, tx Execer, seenAt int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE user SET last_seen_at = ? WHERE id = 1`, seenAt)
	return err
}

func (s *UserStore) SetPendingIncome(ctx context.Context, tx Execer, pending, seenAt int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE user SET pending_income = ?, last_seen_at = ? WHERE id = 1
	`, pending, seenAt)
	return err
}

func (s *UserStore) UpdateSettings(ctx context.Context, tx Execer, unitSystem, theme string, haptics bool) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE user SET unit_system = ?, theme = ?, haptics = ? WHERE id = 1
	`, unitSystem, theme, haptics)
	return err
}

func (s *UserStore) CompleteOnboarding(ctx context.Context, tx Execer, name string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE user SET name = ?, onboarding_complete = 1 WHERE id = 1
	`, name)
	return err
}

func (s *UserStore) Insert(ctx context.Context, tx Execer, u models.User) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user (`+userColumns+`)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Name, u.Balance, u.TotalEarned, u.CurrentRank, u.LastWorkoutAt,
		u.LastSeenAt, u.PendingIncome, u.LastPenalizedWorkoutAt, u.OwnedUpgrades,
		u.HolidayMode, u.UnitSystem, u.Haptics, u.Theme, u.OnboardingComplete, u.CreatedAt)
	return err
}
