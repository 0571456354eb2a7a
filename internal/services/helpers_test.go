package services

import (
	"context"

	"irontycoon/internal/models"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// fakeUserStore keeps the singleton row in memory and mutates it the way the
// real store would.
type fakeUserStore struct {
	user models.User
	err  error
}

func (f *fakeUserStore) Get(ctx context.Context) (models.User, error) {
	return f.user, f.err
}

func (f *fakeUserStore) GetForUpdate(ctx context.Context, tx store.Getter) (models.User, error) {
	return f.user, f.err
}

func (f *fakeUserStore) UpdateWallet(ctx context.Context, tx store.Execer, balance, totalEarned int64, rank string) error {
	f.user.Balance = balance
	f.user.TotalEarned = totalEarned
	f.user.CurrentRank = rank
	return nil
}

func (f *fakeUserStore) SetLastWorkout(ctx context.Context, tx store.Execer, at int64) error {
	f.user.LastWorkoutAt = at
	return nil
}

func (f *fakeUserStore) SetPenaltyMarker(ctx context.Context, tx store.Execer, workoutAt int64) error {
	f.user.LastPenalizedWorkoutAt = &workoutAt
	return nil
}

func (f *fakeUserStore) SetHolidayMode(ctx context.Context, tx store.Execer, active bool) error {
	f.user.HolidayMode = active
	return nil
}

func (f *fakeUserStore) SetOwnedUpgrades(ctx context.Context, tx store.Execer, upgradesJSON string) error {
	f.user.OwnedUpgrades = upgradesJSON
	return nil
}

func (f *fakeUserStore) SetHeartbeat(ctx context.Context, tx store.Execer, seenAt int64) error {
	f.user.LastSeenAt = seenAt
	return nil
}

func (f *fakeUserStore) SetPendingIncome(ctx context.Context, tx store.Execer, pending, seenAt int64) error {
	f.user.PendingIncome = pending
	f.user.LastSeenAt = seenAt
	return nil
}

func (f *fakeUserStore) UpdateSettings(ctx context.Context, tx store.Execer, unitSystem, theme string, haptics bool) error {
	f.user.UnitSystem = unitSystem
	f.user.Theme = theme
	f.user.Haptics = haptics
	return nil
}

func (f *fakeUserStore) CompleteOnboarding(ctx context.Context, tx store.Execer, name string) error {
	f.user.Name = name
	f.user.OnboardingComplete = true
	return nil
}

func (f *fakeUserStore) Insert(ctx context.Context, tx store.Execer, u models.User) error {
	f.user = u
	return nil
}

type stubHub struct {
	updates []websocket.Update
}

func (s *stubHub) Broadcast(update websocket.Update) {
	s.updates = append(s.updates, update)
}

func (s *stubHub) kinds() []string {
	var kinds []string
	for _, u := range s.updates {
		kinds = append(kinds, u.Kind)
	}
	return kinds
}
