package services

import (
	"context"
	"math"
	"time"

	"irontycoon/internal/catalog"
	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type IncomeUserStore interface {
	userWallet
	Get(ctx context.Context) (models.User, error)
	SetHeartbeat(ctx context.Context, tx store.Execer, seenAt int64) error
	SetPendingIncome(ctx context.Context, tx store.Execer, pending, seenAt int64) error
}

// IncomeService accrues mining-rig earnings for time spent away. Accrual
// only fills the pending pot; money moves on an explicit Collect.
type IncomeService struct {
	txRunner db.TxRunner
	users    IncomeUserStore
	hub      UpdateHub
	eco      config.Economy
	now      func() time.Time
}

func NewIncomeService(txRunner db.TxRunner, users IncomeUserStore, hub UpdateHub, eco config.Economy) *IncomeService {
	return &IncomeService{
		txRunner: txRunner,
		users:    users,
		hub:      hub,
		eco:      eco,
		now:      time.Now,
	}
}

// Heartbeat stamps presence. Whatever else happens, the last-seen clock
// always moves forward so accrual windows never double count.
func (s *IncomeService) Heartbeat(ctx context.Context) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.users.SetHeartbeat(ctx, tx, s.now().Unix())
	})
}

// Accrue converts the time since the last heartbeat into pending income.
// Without the rig nothing accrues; windows shorter than the minimum are
// swallowed; everything past the cap is lost.
func (s *IncomeService) Accrue(ctx context.Context) (int64, error) {
	var earned int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		earned = 0
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		now := s.now().Unix()
		if !hasUpgrade(u.OwnedUpgrades, catalog.UpgradeMiningRig) || u.LastSeenAt == 0 {
			return s.users.SetHeartbeat(ctx, tx, now)
		}
		hours := float64(now-u.LastSeenAt) / 3600
		if hours < s.eco.PassiveMinHours {
			return s.users.SetHeartbeat(ctx, tx, now)
		}
		if hours > s.eco.PassiveCapHours {
			hours = s.eco.PassiveCapHours
		}
		earned = money.FromWOL(int64(math.Floor(hours * float64(s.eco.PassiveRatePerHour))))
		return s.users.SetPendingIncome(ctx, tx, u.PendingIncome+earned, now)
	})
	if err != nil {
		return 0, err
	}
	if earned > 0 {
		s.hub.Broadcast(websocket.Update{
			Kind: websocket.UpdateIncome,
			Data: map[string]any{"earned": money.FormatMinor(earned)},
		})
	}
	return earned, nil
}

// Collect moves the pending pot into the balance as earned income.
func (s *IncomeService) Collect(ctx context.Context) (int64, models.User, error) {
	var collected int64
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		collected = 0
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if u.PendingIncome <= 0 {
			after = u
			return nil
		}
		collected = u.PendingIncome
		if err := s.users.SetPendingIncome(ctx, tx, 0, u.LastSeenAt); err != nil {
			return err
		}
		after, err = creditEarned(ctx, tx, s.users, collected)
		return err
	})
	if err != nil {
		return 0, models.User{}, err
	}
	if collected > 0 {
		broadcastWallet(s.hub, after)
	}
	return collected, after, nil
}

func (s *IncomeService) Pending(ctx context.Context) (int64, error) {
	u, err := s.users.Get(ctx)
	if err != nil {
		return 0, err
	}
	return u.PendingIncome, nil
}
