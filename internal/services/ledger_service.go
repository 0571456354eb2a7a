package services

import (
	"context"
	"errors"
	"time"

	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownTicker     = errors.New("unknown ticker")
	ErrTradeTooSmall     = errors.New("amount buys no shares")
	ErrNotEnoughShares   = errors.New("not enough shares")
	ErrItemNotInShop     = errors.New("item not in today's shop")
	ErrSlotSoldOut       = errors.New("item already sold out")
	ErrUnknownItem       = errors.New("unknown item")
	ErrItemNotOwned      = errors.New("item not owned")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrUpgradeOwned      = errors.New("upgrade already owned")
	ErrUnknownContract   = errors.New("unknown contract")
	ErrContractTaken     = errors.New("a contract is already signed this week")
	ErrContractNotOpen   = errors.New("contract is not open for signing")
	ErrUnknownExercise   = errors.New("unknown exercise")
	ErrInvalidBackup     = errors.New("invalid backup payload")
)

type LedgerUserStore interface {
	userWallet
	Get(ctx context.Context) (models.User, error)
	SetPenaltyMarker(ctx context.Context, tx store.Execer, workoutAt int64) error
	SetHolidayMode(ctx context.Context, tx store.Execer, active bool) error
	UpdateSettings(ctx context.Context, tx store.Execer, unitSystem, theme string, haptics bool) error
	CompleteOnboarding(ctx context.Context, tx store.Execer, name string) error
}

// LedgerService owns the wallet. Earned credits move rank, spends never do,
// and the balance never goes negative.
type LedgerService struct {
	txRunner db.TxRunner
	users    LedgerUserStore
	hub      UpdateHub
	eco      config.Economy
	now      func() time.Time
}

func NewLedgerService(txRunner db.TxRunner, users LedgerUserStore, hub UpdateHub, eco config.Economy) *LedgerService {
	return &LedgerService{
		txRunner: txRunner,
		users:    users,
		hub:      hub,
		eco:      eco,
		now:      time.Now,
	}
}

func (s *LedgerService) Profile(ctx context.Context) (models.User, error) {
	return s.users.Get(ctx)
}

// Credit adds earned funds and recomputes the rank.
func (s *LedgerService) Credit(ctx context.Context, amountMinor int64) (models.User, error) {
	if amountMinor <= 0 {
		return models.User{}, ErrInvalidAmount
	}
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		after, err = creditEarned(ctx, tx, s.users, amountMinor)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	broadcastWallet(s.hub, after)
	return after, nil
}

// Debit spends from the balance. The bool reports whether the spend went
// through; an insufficient balance is not an error.
func (s *LedgerService) Debit(ctx context.Context, amountMinor int64) (models.User, bool, error) {
	if amountMinor <= 0 {
		return models.User{}, false, ErrInvalidAmount
	}
	var after models.User
	var ok bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		after, ok, err = debitBalance(ctx, tx, s.users, amountMinor)
		return err
	})
	if err != nil {
		return models.User{}, false, err
	}
	if ok {
		broadcastWallet(s.hub, after)
	}
	return after, ok, nil
}

// ApplyInactivityPenalty charges for a lapsed training streak. The penalty
// fires once per streak: the marker pins the workout timestamp it already
// charged for, and holiday mode suspends it entirely. Returns the minor
// units actually taken.
func (s *LedgerService) ApplyInactivityPenalty(ctx context.Context) (int64, error) {
	var taken int64
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		taken = 0
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if u.HolidayMode || u.LastWorkoutAt == 0 {
			return nil
		}
		days := (s.now().Unix() - u.LastWorkoutAt) / 86400
		if days <= s.eco.InactivityThresholdDays {
			return nil
		}
		if u.LastPenalizedWorkoutAt != nil && *u.LastPenalizedWorkoutAt == u.LastWorkoutAt {
			return nil
		}
		penalty := money.FromWOL(days * s.eco.InactivityPenaltyPerDay)
		after, taken, err = debitClamped(ctx, tx, s.users, penalty)
		if err != nil {
			return err
		}
		return s.users.SetPenaltyMarker(ctx, tx, u.LastWorkoutAt)
	})
	if err != nil {
		return 0, err
	}
	if taken > 0 {
		broadcastWallet(s.hub, after)
	}
	return taken, nil
}

// SetHolidayMode toggles the penalty freeze. Switching it on costs a flat
// fee; switching it off is free.
func (s *LedgerService) SetHolidayMode(ctx context.Context, active bool) (models.User, error) {
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if u.HolidayMode == active {
			after = u
			return nil
		}
		if active {
			var ok bool
			u, ok, err = debitBalance(ctx, tx, s.users, money.FromWOL(s.eco.HolidayModeCost))
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientFunds
			}
		}
		if err := s.users.SetHolidayMode(ctx, tx, active); err != nil {
			return err
		}
		u.HolidayMode = active
		after = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	broadcastWallet(s.hub, after)
	return after, nil
}

func (s *LedgerService) UpdateSettings(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error) {
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.UpdateSettings(ctx, tx, unitSystem, theme, haptics); err != nil {
			return err
		}
		var err error
		after, err = s.users.GetForUpdate(ctx, tx)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return after, nil
}

func (s *LedgerService) CompleteOnboarding(ctx context.Context, name string) (models.User, error) {
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.CompleteOnboarding(ctx, tx, name); err != nil {
			return err
		}
		var err error
		after, err = s.users.GetForUpdate(ctx, tx)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return after, nil
}
