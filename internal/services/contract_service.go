package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"irontycoon/internal/catalog"
	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ContractUserStore interface {
	userWallet
}

type ContractListStore interface {
	ListByWeek(ctx context.Context, weekID string) ([]models.Contract, error)
	ListByWeekForUpdate(ctx context.Context, tx store.Selecter, weekID string) ([]models.Contract, error)
	CountByWeek(ctx context.Context, tx store.Getter, weekID string) (int64, error)
	Insert(ctx context.Context, tx store.Execer, c models.Contract) error
	SetStatus(ctx context.Context, tx store.Execer, id, status string) error
	Activate(ctx context.Context, tx store.Execer, id string, deadline int64) error
	SetProgress(ctx context.Context, tx store.Execer, id string, progress int64) error
}

// ContractService generates the weekly offer sheet and settles the signed
// contract. One signature per ISO week; settlement happens in the same
// transaction as the progress update that triggers it.
type ContractService struct {
	txRunner  db.TxRunner
	users     ContractUserStore
	contracts ContractListStore
	hub       UpdateHub
	eco       config.Economy
	now       func() time.Time
}

func NewContractService(txRunner db.TxRunner, users ContractUserStore, contracts ContractListStore, hub UpdateHub, eco config.Economy) *ContractService {
	return &ContractService{
		txRunner:  txRunner,
		users:     users,
		contracts: contracts,
		hub:       hub,
		eco:       eco,
		now:       time.Now,
	}
}

// WeekID renders an ISO week key such as "2026-W35".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (s *ContractService) CurrentWeek(ctx context.Context) ([]models.Contract, error) {
	return s.contracts.ListByWeek(ctx, WeekID(s.now()))
}

// GenerateWeeklyOffers writes this week's three offers if none exist yet.
// Targets scale with lifetime earnings so the sheet keeps pace with the
// player.
func (s *ContractService) GenerateWeeklyOffers(ctx context.Context) (bool, error) {
	weekID := WeekID(s.now())
	generated := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		generated = false
		count, err := s.contracts.CountByWeek(ctx, tx, weekID)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		now := s.now().Unix()
		for _, offer := range buildOffers(weekID, u.TotalEarned, now) {
			if err := s.contracts.Insert(ctx, tx, offer); err != nil {
				return err
			}
		}
		generated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if generated {
		s.hub.Broadcast(websocket.Update{Kind: websocket.UpdateContract, Data: map[string]any{"week": weekID, "offered": true}})
	}
	return generated, nil
}

// buildOffers derives the three weekly offers from a scaling base of
// max(1000, 10% of lifetime earnings) whole $WOL.
func buildOffers(weekID string, totalEarnedMinor, createdAt int64) []models.Contract {
	base := totalEarnedMinor / 100 / 10
	if base < 1000 {
		base = 1000
	}
	return []models.Contract{
		{
			ID:            uuid.NewString(),
			WeekID:        weekID,
			Type:          models.ContractHeavyLift,
			Title:         "OPERATION TITAN",
			Description:   "Move serious tonnage before the window closes.",
			Difficulty:    "HARD",
			TargetValue:   int64(math.Floor(float64(base) * 0.3)),
			Reward:        money.FromWOL(800),
			Penalty:       money.FromWOL(500),
			DurationHours: 48,
			Status:        models.ContractOffered,
			CreatedAt:     createdAt,
		},
		{
			ID:            uuid.NewString(),
			WeekID:        weekID,
			Type:          models.ContractCardioRush,
			Title:         "MARATHON MANDATE",
			Description:   "Bank cardio earnings while the clock runs.",
			Difficulty:    "MEDIUM",
			TargetValue:   money.FromWOL(250),
			Reward:        money.FromWOL(450),
			Penalty:       money.FromWOL(300),
			DurationHours: 72,
			Status:        models.ContractOffered,
			CreatedAt:     createdAt,
		},
		{
			ID:            uuid.NewString(),
			WeekID:        weekID,
			Type:          models.ContractIncomeStream,
			Title:         "STEADY FLOW",
			Description:   "Keep the earnings coming, any way you like.",
			Difficulty:    "EASY",
			TargetValue:   money.FromWOL(300),
			Reward:        money.FromWOL(150),
			Penalty:       money.FromWOL(100),
			DurationHours: 24,
			Status:        models.ContractOffered,
			CreatedAt:     createdAt,
		},
	}
}

// Sign activates one offer and discards its siblings. Only one contract per
// week may ever be signed, even after it settles.
func (s *ContractService) Sign(ctx context.Context, contractID string) (models.Contract, error) {
	weekID := WeekID(s.now())
	var signed models.Contract
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		contracts, err := s.contracts.ListByWeekForUpdate(ctx, tx, weekID)
		if err != nil {
			return err
		}
		var target *models.Contract
		for i := range contracts {
			c := &contracts[i]
			if c.Status != models.ContractOffered && c.Status != models.ContractDiscarded {
				return ErrContractTaken
			}
			if c.ID == contractID {
				target = c
			}
		}
		if target == nil {
			return ErrUnknownContract
		}
		if target.Status != models.ContractOffered {
			return ErrContractNotOpen
		}
		deadline := s.now().Unix() + target.DurationHours*3600
		if err := s.contracts.Activate(ctx, tx, target.ID, deadline); err != nil {
			return err
		}
		for _, c := range contracts {
			if c.ID == target.ID || c.Status != models.ContractOffered {
				continue
			}
			if err := s.contracts.SetStatus(ctx, tx, c.ID, models.ContractDiscarded); err != nil {
				return err
			}
		}
		signed = *target
		signed.Status = models.ContractActive
		signed.Deadline = &deadline
		return nil
	})
	if err != nil {
		return models.Contract{}, err
	}
	s.hub.Broadcast(websocket.Update{Kind: websocket.UpdateContract, Data: signed})
	return signed, nil
}

type ContractSettlement struct {
	Contract  models.Contract `json:"contract"`
	Completed bool            `json:"completed"`
	Failed    bool            `json:"failed"`
	Reward    int64           `json:"reward"`
	Penalty   int64           `json:"penalty"`
}

// TrackProgress folds a finished session into the active contract. A lapsed
// deadline settles as a failure before any progress counts; reaching the
// target settles the reward in the same transaction.
func (s *ContractService) TrackProgress(ctx context.Context, session models.Session) (ContractSettlement, error) {
	weekID := WeekID(s.now())
	var result ContractSettlement
	var after models.User
	settled := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		result = ContractSettlement{}
		settled = false
		contracts, err := s.contracts.ListByWeekForUpdate(ctx, tx, weekID)
		if err != nil {
			return err
		}
		var active *models.Contract
		for i := range contracts {
			if contracts[i].Status == models.ContractActive {
				active = &contracts[i]
				break
			}
		}
		if active == nil {
			return nil
		}
		now := s.now().Unix()
		if active.Deadline != nil && now > *active.Deadline {
			if err := s.contracts.SetStatus(ctx, tx, active.ID, models.ContractFailed); err != nil {
				return err
			}
			var taken int64
			after, taken, err = debitClamped(ctx, tx, s.users, active.Penalty)
			if err != nil {
				return err
			}
			active.Status = models.ContractFailed
			result = ContractSettlement{Contract: *active, Failed: true, Penalty: taken}
			settled = true
			return nil
		}
		progress := active.CurrentProgress + sessionProgress(active.Type, session)
		if err := s.contracts.SetProgress(ctx, tx, active.ID, progress); err != nil {
			return err
		}
		active.CurrentProgress = progress
		if progress < active.TargetValue {
			result = ContractSettlement{Contract: *active}
			return nil
		}
		if err := s.contracts.SetStatus(ctx, tx, active.ID, models.ContractCompleted); err != nil {
			return err
		}
		after, err = creditEarned(ctx, tx, s.users, active.Reward)
		if err != nil {
			return err
		}
		active.Status = models.ContractCompleted
		result = ContractSettlement{Contract: *active, Completed: true, Reward: active.Reward}
		settled = true
		return nil
	})
	if err != nil {
		return ContractSettlement{}, err
	}
	if settled {
		broadcastWallet(s.hub, after)
		s.hub.Broadcast(websocket.Update{Kind: websocket.UpdateContract, Data: result})
	}
	return result, nil
}

// sessionProgress measures a session in the contract's own unit: kilograms
// of tonnage for lifting, earned minor units otherwise.
func sessionProgress(contractType string, session models.Session) int64 {
	switch contractType {
	case models.ContractHeavyLift:
		// Every set counts; cardio sets contribute nothing at weight 0.
		var tonnage float64
		for _, ex := range session.Exercises {
			for _, set := range ex.Sets {
				tonnage += set.Weight * float64(set.Reps)
			}
		}
		return int64(math.Floor(tonnage))
	case models.ContractCardioRush:
		var earned int64
		for _, ex := range session.Exercises {
			if ex.Category != catalog.CategoryCardio {
				continue
			}
			for _, set := range ex.Sets {
				earned += set.Gain
			}
		}
		return earned
	case models.ContractIncomeStream:
		return session.TotalGain
	}
	return 0
}
