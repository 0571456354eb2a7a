package services

import (
	"context"
	"encoding/json"

	"irontycoon/internal/catalog"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"

	"github.com/jmoiron/sqlx"
)

// UpdateHub pushes state changes to connected clients after a commit.
type UpdateHub interface {
	Broadcast(update websocket.Update)
}

// userWallet is the slice of the user store every service that moves money
// depends on.
type userWallet interface {
	GetForUpdate(ctx context.Context, tx store.Getter) (models.User, error)
	UpdateWallet(ctx context.Context, tx store.Execer, balance, totalEarned int64, rank string) error
}

// creditEarned adds earned funds. Balance, lifetime earnings and rank always
// move together; rank never moves any other way.
func creditEarned(ctx context.Context, tx *sqlx.Tx, users userWallet, amount int64) (models.User, error) {
	u, err := users.GetForUpdate(ctx, tx)
	if err != nil {
		return models.User{}, err
	}
	u.Balance += amount
	u.TotalEarned += amount
	u.CurrentRank = catalog.RankFor(u.TotalEarned)
	if err := users.UpdateWallet(ctx, tx, u.Balance, u.TotalEarned, u.CurrentRank); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// creditBalance adds funds that were not earned, such as sale proceeds.
// Lifetime earnings and rank stay put.
func creditBalance(ctx context.Context, tx *sqlx.Tx, users userWallet, amount int64) (models.User, error) {
	u, err := users.GetForUpdate(ctx, tx)
	if err != nil {
		return models.User{}, err
	}
	u.Balance += amount
	if err := users.UpdateWallet(ctx, tx, u.Balance, u.TotalEarned, u.CurrentRank); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// debitBalance spends from the balance. Reports false without mutating
// anything when funds are insufficient.
func debitBalance(ctx context.Context, tx *sqlx.Tx, users userWallet, amount int64) (models.User, bool, error) {
	u, err := users.GetForUpdate(ctx, tx)
	if err != nil {
		return models.User{}, false, err
	}
	if u.Balance < amount {
		return u, false, nil
	}
	u.Balance -= amount
	if err := users.UpdateWallet(ctx, tx, u.Balance, u.TotalEarned, u.CurrentRank); err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

// debitClamped takes as much of amount as the balance covers, never going
// negative. Returns the amount actually taken.
func debitClamped(ctx context.Context, tx *sqlx.Tx, users userWallet, amount int64) (models.User, int64, error) {
	u, err := users.GetForUpdate(ctx, tx)
	if err != nil {
		return models.User{}, 0, err
	}
	taken := amount
	if taken > u.Balance {
		taken = u.Balance
	}
	if taken <= 0 {
		return u, 0, nil
	}
	u.Balance -= taken
	if err := users.UpdateWallet(ctx, tx, u.Balance, u.TotalEarned, u.CurrentRank); err != nil {
		return models.User{}, 0, err
	}
	return u, taken, nil
}

func broadcastWallet(hub UpdateHub, u models.User) {
	hub.Broadcast(websocket.Update{
		Kind: websocket.UpdateBalance,
		Data: map[string]any{
			"balance":      money.FormatMinor(u.Balance),
			"total_earned": money.FormatMinor(u.TotalEarned),
			"rank":         u.CurrentRank,
		},
	})
}

func parseUpgrades(raw string) []string {
	if raw == "" {
		return nil
	}
	var owned []string
	if err := json.Unmarshal([]byte(raw), &owned); err != nil {
		return nil
	}
	return owned
}

func hasUpgrade(raw, upgradeID string) bool {
	for _, id := range parseUpgrades(raw) {
		if id == upgradeID {
			return true
		}
	}
	return false
}

func addUpgrade(raw, upgradeID string) string {
	owned := append(parseUpgrades(raw), upgradeID)
	encoded, _ := json.Marshal(owned)
	return string(encoded)
}
