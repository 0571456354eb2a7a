package handlers

import (
	"context"

	"irontycoon/internal/models"
	"irontycoon/internal/services"
)

type LedgerService interface {
	Profile(ctx context.Context) (models.User, error)
	Credit(ctx context.Context, amountMinor int64) (models.User, error)
	Debit(ctx context.Context, amountMinor int64) (models.User, bool, error)
	SetHolidayMode(ctx context.Context, active bool) (models.User, error)
	UpdateSettings(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error)
	CompleteOnboarding(ctx context.Context, name string) (models.User, error)
}

type MarketService interface {
	List(ctx context.Context) ([]models.Stock, error)
	Detail(ctx context.Context, ticker string) (models.Stock, []models.PricePoint, error)
	Buy(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error)
	Sell(ctx context.Context, ticker string, shares int64) (services.TradeResult, error)
	Portfolio(ctx context.Context) (services.Portfolio, error)
}

type ShopService interface {
	View(ctx context.Context) (services.ShopView, error)
	Reconcile(ctx context.Context) (bool, error)
	Purchase(ctx context.Context, itemID int64) (models.InventoryEntry, models.User, error)
	PurchaseUpgrade(ctx context.Context, upgradeID string) (models.User, error)
	Consume(ctx context.Context, itemID int64) (models.InventoryEntry, error)
	Inventory(ctx context.Context) ([]models.InventoryEntry, error)
}

type ContractService interface {
	CurrentWeek(ctx context.Context) ([]models.Contract, error)
	GenerateWeeklyOffers(ctx context.Context) (bool, error)
	Sign(ctx context.Context, contractID string) (models.Contract, error)
}

type IncomeService interface {
	Heartbeat(ctx context.Context) error
	Accrue(ctx context.Context) (int64, error)
	Collect(ctx context.Context) (int64, models.User, error)
	Pending(ctx context.Context) (int64, error)
}

type WorkoutService interface {
	LogSet(ctx context.Context, in services.SetInput) (services.SetResult, error)
	FinishSession(ctx context.Context, in services.FinishSessionInput) (services.FinishSessionResult, error)
	Exercises(ctx context.Context) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name, category string, multiplier float64) (models.Exercise, error)
	History(ctx context.Context) ([]models.Workout, error)
	Logs(ctx context.Context) ([]models.SetLog, error)
	Blueprints(ctx context.Context) ([]models.Blueprint, error)
	SaveBlueprint(ctx context.Context, name, exercisesJSON string) (models.Blueprint, error)
	RestFactor(ctx context.Context) (float64, error)
}

type BackupService interface {
	Export(ctx context.Context) (services.Backup, error)
	Import(ctx context.Context, raw []byte) error
	Reset(ctx context.Context) error
}
