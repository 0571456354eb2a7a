package services

import (
	"context"
	"encoding/json"
	"time"

	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/store"

	"github.com/jmoiron/sqlx"
)

const backupVersion = "1.0.0"

type BackupUserStore interface {
	Get(ctx context.Context) (models.User, error)
	Insert(ctx context.Context, tx store.Execer, u models.User) error
}

type BackupStockStore interface {
	List(ctx context.Context) ([]models.Stock, error)
	History(ctx context.Context, ticker string, limit int) ([]models.PricePoint, error)
	Insert(ctx context.Context, tx store.Execer, stock models.Stock) error
	InsertHistoryPoint(ctx context.Context, tx store.Execer, ticker string, p models.PricePoint) error
}

type BackupWorkoutStore interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	ListLogs(ctx context.Context) ([]models.SetLog, error)
	InsertWorkout(ctx context.Context, tx store.Execer, w models.Workout) error
	InsertLog(ctx context.Context, tx store.Execer, l models.SetLog) error
}

type BackupInventoryStore interface {
	List(ctx context.Context) ([]models.InventoryEntry, error)
	Insert(ctx context.Context, tx store.Execer, entry models.InventoryEntry) error
}

type BackupExerciseStore interface {
	List(ctx context.Context) ([]models.Exercise, error)
	Restore(ctx context.Context, tx store.Execer, e models.Exercise) error
}

type BackupBlueprintStore interface {
	List(ctx context.Context) ([]models.Blueprint, error)
	Insert(ctx context.Context, tx store.Execer, b models.Blueprint) error
}

type BackupShopItemStore interface {
	List(ctx context.Context) ([]models.ShopItem, error)
	Insert(ctx context.Context, tx store.Execer, item models.ShopItem) error
}

// BackupService serializes the whole save to JSON and restores it. An
// import replaces everything or nothing.
type BackupService struct {
	txRunner     db.TxRunner
	users        BackupUserStore
	stocks       BackupStockStore
	workouts     BackupWorkoutStore
	inventory    BackupInventoryStore
	exercises    BackupExerciseStore
	blueprints   BackupBlueprintStore
	shopItems    BackupShopItemStore
	historyLimit int
	now          func() time.Time
}

type Backup struct {
	Version    string                  `json:"version"`
	ExportedAt int64                   `json:"exported_at"`
	User       *models.User            `json:"user"`
	Stocks     []BackupStock           `json:"stocks"`
	Workouts   []models.Workout        `json:"workouts"`
	Logs       []models.SetLog         `json:"logs"`
	Inventory  []models.InventoryEntry `json:"inventory"`
	Exercises  []models.Exercise       `json:"exercises"`
	Blueprints []models.Blueprint      `json:"blueprints"`
	Shop       []models.ShopItem       `json:"shop"`
}

type BackupStock struct {
	models.Stock
	History []models.PricePoint `json:"history"`
}

func NewBackupService(txRunner db.TxRunner, users BackupUserStore, stocks BackupStockStore, workouts BackupWorkoutStore, inventory BackupInventoryStore, exercises BackupExerciseStore, blueprints BackupBlueprintStore, shopItems BackupShopItemStore, historyLimit int) *BackupService {
	return &BackupService{
		txRunner:     txRunner,
		users:        users,
		stocks:       stocks,
		workouts:     workouts,
		inventory:    inventory,
		exercises:    exercises,
		blueprints:   blueprints,
		shopItems:    shopItems,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

func (s *BackupService) Export(ctx context.Context) (Backup, error) {
	u, err := s.users.Get(ctx)
	if err != nil {
		return Backup{}, err
	}
	backup := Backup{
		Version:    backupVersion,
		ExportedAt: s.now().Unix(),
		User:       &u,
	}
	stocks, err := s.stocks.List(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, stock := range stocks {
		history, err := s.stocks.History(ctx, stock.Ticker, s.historyLimit)
		if err != nil {
			return Backup{}, err
		}
		backup.Stocks = append(backup.Stocks, BackupStock{Stock: stock, History: history})
	}
	if backup.Workouts, err = s.workouts.ListWorkouts(ctx); err != nil {
		return Backup{}, err
	}
	if backup.Logs, err = s.workouts.ListLogs(ctx); err != nil {
		return Backup{}, err
	}
	if backup.Inventory, err = s.inventory.List(ctx); err != nil {
		return Backup{}, err
	}
	if backup.Exercises, err = s.exercises.List(ctx); err != nil {
		return Backup{}, err
	}
	if backup.Blueprints, err = s.blueprints.List(ctx); err != nil {
		return Backup{}, err
	}
	if backup.Shop, err = s.shopItems.List(ctx); err != nil {
		return Backup{}, err
	}
	return backup, nil
}

// Import validates the payload before touching anything, then wipes and
// repopulates in one transaction. Absent sections import as empty; gaps the
// payload leaves (no instruments, no exercise catalog) are reseeded.
func (s *BackupService) Import(ctx context.Context, raw []byte) error {
	var backup Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return ErrInvalidBackup
	}
	if backup.Version != backupVersion || backup.User == nil || backup.User.CurrentRank == "" {
		return ErrInvalidBackup
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.Wipe(ctx, tx); err != nil {
			return err
		}
		u := *backup.User
		u.ID = 1
		if err := s.users.Insert(ctx, tx, u); err != nil {
			return err
		}
		for _, stock := range backup.Stocks {
			if err := s.stocks.Insert(ctx, tx, stock.Stock); err != nil {
				return err
			}
			for _, point := range stock.History {
				if err := s.stocks.InsertHistoryPoint(ctx, tx, stock.Ticker, point); err != nil {
					return err
				}
			}
		}
		for _, exercise := range backup.Exercises {
			if err := s.exercises.Restore(ctx, tx, exercise); err != nil {
				return err
			}
		}
		for _, workout := range backup.Workouts {
			if err := s.workouts.InsertWorkout(ctx, tx, workout); err != nil {
				return err
			}
		}
		for _, logEntry := range backup.Logs {
			if err := s.workouts.InsertLog(ctx, tx, logEntry); err != nil {
				return err
			}
		}
		for _, entry := range backup.Inventory {
			if err := s.inventory.Insert(ctx, tx, entry); err != nil {
				return err
			}
		}
		for _, blueprint := range backup.Blueprints {
			if err := s.blueprints.Insert(ctx, tx, blueprint); err != nil {
				return err
			}
		}
		for _, item := range backup.Shop {
			if err := s.shopItems.Insert(ctx, tx, item); err != nil {
				return err
			}
		}
		return db.Seed(ctx, tx)
	})
}

// Reset wipes the save and reseeds first-launch data.
func (s *BackupService) Reset(ctx context.Context) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.Wipe(ctx, tx); err != nil {
			return err
		}
		return db.Seed(ctx, tx)
	})
}
