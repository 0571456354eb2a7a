package db

import (
	"context"
	"fmt"
	"time"

	"irontycoon/internal/catalog"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user (
		id                        INTEGER PRIMARY KEY CHECK (id = 1),
		name                      TEXT    NOT NULL DEFAULT '',
		balance                   INTEGER NOT NULL DEFAULT 0,
		total_earned              INTEGER NOT NULL DEFAULT 0,
		current_rank              TEXT    NOT NULL,
		last_workout_at           INTEGER NOT NULL,
		last_seen_at              INTEGER NOT NULL,
		pending_income            INTEGER NOT NULL DEFAULT 0,
		last_penalized_workout_at INTEGER,
		owned_upgrades            TEXT    NOT NULL DEFAULT '[]',
		holiday_mode              INTEGER NOT NULL DEFAULT 0,
		unit_system               TEXT    NOT NULL DEFAULT 'metric',
		haptics                   INTEGER NOT NULL DEFAULT 1,
		theme                     TEXT    NOT NULL DEFAULT 'default',
		onboarding_complete       INTEGER NOT NULL DEFAULT 0,
		created_at                INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stocks (
		ticker              TEXT PRIMARY KEY,
		display_name        TEXT    NOT NULL,
		category            TEXT    NOT NULL,
		current_price       INTEGER NOT NULL,
		owned_shares        INTEGER NOT NULL DEFAULT 0,
		last_workout_at     INTEGER NOT NULL,
		dump_penalized_days INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS stock_history (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker  TEXT    NOT NULL REFERENCES stocks(ticker) ON DELETE CASCADE,
		tick_at INTEGER NOT NULL,
		price   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_ticker_at ON stock_history(ticker, tick_at)`,
	`CREATE TABLE IF NOT EXISTS daily_shop (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		last_refresh INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS daily_shop_slots (
		position INTEGER PRIMARY KEY,
		item_id  INTEGER NOT NULL,
		sold_out INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id               TEXT PRIMARY KEY,
		week_id          TEXT    NOT NULL,
		type             TEXT    NOT NULL,
		title            TEXT    NOT NULL,
		description      TEXT    NOT NULL DEFAULT '',
		difficulty       TEXT    NOT NULL DEFAULT '',
		target_value     INTEGER NOT NULL,
		reward           INTEGER NOT NULL,
		penalty          INTEGER NOT NULL,
		duration_hours   INTEGER NOT NULL,
		status           TEXT    NOT NULL,
		current_progress INTEGER NOT NULL DEFAULT 0,
		deadline         INTEGER,
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_week ON contracts(week_id)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id          TEXT PRIMARY KEY,
		item_id     INTEGER NOT NULL,
		status      TEXT    NOT NULL,
		type        TEXT    NOT NULL,
		acquired_at INTEGER NOT NULL,
		consumed_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_item ON inventory(item_id, status)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL,
		category        TEXT NOT NULL,
		multiplier      REAL NOT NULL DEFAULT 1.0,
		personal_record REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS workouts (
		id         TEXT PRIMARY KEY,
		date       INTEGER NOT NULL,
		duration   INTEGER NOT NULL DEFAULT 0,
		total_gain INTEGER NOT NULL DEFAULT 0,
		mood       TEXT    NOT NULL DEFAULT 'neutral'
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id          TEXT PRIMARY KEY,
		exercise_id INTEGER NOT NULL,
		weight      REAL    NOT NULL DEFAULT 0,
		reps        INTEGER NOT NULL DEFAULT 0,
		duration    REAL    NOT NULL DEFAULT 0,
		gain        INTEGER NOT NULL DEFAULT 0,
		logged_at   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blueprints (
		id         TEXT PRIMARY KEY,
		name       TEXT    NOT NULL,
		created_at INTEGER NOT NULL,
		exercises  TEXT    NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS shop (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT    NOT NULL,
		cost            INTEGER NOT NULL,
		type            TEXT    NOT NULL,
		purchased_count INTEGER NOT NULL DEFAULT 0,
		icon            TEXT    NOT NULL DEFAULT ''
	)`,
}

// Migrate applies the schema and seeds first-launch data. Both steps are
// idempotent so every startup runs them.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return Seed(context.Background(), db)
}

// Seed inserts the singleton user, the four instruments, the exercise
// catalog and the legacy shop rows when their tables are empty.
func Seed(ctx context.Context, db sqlx.ExtContext) error {
	now := time.Now().Unix()

	var users int
	if err := sqlx.GetContext(ctx, db, &users, `SELECT COUNT(1) FROM user`); err != nil {
		return err
	}
	if users == 0 {
		_, err := db.ExecContext(ctx, `
			INSERT INTO user (id, name, balance, total_earned, current_rank, last_workout_at, last_seen_at, created_at)
			VALUES (1, '', 0, 0, ?, ?, ?, ?)
		`, catalog.RankFor(0), now, now, now)
		if err != nil {
			return err
		}
	}

	var stocks int
	if err := sqlx.GetContext(ctx, db, &stocks, `SELECT COUNT(1) FROM stocks`); err != nil {
		return err
	}
	if stocks == 0 {
		for _, s := range catalog.SeedStocks {
			_, err := db.ExecContext(ctx, `
				INSERT INTO stocks (ticker, display_name, category, current_price, owned_shares, last_workout_at)
				VALUES (?, ?, ?, ?, 0, ?)
			`, s.Ticker, s.DisplayName, s.Category, s.Price, now)
			if err != nil {
				return err
			}
		}
	}

	var exercises int
	if err := sqlx.GetContext(ctx, db, &exercises, `SELECT COUNT(1) FROM exercises`); err != nil {
		return err
	}
	if exercises == 0 {
		for _, e := range catalog.SeedExercises {
			_, err := db.ExecContext(ctx, `
				INSERT INTO exercises (name, category, multiplier, personal_record)
				VALUES (?, ?, ?, 0)
			`, e.Name, e.Category, e.Multiplier)
			if err != nil {
				return err
			}
		}
	}

	var shopItems int
	if err := sqlx.GetContext(ctx, db, &shopItems, `SELECT COUNT(1) FROM shop`); err != nil {
		return err
	}
	if shopItems == 0 {
		for _, item := range catalog.SeedShopItems {
			_, err := db.ExecContext(ctx, `
				INSERT INTO shop (name, cost, type, purchased_count, icon)
				VALUES (?, ?, ?, 0, ?)
			`, item.Name, item.Cost, item.Type, item.Icon)
			if err != nil {
				return err
			}
		}
	}

	var shopState int
	if err := sqlx.GetContext(ctx, db, &shopState, `SELECT COUNT(1) FROM daily_shop`); err != nil {
		return err
	}
	if shopState == 0 {
		// last_refresh 0 forces a rotation on the first reconcile pass.
		if _, err := db.ExecContext(ctx, `INSERT INTO daily_shop (id, last_refresh) VALUES (1, 0)`); err != nil {
			return err
		}
	}
	return nil
}

// Wipe clears every table inside the given transaction. Used by the full
// reset and by backup import before repopulating.
func Wipe(ctx context.Context, tx *sqlx.Tx) error {
	tables := []string{
		"stock_history", "stocks", "daily_shop_slots", "daily_shop",
		"contracts", "inventory", "logs", "workouts", "blueprints",
		"exercises", "shop", "user",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}
