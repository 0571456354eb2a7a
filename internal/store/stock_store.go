package store

import (
	"context"

	"irontycoon/internal/models"
)

type StockStore struct {
	db DB
}

func NewStockStore(db DB) *StockStore {
	return &StockStore{db: db}
}

const stockColumns = `ticker, display_name, category, current_price, owned_shares,
	last_workout_at, dump_penalized_days`

func (s *StockStore) List(ctx context.Context) ([]models.Stock, error) {
	var rows []models.Stock
	err := s.db.SelectContext(ctx, &rows, `SELECT `+stockColumns+` FROM stocks ORDER BY ticker`)
	return rows, err
}

func (s *StockStore) ListForUpdate(ctx context.Context, tx Selecter) ([]models.Stock, error) {
	var rows []models.Stock
	err := tx.SelectContext(ctx, &rows, `SELECT `+stockColumns+` FROM stocks ORDER BY ticker`)
	return rows, err
}

func (s *StockStore) Get(ctx context.Context, ticker string) (models.Stock, error) {
	var row models.Stock
	err := s.db.GetContext(ctx, &row, `SELECT `+stockColumns+` FROM stocks WHERE ticker = ?`, ticker)
	return row, err
}

func (s *StockStore) GetForUpdate(ctx context.Context, tx Getter, ticker string) (models.Stock, error) {
	var row models.Stock
	err := tx.GetContext(ctx, &row, `SELECT `+stockColumns+` FROM stocks WHERE ticker = ?`, ticker)
	return row, err
}

func (s *StockStore) SetPrice(ctx context.Context, tx Execer, ticker string, price int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE stocks SET current_price = ? WHERE ticker = ?`, price, ticker)
	return err
}

// MarkPumped resets the instrument's own inactivity clock alongside the
// price move that rewarded the activity.
func (s *StockStore) MarkPumped(ctx context.Context, tx Execer, ticker string, price, workoutAt int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE stocks
		SET current_price = ?, last_workout_at = ?, dump_penalized_days = 0
		WHERE ticker = ?
	`, price, workoutAt, ticker)
	return err
}

func (s *StockStore) SetDumpPenalizedDays(ctx context.Context, tx Execer, ticker string, days int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE stocks SET dump_penalized_days = ? WHERE ticker = ?`, days, ticker)
	return err
}

func (s *StockStore) SetOwnedShares(ctx context.Context, tx Execer, ticker string, shares int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE stocks SET owned_shares = ? WHERE ticker = ?`, shares, ticker)
	return err
}

func (s *StockStore) History(ctx context.Context, ticker string, limit int) ([]models.PricePoint, error) {
	var rows []models.PricePoint
	err := s.db.SelectContext(ctx, &rows, `
		SELECT tick_at, price FROM stock_history
		WHERE ticker = ?
		ORDER BY tick_at DESC, id DESC
		LIMIT ?
	`, ticker, limit)
	if err != nil {
		return nil, err
	}
	// Stored newest-first for the LIMIT; callers want chronological order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (s *StockStore) LatestHistoryAt(ctx context.Context, tx Getter, ticker string) (int64, error) {
	var at int64
	err := tx.GetContext(ctx, &at, `
		SELECT COALESCE(MAX(tick_at), 0) FROM stock_history WHERE ticker = ?
	`, ticker)
	return at, err
}

// AppendHistory inserts a point and drops everything older than the newest
// `keep` rows, inside the caller's transaction.
func (s *StockStore) AppendHistory(ctx context.Context, tx Execer, ticker string, at, price int64, keep int) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_history (ticker, tick_at, price) VALUES (?, ?, ?)
	`, ticker, at, price); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM stock_history
		WHERE ticker = ? AND id NOT IN (
			SELECT id FROM stock_history
			WHERE ticker = ?
			ORDER BY tick_at DESC, id DESC
			LIMIT ?
		)
	`, ticker, ticker, keep)
	return err
}

func (s *StockStore) Insert(ctx context.Context, tx Execer, stock models.Stock) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO stocks (`+stockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stock.Ticker, stock.DisplayName, stock.Category, stock.CurrentPrice,
		stock.OwnedShares, stock.LastWorkoutAt, stock.DumpPenalizedDays)
	return err
}

func (s *StockStore) InsertHistoryPoint(ctx context.Context, tx Execer, ticker string, p models.PricePoint) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO stock_history (ticker, tick_at, price) VALUES (?, ?, ?)
	`, ticker, p.TickAt, p.Price)
	return err
}
