package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
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

type MarketUserStore interface {
	userWallet
}

type MarketStockStore interface {
	List(ctx context.Context) ([]models.Stock, error)
	Get(ctx context.Context, ticker string) (models.Stock, error)
	GetForUpdate(ctx context.Context, tx store.Getter, ticker string) (models.Stock, error)
	SetPrice(ctx context.Context, tx store.Execer, ticker string, price int64) error
	MarkPumped(ctx context.Context, tx store.Execer, ticker string, price, workoutAt int64) error
	SetDumpPenalizedDays(ctx context.Context, tx store.Execer, ticker string, days int64) error
	SetOwnedShares(ctx context.Context, tx store.Execer, ticker string, shares int64) error
	History(ctx context.Context, ticker string, limit int) ([]models.PricePoint, error)
	LatestHistoryAt(ctx context.Context, tx store.Getter, ticker string) (int64, error)
	AppendHistory(ctx context.Context, tx store.Execer, ticker string, at, price int64, keep int) error
}

// MarketService runs the instrument simulation: the periodic drift tick, the
// decay for neglected muscle groups, workout pumps and the share trades.
type MarketService struct {
	txRunner db.TxRunner
	users    MarketUserStore
	stocks   MarketStockStore
	hub      UpdateHub
	eco      config.Economy
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMarketService(txRunner db.TxRunner, users MarketUserStore, stocks MarketStockStore, hub UpdateHub, eco config.Economy) *MarketService {
	return &MarketService{
		txRunner: txRunner,
		users:    users,
		stocks:   stocks,
		hub:      hub,
		eco:      eco,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *MarketService) List(ctx context.Context) ([]models.Stock, error) {
	return s.stocks.List(ctx)
}

func (s *MarketService) Detail(ctx context.Context, ticker string) (models.Stock, []models.PricePoint, error) {
	stock, err := s.stocks.Get(ctx, ticker)
	if err != nil {
		if store.IsNotFound(err) {
			return models.Stock{}, nil, ErrUnknownTicker
		}
		return models.Stock{}, nil, err
	}
	history, err := s.stocks.History(ctx, ticker, s.eco.HistoryLimit)
	if err != nil {
		return models.Stock{}, nil, err
	}
	return stock, history, nil
}

// Tick advances every instrument that is due for a simulation step. Each
// instrument moves in its own transaction so one locked row cannot stall the
// rest of the board.
func (s *MarketService) Tick(ctx context.Context) error {
	stocks, err := s.stocks.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, stock := range stocks {
		if err := s.tickOne(ctx, stock.Ticker); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *MarketService) tickOne(ctx context.Context, ticker string) error {
	var after models.Stock
	moved := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		moved = false
		stock, err := s.stocks.GetForUpdate(ctx, tx, ticker)
		if err != nil {
			return err
		}
		now := s.now().Unix()
		latest, err := s.stocks.LatestHistoryAt(ctx, tx, ticker)
		if err != nil {
			return err
		}
		if now-latest < int64(s.eco.TickIntervalMinutes)*60 {
			return nil
		}
		drift := s.randRange(-s.eco.MaxVolatility, s.eco.MaxVolatility)
		price := money.ScaleFloat(stock.CurrentPrice, 1+drift)

		// Each day past the neglect threshold marks the price down once.
		// The counter remembers the days already charged; a pump resets it.
		if stock.LastWorkoutAt > 0 {
			overdue := (now-stock.LastWorkoutAt)/86400 - s.eco.DumpThresholdDays
			if overdue > stock.DumpPenalizedDays {
				for day := stock.DumpPenalizedDays; day < overdue; day++ {
					price = money.ScaleFloat(price, 1-s.eco.DumpDailyRate)
				}
				if err := s.stocks.SetDumpPenalizedDays(ctx, tx, ticker, overdue); err != nil {
					return err
				}
			}
		}
		if price < s.eco.PriceFloor {
			price = s.eco.PriceFloor
		}
		if err := s.stocks.SetPrice(ctx, tx, ticker, price); err != nil {
			return err
		}
		if err := s.stocks.AppendHistory(ctx, tx, ticker, now, price, s.eco.HistoryLimit); err != nil {
			return err
		}
		stock.CurrentPrice = price
		after = stock
		moved = true
		return nil
	})
	if err != nil {
		return err
	}
	if moved {
		s.broadcastPrice(after)
	}
	return nil
}

type PumpResult struct {
	Ticker      string  `json:"ticker"`
	OldPrice    int64   `json:"old_price"`
	NewPrice    int64   `json:"new_price"`
	PumpPercent float64 `json:"pump_percent"`
}

// Pump spikes the instrument tied to a trained muscle group and resets its
// neglect clock.
func (s *MarketService) Pump(ctx context.Context, category string) (PumpResult, error) {
	ticker, ok := catalog.TickerForCategory(category)
	if !ok {
		return PumpResult{}, ErrUnknownTicker
	}
	rate := s.randRange(s.eco.PumpMin, s.eco.PumpMax)
	var result PumpResult
	var after models.Stock
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		stock, err := s.stocks.GetForUpdate(ctx, tx, ticker)
		if err != nil {
			return err
		}
		now := s.now().Unix()
		price := money.ScaleFloat(stock.CurrentPrice, 1+rate)
		if price < s.eco.PriceFloor {
			price = s.eco.PriceFloor
		}
		if err := s.stocks.MarkPumped(ctx, tx, ticker, price, now); err != nil {
			return err
		}
		if err := s.stocks.AppendHistory(ctx, tx, ticker, now, price, s.eco.HistoryLimit); err != nil {
			return err
		}
		result = PumpResult{
			Ticker:      ticker,
			OldPrice:    stock.CurrentPrice,
			NewPrice:    price,
			PumpPercent: rate,
		}
		stock.CurrentPrice = price
		stock.LastWorkoutAt = now
		stock.DumpPenalizedDays = 0
		after = stock
		return nil
	})
	if err != nil {
		return PumpResult{}, err
	}
	s.broadcastPrice(after)
	return result, nil
}

type TradeResult struct {
	Ticker        string `json:"ticker"`
	Shares        int64  `json:"shares"`
	PricePerShare int64  `json:"price_per_share"`
	AmountMinor   int64  `json:"amount"`
	OwnedShares   int64  `json:"owned_shares"`
	BalanceMinor  int64  `json:"balance"`
}

// Buy converts amountMinor into whole shares at the live price and debits
// only what the shares cost; the fractional remainder stays in the wallet.
func (s *MarketService) Buy(ctx context.Context, ticker string, amountMinor int64) (TradeResult, error) {
	if amountMinor <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	var result TradeResult
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		stock, err := s.stocks.GetForUpdate(ctx, tx, ticker)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrUnknownTicker
			}
			return err
		}
		shares := amountMinor / stock.CurrentPrice
		if shares <= 0 {
			return ErrTradeTooSmall
		}
		cost := shares * stock.CurrentPrice
		u, ok, err := debitBalance(ctx, tx, s.users, cost)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientFunds
		}
		owned := stock.OwnedShares + shares
		if err := s.stocks.SetOwnedShares(ctx, tx, ticker, owned); err != nil {
			return err
		}
		result = TradeResult{
			Ticker:        ticker,
			Shares:        shares,
			PricePerShare: stock.CurrentPrice,
			AmountMinor:   cost,
			OwnedShares:   owned,
			BalanceMinor:  u.Balance,
		}
		after = u
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	broadcastWallet(s.hub, after)
	return result, nil
}

// Sell liquidates whole shares at the live price. Proceeds land in the
// balance without counting as earnings.
func (s *MarketService) Sell(ctx context.Context, ticker string, shares int64) (TradeResult, error) {
	if shares <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	var result TradeResult
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		stock, err := s.stocks.GetForUpdate(ctx, tx, ticker)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrUnknownTicker
			}
			return err
		}
		if shares > stock.OwnedShares {
			return ErrNotEnoughShares
		}
		proceeds := shares * stock.CurrentPrice
		u, err := creditBalance(ctx, tx, s.users, proceeds)
		if err != nil {
			return err
		}
		owned := stock.OwnedShares - shares
		if err := s.stocks.SetOwnedShares(ctx, tx, ticker, owned); err != nil {
			return err
		}
		result = TradeResult{
			Ticker:        ticker,
			Shares:        shares,
			PricePerShare: stock.CurrentPrice,
			AmountMinor:   proceeds,
			OwnedShares:   owned,
			BalanceMinor:  u.Balance,
		}
		after = u
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	broadcastWallet(s.hub, after)
	return result, nil
}

type Portfolio struct {
	Holdings   []models.Stock `json:"holdings"`
	TotalValue int64          `json:"total_value"`
}

func (s *MarketService) Portfolio(ctx context.Context) (Portfolio, error) {
	stocks, err := s.stocks.List(ctx)
	if err != nil {
		return Portfolio{}, err
	}
	view := Portfolio{Holdings: stocks}
	for _, stock := range stocks {
		view.TotalValue += stock.OwnedShares * stock.CurrentPrice
	}
	return view, nil
}

func (s *MarketService) broadcastPrice(stock models.Stock) {
	s.hub.Broadcast(websocket.Update{
		Kind: websocket.UpdatePrice,
		Data: map[string]any{
			"ticker": stock.Ticker,
			"price":  money.FormatMinor(stock.CurrentPrice),
		},
	})
}

func (s *MarketService) randRange(low, high float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + s.rng.Float64()*(high-low)
}
