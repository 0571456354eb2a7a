// Package scheduler drives the background economy: market ticks, presence
// heartbeats, shop rotation, weekly contract offers and the inactivity
// penalty sweep.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"irontycoon/internal/config"
	"irontycoon/internal/services"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron      *cron.Cron
	ledger    *services.LedgerService
	market    *services.MarketService
	shop      *services.ShopService
	contracts *services.ContractService
	income    *services.IncomeService
	ctx       context.Context
}

func NewScheduler(ctx context.Context, ledger *services.LedgerService, market *services.MarketService, shop *services.ShopService, contracts *services.ContractService, income *services.IncomeService) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		ledger:    ledger,
		market:    market,
		shop:      shop,
		contracts: contracts,
		income:    income,
		ctx:       ctx,
	}
}

// RegisterAll wires the recurring jobs from the economy tuning.
func (s *Scheduler) RegisterAll(eco config.Economy) error {
	tickSpec := fmt.Sprintf("@every %dm", eco.TickIntervalMinutes)
	if _, err := s.cron.AddFunc(tickSpec, s.marketTick); err != nil {
		return fmt.Errorf("register market tick: %w", err)
	}
	heartbeatSpec := fmt.Sprintf("@every %ds", eco.HeartbeatIntervalSec)
	if _, err := s.cron.AddFunc(heartbeatSpec, s.heartbeat); err != nil {
		return fmt.Errorf("register heartbeat: %w", err)
	}
	// The hourly sweep self-heals the shop and the weekly sheet whether or
	// not the process was alive when they came due.
	if _, err := s.cron.AddFunc("@hourly", s.housekeeping); err != nil {
		return fmt.Errorf("register housekeeping: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunOnStart catches the simulation up after a restart before the first
// cron fire. Offline accrual runs first so the downtime window is banked
// before the heartbeat starts advancing the clock again.
func (s *Scheduler) RunOnStart() {
	if earned, err := s.income.Accrue(s.ctx); err != nil {
		log.Printf("[ERROR] offline accrual: %v", err)
	} else if earned > 0 {
		log.Printf("[INFO] offline income accrued: %d", earned)
	}
	s.marketTick()
	s.housekeeping()
}

func (s *Scheduler) marketTick() {
	if err := s.market.Tick(s.ctx); err != nil {
		log.Printf("[ERROR] market tick: %v", err)
	}
}

func (s *Scheduler) heartbeat() {
	if err := s.income.Heartbeat(s.ctx); err != nil {
		log.Printf("[ERROR] heartbeat: %v", err)
	}
}

func (s *Scheduler) housekeeping() {
	if rotated, err := s.shop.Reconcile(s.ctx); err != nil {
		log.Printf("[ERROR] shop reconcile: %v", err)
	} else if rotated {
		log.Println("[INFO] shop rotated")
	}
	if generated, err := s.contracts.GenerateWeeklyOffers(s.ctx); err != nil {
		log.Printf("[ERROR] weekly offers: %v", err)
	} else if generated {
		log.Println("[INFO] weekly contract offers generated")
	}
	if taken, err := s.ledger.ApplyInactivityPenalty(s.ctx); err != nil {
		log.Printf("[ERROR] inactivity penalty: %v", err)
	} else if taken > 0 {
		log.Printf("[INFO] inactivity penalty applied: %d", taken)
	}
}
