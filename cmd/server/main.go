package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/handlers"
	"irontycoon/internal/scheduler"
	"irontycoon/internal/services"
	"irontycoon/internal/store"
	"irontycoon/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	stocks := store.NewStockStore(database)
	shop := store.NewShopStore(database)
	contracts := store.NewContractStore(database)
	inventory := store.NewInventoryStore(database)
	workouts := store.NewWorkoutStore(database)
	exercises := store.NewExerciseStore(database)
	blueprints := store.NewBlueprintStore(database)
	shopItems := store.NewShopItemStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	ledgerService := services.NewLedgerService(txRunner, users, hub, cfg.Economy)
	marketService := services.NewMarketService(txRunner, users, stocks, hub, cfg.Economy)
	shopService := services.NewShopService(txRunner, users, shop, inventory, hub, cfg.Economy)
	contractService := services.NewContractService(txRunner, users, contracts, hub, cfg.Economy)
	incomeService := services.NewIncomeService(txRunner, users, hub, cfg.Economy)
	workoutService := services.NewWorkoutService(txRunner, users, workouts, exercises, blueprints, marketService, contractService, hub, cfg.Economy)
	backupService := services.NewBackupService(txRunner, users, stocks, workouts, inventory, exercises, blueprints, shopItems, cfg.Economy.HistoryLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, ledgerService, marketService, shopService, contractService, incomeService)
	if err := sched.RegisterAll(cfg.Economy); err != nil {
		log.Fatalf("failed to register scheduler jobs: %v", err)
	}
	sched.RunOnStart()
	sched.Start()
	defer sched.Stop()

	handler := handlers.New(cfg, ledgerService, marketService, shopService, contractService, incomeService, workoutService, backupService, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("irontycoon API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
