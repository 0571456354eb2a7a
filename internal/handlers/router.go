package handlers

import (
	"net/http"

	"irontycoon/internal/config"
	"irontycoon/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg       config.Config
	ledger    LedgerService
	market    MarketService
	shop      ShopService
	contracts ContractService
	income    IncomeService
	workouts  WorkoutService
	backup    BackupService
	hub       *websocket.Hub
}

func New(cfg config.Config, ledger LedgerService, market MarketService, shop ShopService, contracts ContractService, income IncomeService, workouts WorkoutService, backup BackupService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:       cfg,
		ledger:    ledger,
		market:    market,
		shop:      shop,
		contracts: contracts,
		income:    income,
		workouts:  workouts,
		backup:    backup,
		hub:       hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/state/dashboard", h.Dashboard)

	router.Route("/market", func(r chi.Router) {
		r.Get("/stocks", h.ListStocks)
		r.Get("/stocks/{ticker}", h.StockDetail)
		r.Post("/buy", h.Buy)
		r.Post("/sell", h.Sell)
		r.Get("/portfolio", h.GetPortfolio)
	})

	router.Route("/shop", func(r chi.Router) {
		r.Get("/", h.Shop)
		r.Post("/purchase", h.PurchaseItem)
	})

	router.Route("/contracts", func(r chi.Router) {
		r.Get("/", h.ListContracts)
		r.Post("/generate", h.GenerateContracts)
		r.Post("/{id}/sign", h.SignContract)
	})

	router.Route("/workouts", func(r chi.Router) {
		r.Get("/", h.ListWorkouts)
		r.Get("/logs", h.ListSetLogs)
		r.Post("/session/sets", h.LogSet)
		r.Post("/session/finish", h.FinishSession)
		r.Get("/exercises", h.ListExercises)
		r.Post("/exercises", h.CreateExercise)
		r.Get("/blueprints", h.ListBlueprints)
		r.Post("/blueprints", h.SaveBlueprint)
	})

	router.Route("/income", func(r chi.Router) {
		r.Get("/", h.PendingIncome)
		r.Post("/heartbeat", h.IncomeHeartbeat)
		r.Post("/collect", h.CollectIncome)
	})

	router.Put("/settings", h.UpdateSettings)
	router.Post("/settings/holiday", h.SetHolidayMode)
	router.Post("/settings/onboarding", h.CompleteOnboarding)
	router.Post("/upgrades/purchase", h.PurchaseUpgrade)

	router.Get("/inventory", h.ListInventory)
	router.Post("/inventory/consume", h.ConsumeItem)

	router.Get("/export", h.ExportBackup)
	router.Post("/import", h.ImportBackup)
	router.Post("/reset", h.ResetSave)

	router.Get("/ws/updates", h.WSUpdates)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) WSUpdates(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
