package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"irontycoon/internal/config"
	"irontycoon/internal/models"
	"irontycoon/internal/services"
)

type stubLedger struct {
	profileFn            func(ctx context.Context) (models.User, error)
	setHolidayModeFn     func(ctx context.Context, active bool) (models.User, error)
	updateSettingsFn     func(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error)
	completeOnboardingFn func(ctx context.Context, name string) (models.User, error)
}

func (s *stubLedger) Profile(ctx context.Context) (models.User, error) {
	if s.profileFn != nil {
		return s.profileFn(ctx)
	}
	return models.User{}, nil
}

func (s *stubLedger) Credit(ctx context.Context, amountMinor int64) (models.User, error) {
	return models.User{}, nil
}

func (s *stubLedger) Debit(ctx context.Context, amountMinor int64) (models.User, bool, error) {
	return models.User{}, false, nil
}

func (s *stubLedger) SetHolidayMode(ctx context.Context, active bool) (models.User, error) {
	if s.setHolidayModeFn != nil {
		return s.setHolidayModeFn(ctx, active)
	}
	return models.User{}, nil
}

func (s *stubLedger) UpdateSettings(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error) {
	if s.updateSettingsFn != nil {
		return s.updateSettingsFn(ctx, unitSystem, theme, haptics)
	}
	return models.User{}, nil
}

func (s *stubLedger) CompleteOnboarding(ctx context.Context, name string) (models.User, error) {
	if s.completeOnboardingFn != nil {
		return s.completeOnboardingFn(ctx, name)
	}
	return models.User{}, nil
}

type stubMarket struct {
	listFn      func(ctx context.Context) ([]models.Stock, error)
	detailFn    func(ctx context.Context, ticker string) (models.Stock, []models.PricePoint, error)
	buyFn       func(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error)
	sellFn      func(ctx context.Context, ticker string, shares int64) (services.TradeResult, error)
	portfolioFn func(ctx context.Context) (services.Portfolio, error)
}

func (s *stubMarket) List(ctx context.Context) ([]models.Stock, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubMarket) Detail(ctx context.Context, ticker string) (models.Stock, []models.PricePoint, error) {
	if s.detailFn != nil {
		return s.detailFn(ctx, ticker)
	}
	return models.Stock{}, nil, nil
}

func (s *stubMarket) Buy(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error) {
	if s.buyFn != nil {
		return s.buyFn(ctx, ticker, amountMinor)
	}
	return services.TradeResult{}, nil
}

func (s *stubMarket) Sell(ctx context.Context, ticker string, shares int64) (services.TradeResult, error) {
	if s.sellFn != nil {
		return s.sellFn(ctx, ticker, shares)
	}
	return services.TradeResult{}, nil
}

func (s *stubMarket) Portfolio(ctx context.Context) (services.Portfolio, error) {
	if s.portfolioFn != nil {
		return s.portfolioFn(ctx)
	}
	return services.Portfolio{}, nil
}

type stubShop struct {
	viewFn            func(ctx context.Context) (services.ShopView, error)
	reconcileFn       func(ctx context.Context) (bool, error)
	purchaseFn        func(ctx context.Context, itemID int64) (models.InventoryEntry, models.User, error)
	purchaseUpgradeFn func(ctx context.Context, upgradeID string) (models.User, error)
	consumeFn         func(ctx context.Context, itemID int64) (models.InventoryEntry, error)
	inventoryFn       func(ctx context.Context) ([]models.InventoryEntry, error)
}

func (s *stubShop) View(ctx context.Context) (services.ShopView, error) {
	if s.viewFn != nil {
		return s.viewFn(ctx)
	}
	return services.ShopView{}, nil
}

func (s *stubShop) Reconcile(ctx context.Context) (bool, error) {
	if s.reconcileFn != nil {
		return s.reconcileFn(ctx)
	}
	return false, nil
}

func (s *stubShop) Purchase(ctx context.Context, itemID int64) (models.InventoryEntry, models.User, error) {
	if s.purchaseFn != nil {
		return s.purchaseFn(ctx, itemID)
	}
	return models.InventoryEntry{}, models.User{}, nil
}

func (s *stubShop) PurchaseUpgrade(ctx context.Context, upgradeID string) (models.User, error) {
	if s.purchaseUpgradeFn != nil {
		return s.purchaseUpgradeFn(ctx, upgradeID)
	}
	return models.User{}, nil
}

func (s *stubShop) Consume(ctx context.Context, itemID int64) (models.InventoryEntry, error) {
	if s.consumeFn != nil {
		return s.consumeFn(ctx, itemID)
	}
	return models.InventoryEntry{}, nil
}

func (s *stubShop) Inventory(ctx context.Context) ([]models.InventoryEntry, error) {
	if s.inventoryFn != nil {
		return s.inventoryFn(ctx)
	}
	return nil, nil
}

type stubContracts struct {
	currentWeekFn func(ctx context.Context) ([]models.Contract, error)
	generateFn    func(ctx context.Context) (bool, error)
	signFn        func(ctx context.Context, contractID string) (models.Contract, error)
}

func (s *stubContracts) CurrentWeek(ctx context.Context) ([]models.Contract, error) {
	if s.currentWeekFn != nil {
		return s.currentWeekFn(ctx)
	}
	return nil, nil
}

func (s *stubContracts) GenerateWeeklyOffers(ctx context.Context) (bool, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx)
	}
	return false, nil
}

func (s *stubContracts) Sign(ctx context.Context, contractID string) (models.Contract, error) {
	if s.signFn != nil {
		return s.signFn(ctx, contractID)
	}
	return models.Contract{}, nil
}

type stubIncome struct {
	heartbeatFn func(ctx context.Context) error
	accrueFn    func(ctx context.Context) (int64, error)
	collectFn   func(ctx context.Context) (int64, models.User, error)
	pendingFn   func(ctx context.Context) (int64, error)
}

func (s *stubIncome) Heartbeat(ctx context.Context) error {
	if s.heartbeatFn != nil {
		return s.heartbeatFn(ctx)
	}
	return nil
}

func (s *stubIncome) Accrue(ctx context.Context) (int64, error) {
	if s.accrueFn != nil {
		return s.accrueFn(ctx)
	}
	return 0, nil
}

func (s *stubIncome) Collect(ctx context.Context) (int64, models.User, error) {
	if s.collectFn != nil {
		return s.collectFn(ctx)
	}
	return 0, models.User{}, nil
}

func (s *stubIncome) Pending(ctx context.Context) (int64, error) {
	if s.pendingFn != nil {
		return s.pendingFn(ctx)
	}
	return 0, nil
}

type stubWorkouts struct {
	logSetFn         func(ctx context.Context, in services.SetInput) (services.SetResult, error)
	finishSessionFn  func(ctx context.Context, in services.FinishSessionInput) (services.FinishSessionResult, error)
	exercisesFn      func(ctx context.Context) ([]models.Exercise, error)
	createExerciseFn func(ctx context.Context, name, category string, multiplier float64) (models.Exercise, error)
	historyFn        func(ctx context.Context) ([]models.Workout, error)
	logsFn           func(ctx context.Context) ([]models.SetLog, error)
	blueprintsFn     func(ctx context.Context) ([]models.Blueprint, error)
	saveBlueprintFn  func(ctx context.Context, name, exercisesJSON string) (models.Blueprint, error)
	restFactorFn     func(ctx context.Context) (float64, error)
}

func (s *stubWorkouts) LogSet(ctx context.Context, in services.SetInput) (services.SetResult, error) {
	if s.logSetFn != nil {
		return s.logSetFn(ctx, in)
	}
	return services.SetResult{}, nil
}

func (s *stubWorkouts) FinishSession(ctx context.Context, in services.FinishSessionInput) (services.FinishSessionResult, error) {
	if s.finishSessionFn != nil {
		return s.finishSessionFn(ctx, in)
	}
	return services.FinishSessionResult{}, nil
}

func (s *stubWorkouts) Exercises(ctx context.Context) ([]models.Exercise, error) {
	if s.exercisesFn != nil {
		return s.exercisesFn(ctx)
	}
	return nil, nil
}

func (s *stubWorkouts) CreateExercise(ctx context.Context, name, category string, multiplier float64) (models.Exercise, error) {
	if s.createExerciseFn != nil {
		return s.createExerciseFn(ctx, name, category, multiplier)
	}
	return models.Exercise{}, nil
}

func (s *stubWorkouts) History(ctx context.Context) ([]models.Workout, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx)
	}
	return nil, nil
}

func (s *stubWorkouts) Logs(ctx context.Context) ([]models.SetLog, error) {
	if s.logsFn != nil {
		return s.logsFn(ctx)
	}
	return nil, nil
}

func (s *stubWorkouts) Blueprints(ctx context.Context) ([]models.Blueprint, error) {
	if s.blueprintsFn != nil {
		return s.blueprintsFn(ctx)
	}
	return nil, nil
}

func (s *stubWorkouts) SaveBlueprint(ctx context.Context, name, exercisesJSON string) (models.Blueprint, error) {
	if s.saveBlueprintFn != nil {
		return s.saveBlueprintFn(ctx, name, exercisesJSON)
	}
	return models.Blueprint{}, nil
}

func (s *stubWorkouts) RestFactor(ctx context.Context) (float64, error) {
	if s.restFactorFn != nil {
		return s.restFactorFn(ctx)
	}
	return 1, nil
}

type stubBackup struct {
	exportFn func(ctx context.Context) (services.Backup, error)
	importFn func(ctx context.Context, raw []byte) error
	resetFn  func(ctx context.Context) error
}

func (s *stubBackup) Export(ctx context.Context) (services.Backup, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx)
	}
	return services.Backup{}, nil
}

func (s *stubBackup) Import(ctx context.Context, raw []byte) error {
	if s.importFn != nil {
		return s.importFn(ctx, raw)
	}
	return nil
}

func (s *stubBackup) Reset(ctx context.Context) error {
	if s.resetFn != nil {
		return s.resetFn(ctx)
	}
	return nil
}

type handlerStubs struct {
	ledger    *stubLedger
	market    *stubMarket
	shop      *stubShop
	contracts *stubContracts
	income    *stubIncome
	workouts  *stubWorkouts
	backup    *stubBackup
}

func newTestHandler() (*Handler, *handlerStubs) {
	stubs := &handlerStubs{
		ledger:    &stubLedger{},
		market:    &stubMarket{},
		shop:      &stubShop{},
		contracts: &stubContracts{},
		income:    &stubIncome{},
		workouts:  &stubWorkouts{},
		backup:    &stubBackup{},
	}
	cfg := config.Config{AllowedOrigins: "*"}
	h := New(cfg, stubs.ledger, stubs.market, stubs.shop, stubs.contracts, stubs.income, stubs.workouts, stubs.backup, nil)
	return h, stubs
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch payload := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(payload))
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	h.Routes().ServeHTTP(recorder, req)
	return recorder
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload["error"]
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler()
	recorder := doRequest(t, h, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestBuyParsesAmount(t *testing.T) {
	h, stubs := newTestHandler()
	var gotTicker string
	var gotAmount int64
	stubs.market.buyFn = func(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error) {
		gotTicker = ticker
		gotAmount = amountMinor
		return services.TradeResult{Ticker: ticker, Shares: 2}, nil
	}

	recorder := doRequest(t, h, http.MethodPost, "/market/buy", map[string]any{
		"ticker": "$PUSH",
		"amount": "25.00",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d, body %s", recorder.Code, recorder.Body)
	}
	if gotTicker != "$PUSH" || gotAmount != 2500 {
		t.Fatalf("unexpected call: %s %d", gotTicker, gotAmount)
	}
}

func TestBuyRejectsBadAmount(t *testing.T) {
	h, stubs := newTestHandler()
	called := false
	stubs.market.buyFn = func(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error) {
		called = true
		return services.TradeResult{}, nil
	}

	for _, amount := range []string{"abc", "-5", "0", "1.234"} {
		recorder := doRequest(t, h, http.MethodPost, "/market/buy", map[string]any{
			"ticker": "$PUSH",
			"amount": amount,
		})
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("amount %q: unexpected status %d", amount, recorder.Code)
		}
		if errorCode(t, recorder) != "invalid_amount" {
			t.Fatalf("amount %q: unexpected error code", amount)
		}
	}
	if called {
		t.Fatalf("service must not see unparseable amounts")
	}
}

func TestBuyMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrUnknownTicker, http.StatusNotFound, "unknown_ticker"},
		{services.ErrTradeTooSmall, http.StatusBadRequest, "amount_too_small"},
		{services.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	}
	for _, c := range cases {
		h, stubs := newTestHandler()
		stubs.market.buyFn = func(ctx context.Context, ticker string, amountMinor int64) (services.TradeResult, error) {
			return services.TradeResult{}, c.err
		}
		recorder := doRequest(t, h, http.MethodPost, "/market/buy", map[string]any{
			"ticker": "$PUSH",
			"amount": "10.00",
		})
		if recorder.Code != c.status {
			t.Fatalf("%v: unexpected status %d", c.err, recorder.Code)
		}
		if errorCode(t, recorder) != c.code {
			t.Fatalf("%v: unexpected error code", c.err)
		}
	}
}

func TestSellMapsNotEnoughShares(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.market.sellFn = func(ctx context.Context, ticker string, shares int64) (services.TradeResult, error) {
		return services.TradeResult{}, services.ErrNotEnoughShares
	}
	recorder := doRequest(t, h, http.MethodPost, "/market/sell", map[string]any{
		"ticker": "$PUSH",
		"shares": 5,
	})
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "not_enough_shares" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestStockDetailUnknown(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.market.detailFn = func(ctx context.Context, ticker string) (models.Stock, []models.PricePoint, error) {
		return models.Stock{}, nil, services.ErrUnknownTicker
	}
	recorder := doRequest(t, h, http.MethodGet, "/market/stocks/$NOPE", nil)
	if recorder.Code != http.StatusNotFound || errorCode(t, recorder) != "unknown_ticker" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestShopReconcilesBeforeView(t *testing.T) {
	h, stubs := newTestHandler()
	order := []string{}
	stubs.shop.reconcileFn = func(ctx context.Context) (bool, error) {
		order = append(order, "reconcile")
		return true, nil
	}
	stubs.shop.viewFn = func(ctx context.Context) (services.ShopView, error) {
		order = append(order, "view")
		return services.ShopView{}, nil
	}
	recorder := doRequest(t, h, http.MethodGet, "/shop/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if len(order) != 2 || order[0] != "reconcile" || order[1] != "view" {
		t.Fatalf("unexpected call order: %v", order)
	}
}

func TestPurchaseItemMapsErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrUnknownItem, http.StatusNotFound, "unknown_item"},
		{services.ErrItemNotInShop, http.StatusNotFound, "item_not_in_shop"},
		{services.ErrSlotSoldOut, http.StatusConflict, "sold_out"},
		{services.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	}
	for _, c := range cases {
		h, stubs := newTestHandler()
		stubs.shop.purchaseFn = func(ctx context.Context, itemID int64) (models.InventoryEntry, models.User, error) {
			return models.InventoryEntry{}, models.User{}, c.err
		}
		recorder := doRequest(t, h, http.MethodPost, "/shop/purchase", map[string]any{"item_id": 1})
		if recorder.Code != c.status || errorCode(t, recorder) != c.code {
			t.Fatalf("%v: unexpected response %d %s", c.err, recorder.Code, recorder.Body)
		}
	}
}

func TestPurchaseUpgradeConflict(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.shop.purchaseUpgradeFn = func(ctx context.Context, upgradeID string) (models.User, error) {
		return models.User{}, services.ErrUpgradeOwned
	}
	recorder := doRequest(t, h, http.MethodPost, "/upgrades/purchase", map[string]any{"upgrade_id": "GOLD_WEIGHTS"})
	if recorder.Code != http.StatusConflict || errorCode(t, recorder) != "upgrade_owned" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestSignContractMapsErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrUnknownContract, http.StatusNotFound, "unknown_contract"},
		{services.ErrContractTaken, http.StatusConflict, "contract_already_signed"},
		{services.ErrContractNotOpen, http.StatusConflict, "contract_not_open"},
	}
	for _, c := range cases {
		h, stubs := newTestHandler()
		stubs.contracts.signFn = func(ctx context.Context, contractID string) (models.Contract, error) {
			return models.Contract{}, c.err
		}
		recorder := doRequest(t, h, http.MethodPost, "/contracts/abc/sign", nil)
		if recorder.Code != c.status || errorCode(t, recorder) != c.code {
			t.Fatalf("%v: unexpected response %d %s", c.err, recorder.Code, recorder.Body)
		}
	}
}

func TestListContractsGeneratesFirst(t *testing.T) {
	h, stubs := newTestHandler()
	generated := false
	stubs.contracts.generateFn = func(ctx context.Context) (bool, error) {
		generated = true
		return true, nil
	}
	recorder := doRequest(t, h, http.MethodGet, "/contracts/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if !generated {
		t.Fatalf("listing must backfill the weekly offers")
	}
}

func TestLogSetValidation(t *testing.T) {
	h, stubs := newTestHandler()
	called := false
	stubs.workouts.logSetFn = func(ctx context.Context, in services.SetInput) (services.SetResult, error) {
		called = true
		return services.SetResult{}, nil
	}
	recorder := doRequest(t, h, http.MethodPost, "/workouts/session/sets", map[string]any{
		"exercise_id": 1,
		"weight":      -10,
		"reps":        5,
	})
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "invalid_set" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
	if called {
		t.Fatalf("negative weights must not reach the service")
	}
}

func TestLogSetUnknownExercise(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.workouts.logSetFn = func(ctx context.Context, in services.SetInput) (services.SetResult, error) {
		return services.SetResult{}, services.ErrUnknownExercise
	}
	recorder := doRequest(t, h, http.MethodPost, "/workouts/session/sets", map[string]any{
		"exercise_id": 42,
		"weight":      10,
		"reps":        5,
	})
	if recorder.Code != http.StatusNotFound || errorCode(t, recorder) != "unknown_exercise" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestCreateExerciseDefaultsMultiplier(t *testing.T) {
	h, stubs := newTestHandler()
	var gotMultiplier float64
	stubs.workouts.createExerciseFn = func(ctx context.Context, name, category string, multiplier float64) (models.Exercise, error) {
		gotMultiplier = multiplier
		return models.Exercise{ID: 9, Name: name}, nil
	}
	recorder := doRequest(t, h, http.MethodPost, "/workouts/exercises", map[string]any{
		"name":     "Front Squat",
		"category": "legs",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if gotMultiplier != 1 {
		t.Fatalf("missing multiplier must default to 1, got %f", gotMultiplier)
	}
}

func TestCreateExerciseRequiresName(t *testing.T) {
	h, _ := newTestHandler()
	recorder := doRequest(t, h, http.MethodPost, "/workouts/exercises", map[string]any{"category": "legs"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestUpdateSettingsValidatesUnitSystem(t *testing.T) {
	h, stubs := newTestHandler()
	called := false
	stubs.ledger.updateSettingsFn = func(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error) {
		called = true
		return models.User{}, nil
	}
	recorder := doRequest(t, h, http.MethodPut, "/settings", map[string]any{"unit_system": "stones"})
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "invalid_unit_system" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
	if called {
		t.Fatalf("invalid unit system must not reach the service")
	}
}

func TestUpdateSettingsDefaultsTheme(t *testing.T) {
	h, stubs := newTestHandler()
	var gotTheme string
	stubs.ledger.updateSettingsFn = func(ctx context.Context, unitSystem, theme string, haptics bool) (models.User, error) {
		gotTheme = theme
		return models.User{}, nil
	}
	recorder := doRequest(t, h, http.MethodPut, "/settings", map[string]any{"unit_system": "metric"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if gotTheme != "default" {
		t.Fatalf("missing theme must default, got %q", gotTheme)
	}
}

func TestSetHolidayModeInsufficientFunds(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.ledger.setHolidayModeFn = func(ctx context.Context, active bool) (models.User, error) {
		return models.User{}, services.ErrInsufficientFunds
	}
	recorder := doRequest(t, h, http.MethodPost, "/settings/holiday", map[string]any{"active": true})
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "insufficient_funds" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestCollectIncomeResponse(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.income.collectFn = func(ctx context.Context) (int64, models.User, error) {
		return 54000, models.User{Balance: 64000, CurrentRank: "Trader"}, nil
	}
	recorder := doRequest(t, h, http.MethodPost, "/income/collect", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["collected"].(float64) != 54000 || payload["rank"].(string) != "Trader" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestImportBackupInvalid(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.backup.importFn = func(ctx context.Context, raw []byte) error {
		return services.ErrInvalidBackup
	}
	recorder := doRequest(t, h, http.MethodPost, "/import", `{"version": 9}`)
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "invalid_backup" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
}

func TestExportBackupSetsAttachment(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.backup.exportFn = func(ctx context.Context) (services.Backup, error) {
		return services.Backup{Version: "1.0.0", User: &models.User{Name: "Lifter"}}, nil
	}
	recorder := doRequest(t, h, http.MethodGet, "/export", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Header().Get("Content-Disposition"), "irontycoon-backup.json") {
		t.Fatalf("missing attachment header")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	h, stubs := newTestHandler()
	called := false
	stubs.backup.resetFn = func(ctx context.Context) error {
		called = true
		return nil
	}

	recorder := doRequest(t, h, http.MethodPost, "/reset", map[string]any{"confirm": "yes please"})
	if recorder.Code != http.StatusBadRequest || errorCode(t, recorder) != "confirmation_required" {
		t.Fatalf("unexpected response: %d %s", recorder.Code, recorder.Body)
	}
	if called {
		t.Fatalf("an unconfirmed reset must not reach the service")
	}

	recorder = doRequest(t, h, http.MethodPost, "/reset", map[string]any{"confirm": "RESET"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if !called {
		t.Fatalf("confirmed reset must run")
	}
}

func TestGenerateContracts(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.contracts.generateFn = func(ctx context.Context) (bool, error) {
		return true, nil
	}
	recorder := doRequest(t, h, http.MethodPost, "/contracts/generate", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	var payload map[string]bool
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !payload["generated"] {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestDashboardAggregates(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.ledger.profileFn = func(ctx context.Context) (models.User, error) {
		return models.User{Name: "Lifter", CurrentRank: "Broker"}, nil
	}
	stubs.market.listFn = func(ctx context.Context) ([]models.Stock, error) {
		return []models.Stock{{Ticker: "$PUSH"}}, nil
	}
	stubs.income.pendingFn = func(ctx context.Context) (int64, error) {
		return 1200, nil
	}
	stubs.workouts.restFactorFn = func(ctx context.Context) (float64, error) {
		return 0.90, nil
	}
	recorder := doRequest(t, h, http.MethodGet, "/state/dashboard", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	for _, key := range []string{"user", "stocks", "portfolio", "shop", "contracts", "pending_income", "rest_factor"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("dashboard missing %q", key)
		}
	}
	if payload["pending_income"].(float64) != 1200 {
		t.Fatalf("unexpected pending income: %v", payload["pending_income"])
	}
}
