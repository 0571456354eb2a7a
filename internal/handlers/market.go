package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"irontycoon/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.market.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load market")
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

func (h *Handler) StockDetail(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	stock, history, err := h.market.Detail(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTicker) {
			respondError(w, http.StatusNotFound, "unknown_ticker")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load instrument")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"stock":   stock,
		"history": history,
	})
}

type tradeRequest struct {
	Ticker string `json:"ticker"`
	Amount string `json:"amount"`
	Shares int64  `json:"shares"`
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.market.Buy(r.Context(), req.Ticker, amountMinor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTicker):
			respondError(w, http.StatusNotFound, "unknown_ticker")
		case errors.Is(err, services.ErrTradeTooSmall):
			respondError(w, http.StatusBadRequest, "amount_too_small")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "trade_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.market.Sell(r.Context(), req.Ticker, req.Shares)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTicker):
			respondError(w, http.StatusNotFound, "unknown_ticker")
		case errors.Is(err, services.ErrNotEnoughShares):
			respondError(w, http.StatusBadRequest, "not_enough_shares")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "trade_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.market.Portfolio(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load portfolio")
		return
	}
	respondJSON(w, http.StatusOK, portfolio)
}
