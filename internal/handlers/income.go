package handlers

import (
	"net/http"

	"irontycoon/internal/money"
)

func (h *Handler) PendingIncome(w http.ResponseWriter, r *http.Request) {
	pending, err := h.income.Pending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load income")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"pending": pending,
		"amount":  money.FormatMinor(pending),
	})
}

func (h *Handler) IncomeHeartbeat(w http.ResponseWriter, r *http.Request) {
	if err := h.income.Heartbeat(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "heartbeat_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CollectIncome(w http.ResponseWriter, r *http.Request) {
	collected, user, err := h.income.Collect(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "collect_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"collected": collected,
		"balance":   user.Balance,
		"rank":      user.CurrentRank,
	})
}
