package handlers

import (
	"net/http"
)

// Dashboard aggregates everything the home screen renders in one call.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.ledger.Profile(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load profile")
		return
	}
	stocks, err := h.market.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load market")
		return
	}
	portfolio, err := h.market.Portfolio(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load portfolio")
		return
	}
	shop, err := h.shop.View(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load shop")
		return
	}
	contracts, err := h.contracts.CurrentWeek(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load contracts")
		return
	}
	pending, err := h.income.Pending(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load income")
		return
	}
	restFactor, err := h.workouts.RestFactor(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load upgrades")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user":           user,
		"stocks":         stocks,
		"portfolio":      portfolio,
		"shop":           shop,
		"contracts":      contracts,
		"pending_income": pending,
		"rest_factor":    restFactor,
	})
}
