package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"irontycoon/internal/services"
)

type settingsRequest struct {
	UnitSystem string `json:"unit_system"`
	Theme      string `json:"theme"`
	Haptics    bool   `json:"haptics"`
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UnitSystem != "metric" && req.UnitSystem != "imperial" {
		respondError(w, http.StatusBadRequest, "invalid_unit_system")
		return
	}
	if req.Theme == "" {
		req.Theme = "default"
	}
	user, err := h.ledger.UpdateSettings(r.Context(), req.UnitSystem, req.Theme, req.Haptics)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type holidayRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) SetHolidayMode(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.ledger.SetHolidayMode(r.Context(), req.Active)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientFunds) {
			respondError(w, http.StatusBadRequest, "insufficient_funds")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type onboardingRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	user, err := h.ledger.CompleteOnboarding(r.Context(), req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
