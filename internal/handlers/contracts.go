package handlers

import (
	"errors"
	"net/http"

	"irontycoon/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListContracts generates this week's offers if they are missing, then
// returns the sheet.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	if _, err := h.contracts.GenerateWeeklyOffers(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate offers")
		return
	}
	contracts, err := h.contracts.CurrentWeek(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load contracts")
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

// GenerateContracts forces the weekly offer sweep; a no-op when the sheet
// already exists.
func (h *Handler) GenerateContracts(w http.ResponseWriter, r *http.Request) {
	generated, err := h.contracts.GenerateWeeklyOffers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate offers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"generated": generated})
}

func (h *Handler) SignContract(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	signed, err := h.contracts.Sign(r.Context(), contractID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownContract):
			respondError(w, http.StatusNotFound, "unknown_contract")
		case errors.Is(err, services.ErrContractTaken):
			respondError(w, http.StatusConflict, "contract_already_signed")
		case errors.Is(err, services.ErrContractNotOpen):
			respondError(w, http.StatusConflict, "contract_not_open")
		default:
			respondError(w, http.StatusInternalServerError, "sign_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, signed)
}
