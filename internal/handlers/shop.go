package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"irontycoon/internal/services"
)

// Shop reconciles before rendering so a stale or corrupted board rerolls on
// view rather than waiting for the next sweep.
func (h *Handler) Shop(w http.ResponseWriter, r *http.Request) {
	if _, err := h.shop.Reconcile(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to rotate shop")
		return
	}
	view, err := h.shop.View(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load shop")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type purchaseRequest struct {
	ItemID int64 `json:"item_id"`
}

func (h *Handler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	entry, user, err := h.shop.Purchase(r.Context(), req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownItem):
			respondError(w, http.StatusNotFound, "unknown_item")
		case errors.Is(err, services.ErrItemNotInShop):
			respondError(w, http.StatusNotFound, "item_not_in_shop")
		case errors.Is(err, services.ErrSlotSoldOut):
			respondError(w, http.StatusConflict, "sold_out")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "purchase_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"entry":   entry,
		"balance": user.Balance,
	})
}

type upgradeRequest struct {
	UpgradeID string `json:"upgrade_id"`
}

func (h *Handler) PurchaseUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.shop.PurchaseUpgrade(r.Context(), req.UpgradeID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownUpgrade):
			respondError(w, http.StatusNotFound, "unknown_upgrade")
		case errors.Is(err, services.ErrUpgradeOwned):
			respondError(w, http.StatusConflict, "upgrade_owned")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "purchase_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.shop.Inventory(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load inventory")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) ConsumeItem(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	entry, err := h.shop.Consume(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotOwned) {
			respondError(w, http.StatusNotFound, "item_not_owned")
			return
		}
		respondError(w, http.StatusInternalServerError, "consume_failed")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
