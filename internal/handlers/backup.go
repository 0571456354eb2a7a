package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"irontycoon/internal/services"
)

const maxImportBytes = 8 << 20

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backup.Export(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "export_failed")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="irontycoon-backup.json"`)
	respondJSON(w, http.StatusOK, backup)
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.backup.Import(r.Context(), raw); err != nil {
		if errors.Is(err, services.ErrInvalidBackup) {
			respondError(w, http.StatusBadRequest, "invalid_backup")
			return
		}
		respondError(w, http.StatusInternalServerError, "import_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

// ResetSave destroys the whole save. The confirmation phrase keeps a stray
// client call from wiping months of progress.
func (h *Handler) ResetSave(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Confirm != "RESET" {
		respondError(w, http.StatusBadRequest, "confirmation_required")
		return
	}
	if err := h.backup.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
