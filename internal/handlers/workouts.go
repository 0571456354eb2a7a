package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"irontycoon/internal/services"
)

func (h *Handler) LogSet(w http.ResponseWriter, r *http.Request) {
	var req services.SetInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Weight < 0 || req.Reps < 0 || req.DurationMin < 0 {
		respondError(w, http.StatusBadRequest, "invalid_set")
		return
	}
	result, err := h.workouts.LogSet(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownExercise):
			respondError(w, http.StatusNotFound, "unknown_exercise")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_set")
		default:
			respondError(w, http.StatusInternalServerError, "log_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	var req services.FinishSessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.workouts.FinishSession(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "finish_failed")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.workouts.History(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load workouts")
		return
	}
	respondJSON(w, http.StatusOK, workouts)
}

func (h *Handler) ListSetLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.workouts.Logs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func (h *Handler) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.workouts.Exercises(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load exercises")
		return
	}
	respondJSON(w, http.StatusOK, exercises)
}

type createExerciseRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Multiplier float64 `json:"multiplier"`
}

func (h *Handler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Multiplier <= 0 {
		req.Multiplier = 1
	}
	exercise, err := h.workouts.CreateExercise(r.Context(), req.Name, req.Category, req.Multiplier)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTicker) {
			respondError(w, http.StatusBadRequest, "invalid_category")
			return
		}
		respondError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	respondJSON(w, http.StatusCreated, exercise)
}

func (h *Handler) ListBlueprints(w http.ResponseWriter, r *http.Request) {
	blueprints, err := h.workouts.Blueprints(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load blueprints")
		return
	}
	respondJSON(w, http.StatusOK, blueprints)
}

type saveBlueprintRequest struct {
	Name      string          `json:"name"`
	Exercises json.RawMessage `json:"exercises"`
}

func (h *Handler) SaveBlueprint(w http.ResponseWriter, r *http.Request) {
	var req saveBlueprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	exercises := string(req.Exercises)
	if exercises == "" {
		exercises = "[]"
	}
	blueprint, err := h.workouts.SaveBlueprint(r.Context(), req.Name, exercises)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	respondJSON(w, http.StatusCreated, blueprint)
}
