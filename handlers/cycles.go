// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/metrics"
	"github.com/danielhkuo/crowd-band/middleware"
	"github.com/danielhkuo/crowd-band/models"
)

type CycleHandler struct {
	engine *contest.Engine
	cfg    cliparse.Config
}

func NewCycleHandler(engine *contest.Engine, cfg cliparse.Config) *CycleHandler {
	return &CycleHandler{engine: engine, cfg: cfg}
}

// StartCycle handles POST /cycles
func (h *CycleHandler) StartCycle(w http.ResponseWriter, r *http.Request) {
	// Only the operator may open a cycle
	adminKey := r.Header.Get(auth.HeaderAdminKey)
	if err := auth.ValidateAdminKey(auth.OperatorSubject, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.StartCycleRequest
	if !parseRequest(w, r, &req) {
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	prompt, err := h.engine.StartCycle(r.Context(), req.PromptText, req.WeekNumber, req.Theme, duration)
	if err != nil {
		writeError(w, err, "start cycle")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.StartCycleResponse{
		Prompt:   promptView(prompt, h.engine.Now()),
		AdminKey: auth.GenerateAdminKey(prompt.ID, h.cfg.AdminKeySalt),
	})
}

// GetCurrent handles GET /cycles/current
func (h *CycleHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.engine.CurrentPrompt(r.Context())
	if err != nil {
		writeError(w, err, "get current prompt")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, promptView(prompt, h.engine.Now()))
}

// GetCycle handles GET /cycles/{id}
func (h *CycleHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	promptID := r.PathValue("id")
	if promptID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt_id is required")
		return
	}

	prompt, err := h.engine.GetPrompt(r.Context(), promptID)
	if err != nil {
		writeError(w, err, "get prompt")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, promptView(prompt, h.engine.Now()))
}

// CloseCycle handles POST /cycles/{id}/close
func (h *CycleHandler) CloseCycle(w http.ResponseWriter, r *http.Request) {
	promptID := r.PathValue("id")
	if promptID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt_id is required")
		return
	}

	// Either the operator key or the prompt's own key
	adminKey := r.Header.Get(auth.HeaderAdminKey)
	if auth.ValidateAdminKey(auth.OperatorSubject, adminKey, h.cfg.AdminKeySalt) != nil &&
		auth.ValidateAdminKey(promptID, adminKey, h.cfg.AdminKeySalt) != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	closure, err := h.engine.Close(r.Context(), promptID)
	if closure.Closed {
		metrics.CyclesClosed.WithLabelValues(metrics.TriggerAdmin).Inc()
		slog.Info("cycle closed by admin", "prompt_id", promptID, "week", closure.Prompt.WeekNumber)
	}
	if err != nil {
		writeError(w, err, "close cycle")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CloseCycleResponse{
		Prompt: closure.Prompt,
		Song:   closure.Song,
	})
}
