// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/middleware"
)

// MaxLeaderboardLimit caps the limit query parameter
const MaxLeaderboardLimit = 100

type ProfileHandler struct {
	engine *contest.Engine
	cfg    cliparse.Config
}

func NewProfileHandler(engine *contest.Engine, cfg cliparse.Config) *ProfileHandler {
	return &ProfileHandler{engine: engine, cfg: cfg}
}

// GetUser handles GET /users/{id}
func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	profile, err := h.engine.UserProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err, "get user profile")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, profile)
}

// Leaderboard handles GET /leaderboard?limit=N
func (h *ProfileHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := contest.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ValidationErrorResponse(w, contest.ReasonInvalidArg, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxLeaderboardLimit)
	}

	entries, err := h.engine.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err, "get leaderboard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Badges handles GET /badges
func (h *ProfileHandler) Badges(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.engine.BadgeCatalog())
}
