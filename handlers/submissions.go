// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/metrics"
	"github.com/danielhkuo/crowd-band/middleware"
	"github.com/danielhkuo/crowd-band/models"
)

type SubmissionHandler struct {
	engine *contest.Engine
	cfg    cliparse.Config
}

func NewSubmissionHandler(engine *contest.Engine, cfg cliparse.Config) *SubmissionHandler {
	return &SubmissionHandler{engine: engine, cfg: cfg}
}

// Submit handles POST /submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r, h.cfg.UserTokenSalt)
	if !ok {
		return
	}

	var req models.SubmitLyricRequest
	if !parseRequest(w, r, &req) {
		return
	}

	sub, awarded, err := h.engine.SubmitLyric(r.Context(), caller.UserID, caller.DisplayName, req.Text, req.Role)
	if err != nil {
		// Lyric and stats are stored; only badge evaluation failed
		if sub.ID != "" {
			slog.Error("failed to evaluate badges after submission", "submission_id", sub.ID, "error", err)
			metrics.Submissions.Inc()
			middleware.JSONResponse(w, http.StatusCreated, models.SubmitLyricResponse{
				Submission: sub,
				NewBadges:  []string{},
			})
			return
		}
		writeError(w, err, "submit lyric")
		return
	}

	metrics.Submissions.Inc()
	middleware.JSONResponse(w, http.StatusCreated, models.SubmitLyricResponse{
		Submission: sub,
		NewBadges:  awarded,
	})
}

// ListByCycle handles GET /cycles/{id}/submissions
// Identity is optional; when present each entry reports the caller's vote.
func (h *SubmissionHandler) ListByCycle(w http.ResponseWriter, r *http.Request) {
	promptID := r.PathValue("id")
	if promptID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt_id is required")
		return
	}

	var viewerID string
	if caller, err := auth.IdentityFromRequest(r, h.cfg.UserTokenSalt); err == nil {
		viewerID = caller.UserID
	}

	views, err := h.engine.ListSubmissions(r.Context(), promptID, viewerID)
	if err != nil {
		writeError(w, err, "list submissions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// Get handles GET /submissions/{id}
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	submissionID := r.PathValue("id")
	if submissionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	sub, err := h.engine.GetSubmission(r.Context(), submissionID)
	if err != nil {
		writeError(w, err, "get submission")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sub)
}

// ToggleVote handles POST /submissions/{id}/vote
func (h *SubmissionHandler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	submissionID := r.PathValue("id")
	if submissionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	caller, ok := requireIdentity(w, r, h.cfg.UserTokenSalt)
	if !ok {
		return
	}

	resp, err := h.engine.ToggleVote(r.Context(), caller.UserID, submissionID)
	if err != nil {
		writeError(w, err, "toggle vote")
		return
	}

	metrics.RecordVote(resp.Voted)
	middleware.JSONResponse(w, http.StatusOK, resp)
}
