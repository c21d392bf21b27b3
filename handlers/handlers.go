// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/middleware"
	"github.com/danielhkuo/crowd-band/models"
)

// validate checks request structs by their `validate` tags and reports
// fields by their JSON names.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// parseRequest decodes a JSON body into v and validates it, writing the
// error response itself on failure.
func parseRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			msg := fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			if fe.Param() != "" {
				msg += "=" + fe.Param()
			}
			middleware.ValidationErrorResponse(w, contest.ReasonInvalidArg, msg)
			return false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}

// writeError maps engine errors to HTTP statuses. Anything outside the
// engine's taxonomy is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, err error, action string) {
	var ve *contest.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.ValidationErrorResponse(w, ve.Reason, ve.Message)
	case errors.Is(err, contest.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in to continue")
	case errors.Is(err, contest.ErrPromptClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "This week's prompt is closed")
	case errors.Is(err, contest.ErrNoActivePrompt):
		middleware.ErrorResponse(w, http.StatusConflict, "No active prompt")
	case errors.Is(err, contest.ErrAlreadySubmitted):
		middleware.ErrorResponse(w, http.StatusConflict, "You already submitted a lyric this week")
	case errors.Is(err, contest.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Conflicts with the current contest state")
	case errors.Is(err, contest.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// requireIdentity resolves the caller, writing 401 when it cannot
func requireIdentity(w http.ResponseWriter, r *http.Request, salt string) (auth.Identity, bool) {
	id, err := auth.IdentityFromRequest(r, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or missing user identity")
		return auth.Identity{}, false
	}
	return id, true
}

// promptView adds a human countdown to a prompt
func promptView(p models.Prompt, now time.Time) models.PromptView {
	view := models.PromptView{Prompt: p, EndsIn: "closed"}
	if p.AcceptsEntries(now) {
		view.EndsIn = humanize.RelTime(now, p.EndsAt, "left", "ago")
	}
	return view
}
