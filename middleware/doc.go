// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Metrics

WithMetrics observes request latency in metrics.RequestDuration, labeled
by method, route pattern and status:

	middleware.WithMetrics("POST /submissions", handler)

# Rate Limiting

RateLimiter keeps one token bucket per client IP (golang.org/x/time/rate).
Rejected requests get 429 and are logged with the hashed client IP:

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.AdminKeySalt)
	mux.HandleFunc("POST /submissions", limiter.Limit(handler))

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationErrorResponse(w, "too_short", "message")

Parse JSON request bodies:

	var req models.SubmitLyricRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate-limit key.
*/
package middleware
