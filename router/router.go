// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/handlers"
	"github.com/danielhkuo/crowd-band/middleware"
)

func NewRouter(engine *contest.Engine, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	cycleHandler := handlers.NewCycleHandler(engine, cfg)
	submissionHandler := handlers.NewSubmissionHandler(engine, cfg)
	profileHandler := handlers.NewProfileHandler(engine, cfg)
	songHandler := handlers.NewSongHandler(engine, cfg)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.AdminKeySalt)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(pattern, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Cycle management (admin operations)
	handle("POST /cycles", cycleHandler.StartCycle)
	handle("GET /cycles/current", cycleHandler.GetCurrent)
	handle("GET /cycles/{id}", cycleHandler.GetCycle)
	handle("POST /cycles/{id}/close", cycleHandler.CloseCycle)

	// Submissions and votes (rate limited per client)
	handle("POST /submissions", limiter.Limit(submissionHandler.Submit))
	handle("GET /cycles/{id}/submissions", submissionHandler.ListByCycle)
	handle("GET /submissions/{id}", submissionHandler.Get)
	handle("POST /submissions/{id}/vote", limiter.Limit(submissionHandler.ToggleVote))

	// Profiles and badges
	handle("GET /users/{id}", profileHandler.GetUser)
	handle("GET /leaderboard", profileHandler.Leaderboard)
	handle("GET /badges", profileHandler.Badges)

	// Songs
	handle("GET /songs", songHandler.List)
	handle("GET /songs/{week}", songHandler.Get)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("crowd-band API v1"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			auth.HeaderAdminKey,
			auth.HeaderUserID,
			auth.HeaderUsername,
			auth.HeaderUserToken,
		},
	})
	return c.Handler(mux)
}
