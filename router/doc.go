// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Crowd Band API.

# Route Registration

NewRouter wires every endpoint onto an http.ServeMux and wraps it in CORS:

	handler := router.NewRouter(engine, cfg)

Each API route is wrapped with request logging and latency metrics, keyed
by its route pattern.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Cycles (POST routes require X-Admin-Key):

	POST /cycles                   - Start a cycle (operator key)
	GET  /cycles/current           - Open or most recent prompt
	GET  /cycles/{id}              - Prompt by id
	POST /cycles/{id}/close        - Close and assemble (operator or prompt key)
	GET  /cycles/{id}/submissions  - Submissions, most votes first

Submissions (identity headers, rate limited per client IP):

	POST /submissions              - Submit a lyric
	GET  /submissions/{id}         - Submission by id
	POST /submissions/{id}/vote    - Toggle a vote

Profiles and songs (public):

	GET /users/{id}                - Stats and earned badges
	GET /leaderboard?limit=N       - Top users by submissions
	GET /badges                    - Badge catalog
	GET /songs                     - Assembled songs by week
	GET /songs/{week}              - One week's song

# CORS

Allowed origins come from cfg.CORSOrigins (rs/cors). The identity and
admin headers are allowed on preflight.
*/
package router
