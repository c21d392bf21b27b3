// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Crowd Band API server.

Crowd Band is a weekly community songwriting contest: each cycle poses a
prompt, collects one short lyric per user tagged verse, chorus or bridge,
lets everyone toggle votes, and at the deadline assembles the top-voted
lines into that week's song. Contributors earn badges from their running
stats.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	ADMIN_KEY_SALT=... USER_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d ./crowdband.db --admin-salt ... --user-salt ...

# Configuration

Required settings:

  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - USER_TOKEN_SALT (--user-salt): Secret for user identity tokens
  - DATABASE_URL (-d): Required for the postgres and sqlite stores

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORE_TYPE (-t): badger, postgres or sqlite (default: badger)
  - DATA_DIR (--data-dir): Badger directory (default: ./data)
  - CLOSE_INTERVAL (--close-interval): Deadline check period (default: 30s)
  - RATE_LIMIT, RATE_BURST: Per-IP limits on submissions and votes
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - SONG_GENRE: Genre label on assembled songs

# Architecture

The HTTP server and the deadline scheduler run in one errgroup and stop
together on SIGINT or SIGTERM.

  - contest: The engine (prompts, submissions, votes, badges, assembly)
  - store: Transactional key-value port with badger, postgres and sqlite backends
  - handlers: HTTP request handlers over the engine
  - router: Route definitions using Go 1.22+ routing, CORS, /metrics
  - middleware: Logging, metrics, rate limiting, JSON helpers
  - scheduler: Closes prompts once their deadline passes
  - metrics: Prometheus collectors
  - models: Records and request/response types
  - auth: Admin keys and user identity tokens
  - db: SQL schema for the SQL backends
  - cliparse: Configuration parsing

The operator CLI lives in cmd/bandctl.

See package documentation for each component.
*/
package main
