// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Crowd Band API.

# Handler Types

Each handler is a struct with engine and config dependencies:

  - CycleHandler: Prompt lifecycle (start, current, close)
  - SubmissionHandler: Lyric submission, listing and vote toggles
  - ProfileHandler: User profiles, leaderboard and badge catalog
  - SongHandler: Assembled songs

Handlers are created via constructor functions that accept the engine and
Config:

	cycleHandler := handlers.NewCycleHandler(engine, cfg)

# Cycle Lifecycle

A cycle is open until its deadline, then closed, then assembled once its
song exists:

	POST /cycles            → StartCycle (operator key, returns the prompt's admin_key)
	GET  /cycles/current    → GetCurrent (with a humanized ends_in)
	GET  /cycles/{id}       → GetCycle
	POST /cycles/{id}/close → CloseCycle (operator or prompt key, assembles the song)

Admin operations require the X-Admin-Key header.

# Submissions and Votes

	POST /submissions                → Submit (one per user per prompt)
	GET  /cycles/{id}/submissions    → ListByCycle (most votes first)
	GET  /submissions/{id}           → Get
	POST /submissions/{id}/vote      → ToggleVote (second call removes the vote)

Caller identity comes from X-User-ID, X-Username and X-User-Token. Listing
works without identity; with it each entry reports whether the caller
voted.

# Errors

Engine errors map to statuses in writeError: validation failures are 400
with a reason code, closed or missing prompts and duplicate submissions
are 409, unknown records 404, missing identity 401. Anything else is
logged and returned as a generic 500.

Request bodies are checked with go-playground/validator tags before they
reach the engine.
*/
package handlers
