// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - StartCycleRequest: prompt_text, week_number, theme, duration_seconds
  - SubmitLyricRequest: text, role

# Response Types

Types for JSON responses:

  - StartCycleResponse: prompt, admin_key
  - PromptView: prompt plus humanized ends_in
  - SubmitLyricResponse: submission, new_badges
  - SubmissionView: submission, voted
  - ToggleVoteResponse: votes, voted
  - CloseCycleResponse: prompt, song
  - UserProfile: stats, badges
  - ErrorResponse: error, message, reason

# Domain Types

Persisted records:

  - Prompt: one contest cycle and its lifecycle state
  - Submission: one lyric line, one per user per prompt
  - UserStats: cumulative per-user counters and earned badges
  - FinalSong: immutable artifact assembled when a prompt closes

Static data:

  - Badge: catalog entry

# Constants

Status values:

	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusAssembled = "assembled" (derived, never stored)

Roles:

	RoleVerse  = "verse"
	RoleChorus = "chorus"
	RoleBridge = "bridge"

Tiers:

	TierBronze, TierSilver, TierGold, TierDiamond, TierSpecial
*/
package models
