// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contest is the songwriting contest lifecycle engine.

Each cycle ("week") has one prompt. While it is open, users submit one
lyric line each, tagged verse, chorus or bridge, and vote on other lines.
When the cycle closes, the highest-voted lines per role are assembled into
an immutable FinalSong, and authors' stats and badges are updated.

# Components

	Prompts      prompt records and the current-prompt pointer
	Submissions  lyric ledger, one submission per (user, prompt)
	Votes        toggled vote facts and per-submission counters
	Badges       per-user stats, badge awards, leaderboard
	Assembler    end-of-cycle song assembly

Engine wires them together:

	e := contest.New(s, contest.Config{Genre: "Lofi Hip Hop"})
	prompt, err := e.StartCycle(ctx, "3 AM thoughts", 1, "Night", 7*24*time.Hour)
	sub, newBadges, err := e.SubmitLyric(ctx, userID, name, text, "chorus")
	res, err := e.ToggleVote(ctx, voterID, sub.ID)
	prompt, song, err := e.CloseCycle(ctx, prompt.ID)

# Lifecycle

A prompt is open until CloseCycle runs; closed is terminal. A closed prompt
whose song exists reports status "assembled". Submissions and votes are
refused once now >= EndsAt even if nothing has closed the prompt yet.
The engine runs no timers: a scheduler calls CloseExpired.

# Atomicity

Every check-then-act sequence runs inside one store.Update transaction:

  - submission uniqueness is a set insert keyed by (prompt, user), written
    with the lyric, the author's stats and the first-lyric claim
  - a vote toggle moves the vote fact and the counter together
  - stat bumps and badge awards rewrite the user record in one transaction
  - the first song written for a week wins and carries its credits to
    every contributor; later calls return it

# Errors

Domain errors are sentinels (ErrNoActivePrompt, ErrPromptClosed,
ErrAlreadySubmitted, ErrConflict, ErrNotFound, ErrUnauthenticated) plus
*ValidationError, which carries a reason code. Anything else is an
infrastructure failure from the store.

# Records

Records are stored as versioned JSON envelopes:

	{"v":1,"kind":"submission","data":{...}}
*/
package contest
