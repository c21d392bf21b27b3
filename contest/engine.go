// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// Config holds engine settings.
type Config struct {
	// Genre labels assembled songs. Defaults to DefaultGenre.
	Genre string

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Engine is the contest lifecycle: it wires the ledgers, the badge engine
// and the assembler together behind the operations callers use.
type Engine struct {
	store       store.Store
	now         func() time.Time
	Prompts     *Prompts
	Submissions *Submissions
	Votes       *Votes
	Badges      *Badges
	Assembler   *Assembler
}

func New(s store.Store, cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		store:       s,
		now:         now,
		Prompts:     NewPrompts(s, now),
		Submissions: NewSubmissions(s, now),
		Votes:       NewVotes(s, now),
		Badges:      NewBadges(s, now),
		Assembler:   NewAssembler(s, cfg.Genre, now),
	}
}

// Now returns the engine's clock reading.
func (e *Engine) Now() time.Time {
	return e.now()
}

// StartCycle opens a new prompt that ends after duration.
func (e *Engine) StartCycle(ctx context.Context, promptText string, week int, theme string, duration time.Duration) (models.Prompt, error) {
	return e.Prompts.Start(ctx, promptText, week, theme, duration)
}

// CurrentPrompt returns the open or most recent prompt, with status
// "assembled" once its song exists.
func (e *Engine) CurrentPrompt(ctx context.Context) (models.Prompt, error) {
	prompt, err := e.Prompts.Current(ctx)
	if err != nil {
		return models.Prompt{}, err
	}
	return e.withDerivedStatus(ctx, prompt)
}

// GetPrompt returns a prompt by id with its derived status.
func (e *Engine) GetPrompt(ctx context.Context, id string) (models.Prompt, error) {
	prompt, err := e.Prompts.Get(ctx, id)
	if err != nil {
		return models.Prompt{}, err
	}
	return e.withDerivedStatus(ctx, prompt)
}

// Closure is the outcome of closing a cycle.
type Closure struct {
	Prompt models.Prompt
	Song   models.FinalSong

	// Closed reports whether this call moved the prompt from open to closed.
	Closed bool
}

// Close closes the prompt if it is open and assembles its song. It is safe
// to call repeatedly; later calls return the song from the first and report
// Closed false. A closed prompt without a song (an earlier assembly failed)
// is assembled again.
func (e *Engine) Close(ctx context.Context, promptID string) (Closure, error) {
	prompt, changed, err := e.Prompts.Close(ctx, promptID)
	if err != nil {
		return Closure{}, err
	}

	song, _, err := e.Assembler.Assemble(ctx, prompt)
	if err != nil {
		return Closure{Prompt: prompt, Closed: changed}, fmt.Errorf("assemble week %d: %w", prompt.WeekNumber, err)
	}

	prompt.Status = models.StatusAssembled
	return Closure{Prompt: prompt, Song: song, Closed: changed}, nil
}

// CloseCycle is Close without the transition flag.
func (e *Engine) CloseCycle(ctx context.Context, promptID string) (models.Prompt, models.FinalSong, error) {
	c, err := e.Close(ctx, promptID)
	if err != nil {
		return c.Prompt, models.FinalSong{}, err
	}
	return c.Prompt, c.Song, nil
}

// CloseExpired closes the current prompt when its deadline has passed.
// It reports whether a prompt was closed or assembled by this call.
func (e *Engine) CloseExpired(ctx context.Context) (bool, error) {
	prompt, err := e.Prompts.Current(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if prompt.Status == models.StatusOpen && e.now().Before(prompt.EndsAt) {
		return false, nil
	}
	if prompt.Status != models.StatusOpen {
		if _, err := e.Song(ctx, prompt.WeekNumber); err == nil {
			return false, nil
		} else if !errors.Is(err, ErrNotFound) {
			return false, err
		}
	}

	if _, _, err := e.CloseCycle(ctx, prompt.ID); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitLyric stores a lyric for the open prompt, counts it in the
// author's stats and returns the badges that submission earned.
//
// When badge evaluation fails the lyric and stats are already stored; the
// submission is returned with the error and the badges are awarded by the
// author's next evaluation.
func (e *Engine) SubmitLyric(ctx context.Context, userID, displayName, text, role string) (models.Submission, []string, error) {
	sub, err := e.Submissions.Submit(ctx, userID, displayName, text, role)
	if err != nil {
		return models.Submission{}, nil, err
	}

	awarded, err := e.Badges.Evaluate(ctx, userID)
	if err != nil {
		return sub, nil, fmt.Errorf("evaluate badges: %w", err)
	}
	return sub, awarded, nil
}

// ListSubmissions returns a prompt's submissions, most votes first, marking
// those the viewer voted on. viewerID may be empty.
func (e *Engine) ListSubmissions(ctx context.Context, promptID, viewerID string) ([]models.SubmissionView, error) {
	if _, err := e.Prompts.Get(ctx, promptID); err != nil {
		return nil, err
	}

	subs, err := e.Submissions.ListByPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	voted, err := e.Votes.Voted(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.SubmissionView, len(subs))
	for i, sub := range subs {
		views[i] = models.SubmissionView{Submission: sub, Voted: voted[sub.ID]}
	}
	return views, nil
}

func (e *Engine) GetSubmission(ctx context.Context, id string) (models.Submission, error) {
	return e.Submissions.Get(ctx, id)
}

// ToggleVote adds or removes the user's vote on a submission.
func (e *Engine) ToggleVote(ctx context.Context, userID, submissionID string) (models.ToggleVoteResponse, error) {
	return e.Votes.Toggle(ctx, userID, submissionID)
}

func (e *Engine) UserProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	return e.Badges.Profile(ctx, userID)
}

func (e *Engine) Leaderboard(ctx context.Context, limit int) ([]models.UserStats, error) {
	return e.Badges.Leaderboard(ctx, limit)
}

func (e *Engine) BadgeCatalog() []models.Badge {
	return Catalog()
}

// CompletedSongs lists assembled songs by ascending week.
func (e *Engine) CompletedSongs(ctx context.Context) ([]models.FinalSong, error) {
	var songs []models.FinalSong
	err := e.store.View(ctx, func(tx store.Txn) error {
		weeks, err := tx.SMembers(keySongs)
		if err != nil {
			return err
		}
		songs = make([]models.FinalSong, 0, len(weeks))
		for _, w := range weeks {
			week, err := strconv.Atoi(w)
			if err != nil {
				slog.Warn("skipping malformed song index entry", "member", w)
				continue
			}
			song, err := getRecord[models.FinalSong](tx, kindSong, songKey(week))
			if err != nil {
				return err
			}
			songs = append(songs, song)
		}
		return nil
	})
	return songs, err
}

// Song returns the song assembled for a week.
func (e *Engine) Song(ctx context.Context, week int) (models.FinalSong, error) {
	var song models.FinalSong
	err := e.store.View(ctx, func(tx store.Txn) error {
		var err error
		song, err = getRecord[models.FinalSong](tx, kindSong, songKey(week))
		return err
	})
	return song, err
}

func (e *Engine) withDerivedStatus(ctx context.Context, prompt models.Prompt) (models.Prompt, error) {
	if prompt.Status != models.StatusClosed {
		return prompt, nil
	}
	_, err := e.Song(ctx, prompt.WeekNumber)
	if err == nil {
		prompt.Status = models.StatusAssembled
		return prompt, nil
	}
	if errors.Is(err, ErrNotFound) {
		return prompt, nil
	}
	return models.Prompt{}, err
}
