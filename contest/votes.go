// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// Votes maintains vote facts and the per-submission counters derived from
// them.
type Votes struct {
	store store.Store
	now   func() time.Time
}

func NewVotes(s store.Store, now func() time.Time) *Votes {
	return &Votes{store: s, now: now}
}

// Toggle adds the user's vote on a submission, or removes it if present.
// The fact and the counter change in one transaction, so the counter always
// equals the number of facts.
func (v *Votes) Toggle(ctx context.Context, userID, submissionID string) (models.ToggleVoteResponse, error) {
	if userID == "" {
		return models.ToggleVoteResponse{}, ErrUnauthenticated
	}

	var result models.ToggleVoteResponse
	err := v.store.Update(ctx, func(tx store.Txn) error {
		sub, err := getRecord[models.Submission](tx, kindSubmission, submissionKey(submissionID))
		if err != nil {
			return err
		}
		prompt, err := getRecord[models.Prompt](tx, kindPrompt, promptKey(sub.PromptID))
		if err != nil {
			return err
		}
		if !prompt.AcceptsEntries(v.now()) {
			return ErrPromptClosed
		}

		removed, err := tx.SRem(votersKey(submissionID), userID)
		if err != nil {
			return err
		}

		delta := int64(1)
		if removed {
			delta = -1
		} else if _, err := tx.SAdd(votersKey(submissionID), userID); err != nil {
			return err
		}

		n, err := tx.IncrBy(votesKey(submissionID), delta)
		if err != nil {
			return err
		}
		if n < 0 {
			n = 0
			if err := tx.Set(votesKey(submissionID), []byte("0")); err != nil {
				return err
			}
		}

		result = models.ToggleVoteResponse{Votes: n, Voted: !removed}
		return nil
	})
	if err != nil {
		return models.ToggleVoteResponse{}, err
	}

	slog.Info("vote toggled",
		"submission_id", submissionID,
		"user_id", userID,
		"voted", result.Voted,
		"votes", result.Votes,
	)
	return result, nil
}

// Voted reports which of the given submissions the user has voted on.
func (v *Votes) Voted(ctx context.Context, userID string, submissionIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(submissionIDs))
	if userID == "" {
		return voted, nil
	}

	err := v.store.View(ctx, func(tx store.Txn) error {
		for _, id := range submissionIDs {
			ok, err := tx.SIsMember(votersKey(id), userID)
			if err != nil {
				return err
			}
			voted[id] = ok
		}
		return nil
	})
	return voted, err
}

// Count returns the number of vote facts for a submission.
func (v *Votes) Count(ctx context.Context, submissionID string) (int, error) {
	var n int
	err := v.store.View(ctx, func(tx store.Txn) error {
		voters, err := tx.SMembers(votersKey(submissionID))
		n = len(voters)
		return err
	})
	return n, err
}
