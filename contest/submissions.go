// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// Submissions records lyric lines, one per user per prompt.
type Submissions struct {
	store store.Store
	now   func() time.Time
}

func NewSubmissions(s store.Store, now func() time.Time) *Submissions {
	return &Submissions{store: s, now: now}
}

// Submit validates text and stores it against the open prompt.
//
// The per-user uniqueness check is a set insert inside the same
// transaction as the record write, so concurrent submits from one user
// cannot both succeed. The author's stats and the first-lyric claim are
// written in that transaction too; badges are evaluated by the caller.
func (s *Submissions) Submit(ctx context.Context, userID, displayName, text, role string) (models.Submission, error) {
	if userID == "" {
		return models.Submission{}, ErrUnauthenticated
	}

	text, err := NormalizeLyric(text)
	if err != nil {
		return models.Submission{}, err
	}
	role, err = NormalizeRole(role)
	if err != nil {
		return models.Submission{}, err
	}
	if displayName == "" {
		displayName = userID
	}

	var sub models.Submission
	err = s.store.Update(ctx, func(tx store.Txn) error {
		now := s.now()
		prompt, err := activePrompt(tx, now)
		if err != nil {
			return err
		}

		added, err := tx.SAdd(submittersKey(prompt.ID), userID)
		if err != nil {
			return err
		}
		if !added {
			return ErrAlreadySubmitted
		}

		seq, err := tx.IncrBy(keySubmissionSeq, 1)
		if err != nil {
			return err
		}

		sub = models.Submission{
			ID:          uuid.NewString(),
			UserID:      userID,
			DisplayName: displayName,
			Text:        text,
			Role:        role,
			PromptID:    prompt.ID,
			CreatedAt:   now,
			Seq:         seq,
		}
		if err := putRecord(tx, kindSubmission, submissionKey(sub.ID), sub); err != nil {
			return err
		}
		if _, err := tx.SAdd(promptSubmissionsKey(prompt.ID), sub.ID); err != nil {
			return err
		}

		err = updateStats(tx, userID, displayName, now, func(st *models.UserStats) {
			countSubmission(st, prompt.WeekNumber)
		})
		if err != nil {
			return err
		}
		if seq == 1 {
			if _, err := claimFirstLyric(tx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	slog.Info("submission created",
		"submission_id", sub.ID,
		"prompt_id", sub.PromptID,
		"user_id", userID,
		"role", role,
	)
	return sub, nil
}

// Get returns a submission with its current vote count.
func (s *Submissions) Get(ctx context.Context, id string) (models.Submission, error) {
	var sub models.Submission
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		sub, err = loadSubmission(tx, id)
		return err
	})
	return sub, err
}

// ListByPrompt returns every submission to a prompt, most votes first.
// Ties go to the earlier submission.
func (s *Submissions) ListByPrompt(ctx context.Context, promptID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		subs, err = listSubmissions(tx, promptID)
		return err
	})
	return subs, err
}

func loadSubmission(tx store.Txn, id string) (models.Submission, error) {
	sub, err := getRecord[models.Submission](tx, kindSubmission, submissionKey(id))
	if err != nil {
		return models.Submission{}, err
	}
	sub.Votes, err = store.GetInt(tx, votesKey(id))
	if err != nil {
		return models.Submission{}, fmt.Errorf("read votes for %s: %w", id, err)
	}
	return sub, nil
}

func listSubmissions(tx store.Txn, promptID string) ([]models.Submission, error) {
	ids, err := tx.SMembers(promptSubmissionsKey(promptID))
	if err != nil {
		return nil, fmt.Errorf("list submissions for %s: %w", promptID, err)
	}

	subs := make([]models.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := loadSubmission(tx, id)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	sortByVotes(subs)
	return subs, nil
}

// sortByVotes orders by vote count descending, then creation order.
func sortByVotes(subs []models.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Votes != subs[j].Votes {
			return subs[i].Votes > subs[j].Votes
		}
		return subs[i].Before(subs[j])
	})
}

func sortByCreation(subs []models.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Before(subs[j])
	})
}
