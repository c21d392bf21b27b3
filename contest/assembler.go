// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// DefaultGenre labels assembled songs when no genre is configured.
const DefaultGenre = "Lofi Hip Hop"

// Top-of-role slot counts
const (
	TopVerses   = 3
	TopChoruses = 3
	TopBridges  = 2
)

// Assembler turns a closed prompt's submissions into its final song.
type Assembler struct {
	store store.Store
	genre string
	now   func() time.Time
}

func NewAssembler(s store.Store, genre string, now func() time.Time) *Assembler {
	if genre == "" {
		genre = DefaultGenre
	}
	return &Assembler{store: s, genre: genre, now: now}
}

// Assemble builds and stores the song for prompt. If a song already exists
// for the prompt's week it is returned unchanged and created is false.
//
// The song and its stat credits (votes received, top-voted slots and the
// badges they earn) commit in one transaction, so a song never exists
// without its credits and a repeat call credits nothing.
func (a *Assembler) Assemble(ctx context.Context, prompt models.Prompt) (song models.FinalSong, created bool, err error) {
	if prompt.Status == models.StatusOpen {
		return models.FinalSong{}, false, fmt.Errorf("prompt %s is still open: %w", prompt.ID, ErrConflict)
	}

	var awarded map[string][]string
	err = a.store.Update(ctx, func(tx store.Txn) error {
		created = false

		existing, err := getRecord[models.FinalSong](tx, kindSong, songKey(prompt.WeekNumber))
		if err == nil {
			song = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		subs, err := listSubmissions(tx, prompt.ID)
		if err != nil {
			return err
		}

		now := a.now()
		song = BuildSong(prompt, subs, a.genre, now)
		if err := putRecord(tx, kindSong, songKey(prompt.WeekNumber), song); err != nil {
			return err
		}
		if _, err := tx.SAdd(keySongs, songMember(prompt.WeekNumber)); err != nil {
			return err
		}

		awarded, err = credit(tx, subs, song, now)
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return models.FinalSong{}, false, err
	}
	if !created {
		return song, false, nil
	}

	slog.Info("song assembled",
		"week", song.WeekNumber,
		"prompt_id", prompt.ID,
		"submissions", song.TotalSubmissions,
		"votes", song.TotalVotes,
	)
	for userID, ids := range awarded {
		recordAwards(userID, ids)
	}
	return song, true, nil
}

// credit applies the stat changes for a newly assembled song inside tx:
// votes received for every submission, a top-voted count for every selected
// line, then one badge evaluation per contributor. It returns the badges
// awarded per user.
func credit(tx store.Txn, subs []models.Submission, song models.FinalSong, now time.Time) (map[string][]string, error) {
	for _, sub := range subs {
		if sub.Votes <= 0 {
			continue
		}
		err := updateStats(tx, sub.UserID, "", now, func(s *models.UserStats) {
			s.TotalVotes += sub.Votes
		})
		if err != nil {
			return nil, fmt.Errorf("credit votes to %s: %w", sub.UserID, err)
		}
	}

	for _, sub := range song.Lyrics.All() {
		err := updateStats(tx, sub.UserID, "", now, func(s *models.UserStats) {
			s.TopVotedSubmissions++
		})
		if err != nil {
			return nil, fmt.Errorf("credit top slot to %s: %w", sub.UserID, err)
		}
	}

	awarded := map[string][]string{}
	for _, sub := range subs {
		if _, done := awarded[sub.UserID]; done {
			continue
		}
		ids, err := awardBadges(tx, sub.UserID, now)
		if err != nil {
			return nil, fmt.Errorf("evaluate badges for %s: %w", sub.UserID, err)
		}
		awarded[sub.UserID] = ids
	}
	return awarded, nil
}

// BuildSong selects the top lines per role and computes song totals.
// subs must be ordered by votes descending, earliest first on ties.
func BuildSong(prompt models.Prompt, subs []models.Submission, genre string, completedAt time.Time) models.FinalSong {
	theme := prompt.Theme
	if theme == "" {
		theme = prompt.PromptText
	}

	song := models.FinalSong{
		ID:               uuid.NewString(),
		PromptID:         prompt.ID,
		PromptText:       prompt.PromptText,
		WeekNumber:       prompt.WeekNumber,
		Theme:            theme,
		Genre:            genre,
		Contributors:     []string{},
		TotalSubmissions: len(subs),
		CompletedAt:      completedAt,
		Lyrics: models.SongLyrics{
			Verses:   topOfRole(subs, models.RoleVerse, TopVerses),
			Choruses: topOfRole(subs, models.RoleChorus, TopChoruses),
			Bridges:  topOfRole(subs, models.RoleBridge, TopBridges),
		},
	}

	// Contributors in creation order so the list is stable
	ordered := make([]models.Submission, len(subs))
	copy(ordered, subs)
	sortByCreation(ordered)

	seen := map[string]bool{}
	for _, sub := range ordered {
		song.TotalVotes += sub.Votes
		if !seen[sub.DisplayName] {
			seen[sub.DisplayName] = true
			song.Contributors = append(song.Contributors, sub.DisplayName)
		}
	}
	return song
}

func topOfRole(subs []models.Submission, role string, n int) []models.Submission {
	top := []models.Submission{}
	for _, sub := range subs {
		if len(top) == n {
			break
		}
		if sub.Role == role {
			top = append(top, sub)
		}
	}
	return top
}
