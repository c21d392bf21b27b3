// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/danielhkuo/crowd-band/metrics"
	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// DefaultLeaderboardLimit is used when a caller passes a non-positive limit.
const DefaultLeaderboardLimit = 10

// Badges tracks per-user stats and awards badges from them. Every stat
// change is a read-modify-write of the user's record inside one Update, so
// concurrent events for one user are serialized by the store.
type Badges struct {
	store store.Store
	now   func() time.Time
}

func NewBadges(s store.Store, now func() time.Time) *Badges {
	return &Badges{store: s, now: now}
}

// RecordSubmission counts a submission and the week it was made in.
func (b *Badges) RecordSubmission(ctx context.Context, userID, displayName string, week int) error {
	return b.mutate(ctx, userID, displayName, func(s *models.UserStats) {
		countSubmission(s, week)
	})
}

// RecordVoteReceived credits one vote to the user.
func (b *Badges) RecordVoteReceived(ctx context.Context, userID string) error {
	return b.RecordVotesReceived(ctx, userID, 1)
}

// RecordVotesReceived credits n votes to the user. Negative n is ignored so
// totals never regress.
func (b *Badges) RecordVotesReceived(ctx context.Context, userID string, n int64) error {
	if n <= 0 {
		return nil
	}
	return b.mutate(ctx, userID, "", func(s *models.UserStats) {
		s.TotalVotes += n
	})
}

// RecordTopVoted counts a submission selected into a completed song.
func (b *Badges) RecordTopVoted(ctx context.Context, userID string) error {
	return b.mutate(ctx, userID, "", func(s *models.UserStats) {
		s.TopVotedSubmissions++
	})
}

// ClaimFirstLyric records userID as author of the first submission ever
// made. Only the first claim succeeds.
func (b *Badges) ClaimFirstLyric(ctx context.Context, userID string) (bool, error) {
	var claimed bool
	err := b.store.Update(ctx, func(tx store.Txn) error {
		var err error
		claimed, err = claimFirstLyric(tx, userID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("claim first lyric: %w", err)
	}
	if claimed {
		slog.Info("first lyric claimed", "user_id", userID)
	}
	return claimed, nil
}

// Evaluate awards every badge the user's stats now satisfy and returns the
// ids awarded by this call. Badges already held are skipped, so a repeat
// call with unchanged stats returns an empty list. Badges are never removed.
func (b *Badges) Evaluate(ctx context.Context, userID string) ([]string, error) {
	var awarded []string
	err := b.store.Update(ctx, func(tx store.Txn) error {
		var err error
		awarded, err = awardBadges(tx, userID, b.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	recordAwards(userID, awarded)
	return awarded, nil
}

// Stats returns the user's stats, or ErrNotFound for unknown users.
func (b *Badges) Stats(ctx context.Context, userID string) (models.UserStats, error) {
	var stats models.UserStats
	err := b.store.View(ctx, func(tx store.Txn) error {
		var err error
		stats, err = getRecord[models.UserStats](tx, kindStats, statsKey(userID))
		return err
	})
	return stats, err
}

// Profile returns the user's stats with badge ids resolved against the
// catalog.
func (b *Badges) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	stats, err := b.Stats(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}

	earned := make([]models.EarnedBadge, 0, len(stats.Badges))
	for _, ub := range stats.Badges {
		badge, ok := LookupBadge(ub.BadgeID)
		if !ok {
			slog.Warn("unknown badge in user stats", "user_id", userID, "badge_id", ub.BadgeID)
			continue
		}
		earned = append(earned, models.EarnedBadge{Badge: badge, EarnedAt: ub.EarnedAt})
	}
	return models.UserProfile{Stats: stats, Badges: earned}, nil
}

// Leaderboard ranks users by total submissions, then total votes received,
// then user id.
func (b *Badges) Leaderboard(ctx context.Context, limit int) ([]models.UserStats, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	var all []models.UserStats
	err := b.store.View(ctx, func(tx store.Txn) error {
		ids, err := tx.SMembers(keyUsers)
		if err != nil {
			return err
		}
		all = make([]models.UserStats, 0, len(ids))
		for _, id := range ids {
			stats, err := getRecord[models.UserStats](tx, kindStats, statsKey(id))
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			all = append(all, stats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		a, c := all[i], all[j]
		if a.TotalSubmissions != c.TotalSubmissions {
			return a.TotalSubmissions > c.TotalSubmissions
		}
		if a.TotalVotes != c.TotalVotes {
			return a.TotalVotes > c.TotalVotes
		}
		return a.UserID < c.UserID
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// mutate applies fn to the user's stats, creating them on first use.
func (b *Badges) mutate(ctx context.Context, userID, displayName string, fn func(*models.UserStats)) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	return b.store.Update(ctx, func(tx store.Txn) error {
		return updateStats(tx, userID, displayName, b.now(), fn)
	})
}

// updateStats is the read-modify-write of one user's stats inside tx.
func updateStats(tx store.Txn, userID, displayName string, now time.Time, fn func(*models.UserStats)) error {
	stats, err := getRecord[models.UserStats](tx, kindStats, statsKey(userID))
	if errors.Is(err, ErrNotFound) {
		stats = models.UserStats{
			UserID:            userID,
			DisplayName:       displayName,
			FirstSubmissionAt: now,
			Weeks:             []int{},
			Badges:            []models.UserBadge{},
		}
		if _, err := tx.SAdd(keyUsers, userID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if displayName != "" {
		stats.DisplayName = displayName
	}
	fn(&stats)
	return putRecord(tx, kindStats, statsKey(userID), stats)
}

func countSubmission(s *models.UserStats, week int) {
	s.TotalSubmissions++
	if addWeek(s, week) {
		s.WeeksParticipated = len(s.Weeks)
		s.ConsecutiveWeeks = longestRun(s.Weeks)
	}
}

// claimFirstLyric sets the first-lyric owner if nobody holds it yet.
func claimFirstLyric(tx store.Txn, userID string) (bool, error) {
	_, err := tx.Get(keyFirstLyric)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	return true, tx.Set(keyFirstLyric, []byte(userID))
}

// awardBadges adds every badge the user's stats satisfy and does not hold
// yet. Unknown users get nothing.
func awardBadges(tx store.Txn, userID string, now time.Time) ([]string, error) {
	awarded := []string{}

	stats, err := getRecord[models.UserStats](tx, kindStats, statsKey(userID))
	if errors.Is(err, ErrNotFound) {
		return awarded, nil
	}
	if err != nil {
		return nil, err
	}

	for _, rule := range thresholds {
		if rule.met(stats) && !stats.HasBadge(rule.badge) {
			stats.Badges = append(stats.Badges, models.UserBadge{BadgeID: rule.badge, EarnedAt: now})
			awarded = append(awarded, rule.badge)
		}
	}

	if !stats.HasBadge(BadgeOG) {
		first, err := tx.Get(keyFirstLyric)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if err == nil && string(first) == userID {
			stats.Badges = append(stats.Badges, models.UserBadge{BadgeID: BadgeOG, EarnedAt: now})
			awarded = append(awarded, BadgeOG)
		}
	}

	if len(awarded) == 0 {
		return awarded, nil
	}
	return awarded, putRecord(tx, kindStats, statsKey(userID), stats)
}

// recordAwards logs and counts badges after the awarding transaction
// committed.
func recordAwards(userID string, awarded []string) {
	if len(awarded) == 0 {
		return
	}
	slog.Info("badges awarded", "user_id", userID, "badges", awarded)
	metrics.RecordBadges(awarded)
}

// addWeek inserts week into the sorted week list. It reports false when the
// week was already present.
func addWeek(s *models.UserStats, week int) bool {
	i := sort.SearchInts(s.Weeks, week)
	if i < len(s.Weeks) && s.Weeks[i] == week {
		return false
	}
	s.Weeks = append(s.Weeks, 0)
	copy(s.Weeks[i+1:], s.Weeks[i:])
	s.Weeks[i] = week
	return true
}

// longestRun returns the longest run of consecutive integers in sorted,
// duplicate-free weeks.
func longestRun(weeks []int) int {
	best, run := 0, 0
	for i, w := range weeks {
		if i > 0 && w == weeks[i-1]+1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}
