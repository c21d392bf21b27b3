// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/testutil"
)

func TestCatalog(t *testing.T) {
	catalog := contest.Catalog()
	if len(catalog) != 14 {
		t.Fatalf("Expected 14 badges, got %d", len(catalog))
	}

	tiers := map[string]int{}
	ids := map[string]bool{}
	for _, b := range catalog {
		if ids[b.ID] {
			t.Errorf("Duplicate badge id %s", b.ID)
		}
		ids[b.ID] = true
		tiers[b.Tier]++
		if b.Name == "" || b.Icon == "" || b.Requirement == "" {
			t.Errorf("Badge %s is missing display fields", b.ID)
		}
	}

	want := map[string]int{"bronze": 3, "silver": 3, "gold": 3, "diamond": 2, "special": 3}
	if diff := cmp.Diff(want, tiers); diff != "" {
		t.Errorf("Tier counts mismatch (-want +got):\n%s", diff)
	}

	// Callers get a copy
	catalog[0].Name = "changed"
	if contest.Catalog()[0].Name == "changed" {
		t.Error("Catalog() exposed the shared slice")
	}
}

func TestRecordSubmissionWeeks(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	for _, week := range []int{1, 1, 2, 4, 5, 6, 9} {
		if err := e.Badges.RecordSubmission(ctx, "u1", "One", week); err != nil {
			t.Fatalf("RecordSubmission failed: %v", err)
		}
	}

	stats, err := e.Badges.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSubmissions != 7 {
		t.Errorf("Expected 7 submissions, got %d", stats.TotalSubmissions)
	}
	if stats.WeeksParticipated != 6 {
		t.Errorf("Expected 6 weeks, got %d", stats.WeeksParticipated)
	}
	if stats.ConsecutiveWeeks != 3 {
		t.Errorf("Expected longest streak 3, got %d", stats.ConsecutiveWeeks)
	}
	if stats.DisplayName != "One" || !stats.FirstSubmissionAt.Equal(testutil.Epoch) {
		t.Errorf("Unexpected identity fields: %+v", stats)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	for week := 1; week <= 5; week++ {
		if err := e.Badges.RecordSubmission(ctx, "u1", "One", week); err != nil {
			t.Fatalf("RecordSubmission failed: %v", err)
		}
	}

	first, err := e.Badges.Evaluate(ctx, "u1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	want := []string{
		contest.BadgeFirstSubmission,
		contest.BadgeFiveSubmissions,
		contest.BadgeThreeWeeks,
		contest.BadgeHotStreak,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("First evaluation mismatch (-want +got):\n%s", diff)
	}

	second, err := e.Badges.Evaluate(ctx, "u1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no new badges on repeat evaluation, got %v", second)
	}

	profile, err := e.UserProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("UserProfile failed: %v", err)
	}
	if len(profile.Badges) != len(want) {
		t.Errorf("Expected %d resolved badges, got %d", len(want), len(profile.Badges))
	}
	for _, b := range profile.Badges {
		if b.Name == "" || b.EarnedAt.IsZero() {
			t.Errorf("Badge %s not resolved against catalog", b.ID)
		}
	}
}

// TestConcurrentEvaluate verifies that racing evaluations award each badge once
func TestConcurrentEvaluate(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	if err := e.Badges.RecordSubmission(ctx, "u1", "One", 1); err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}

	var mu sync.Mutex
	awarded := map[string]int{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := e.Badges.Evaluate(ctx, "u1")
			if err != nil {
				t.Errorf("Evaluate failed: %v", err)
				return
			}
			mu.Lock()
			for _, id := range ids {
				awarded[id]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if awarded[contest.BadgeFirstSubmission] != 1 {
		t.Errorf("Expected first_submission awarded once, got %d", awarded[contest.BadgeFirstSubmission])
	}
}

func TestVoteAndTopVotedBadges(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	if err := e.Badges.RecordVotesReceived(ctx, "u1", 99); err != nil {
		t.Fatalf("RecordVotesReceived failed: %v", err)
	}
	got, err := e.Badges.Evaluate(ctx, "u1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if diff := cmp.Diff([]string{contest.BadgeFirstVote}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := e.Badges.RecordVoteReceived(ctx, "u1"); err != nil {
		t.Fatalf("RecordVoteReceived failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := e.Badges.RecordTopVoted(ctx, "u1"); err != nil {
			t.Fatalf("RecordTopVoted failed: %v", err)
		}
	}

	got, err = e.Badges.Evaluate(ctx, "u1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	want := []string{
		contest.BadgeTopVoted,
		contest.BadgeFiveTopVoted,
		contest.BadgeHundredVotes,
		contest.BadgeInTheSong,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Negative credits never lower the total
	if err := e.Badges.RecordVotesReceived(ctx, "u1", -50); err != nil {
		t.Fatalf("RecordVotesReceived failed: %v", err)
	}
	stats, _ := e.Badges.Stats(ctx, "u1")
	if stats.TotalVotes != 100 {
		t.Errorf("Expected total votes 100, got %d", stats.TotalVotes)
	}
}

func TestFirstLyricClaim(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	for _, u := range []string{"first", "second"} {
		if err := e.Badges.RecordSubmission(ctx, u, u, 1); err != nil {
			t.Fatalf("RecordSubmission failed: %v", err)
		}
	}

	claimed, err := e.Badges.ClaimFirstLyric(ctx, "first")
	if err != nil || !claimed {
		t.Fatalf("Expected first claim to win, got claimed=%v err=%v", claimed, err)
	}
	claimed, err = e.Badges.ClaimFirstLyric(ctx, "second")
	if err != nil || claimed {
		t.Fatalf("Expected second claim to lose, got claimed=%v err=%v", claimed, err)
	}

	firstBadges, _ := e.Badges.Evaluate(ctx, "first")
	secondBadges, _ := e.Badges.Evaluate(ctx, "second")

	if !contains(firstBadges, contest.BadgeOG) {
		t.Errorf("Expected OG for first, got %v", firstBadges)
	}
	if contains(secondBadges, contest.BadgeOG) {
		t.Errorf("Did not expect OG for second, got %v", secondBadges)
	}
}

func TestEvaluateUnknownUser(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	got, err := e.Badges.Evaluate(ctx, "nobody")
	if err != nil || len(got) != 0 {
		t.Errorf("Expected empty result, got %v err=%v", got, err)
	}
	if _, err := e.UserProfile(ctx, "nobody"); !errors.Is(err, contest.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	counts := map[string]int{"alice": 5, "bob": 3, "carol": 8}
	for user, n := range counts {
		for week := 1; week <= n; week++ {
			if err := e.Badges.RecordSubmission(ctx, user, user, week); err != nil {
				t.Fatalf("RecordSubmission failed: %v", err)
			}
		}
	}

	board, err := e.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(board))
	}
	if board[0].UserID != "carol" || board[1].UserID != "alice" {
		t.Errorf("Expected [carol alice], got [%s %s]", board[0].UserID, board[1].UserID)
	}

	all, err := e.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected default limit to include all 3 users, got %d", len(all))
	}
}

func TestLeaderboardTieBreak(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	for _, u := range []string{"zed", "amy", "kim"} {
		if err := e.Badges.RecordSubmission(ctx, u, u, 1); err != nil {
			t.Fatalf("RecordSubmission failed: %v", err)
		}
	}
	if err := e.Badges.RecordVotesReceived(ctx, "zed", 4); err != nil {
		t.Fatalf("RecordVotesReceived failed: %v", err)
	}

	board, err := e.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}

	var got []string
	for _, s := range board {
		got = append(got, s.UserID)
	}
	// Equal submissions: more votes first, then user id
	if diff := cmp.Diff([]string{"zed", "amy", "kim"}, got); diff != "" {
		t.Errorf("Leaderboard order mismatch (-want +got):\n%s", diff)
	}
}

// TestConcurrentStatUpdates verifies that stat increments for one user are
// not lost
func TestConcurrentStatUpdates(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	numWeeks := 15
	var wg sync.WaitGroup
	for i := 1; i <= numWeeks; i++ {
		wg.Add(1)
		go func(week int) {
			defer wg.Done()
			if err := e.Badges.RecordSubmission(ctx, "busy", fmt.Sprintf("Busy %d", week), week); err != nil {
				t.Errorf("RecordSubmission failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stats, err := e.Badges.Stats(ctx, "busy")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSubmissions != numWeeks || stats.WeeksParticipated != numWeeks || stats.ConsecutiveWeeks != numWeeks {
		t.Errorf("Expected %d/%d/%d, got %d/%d/%d", numWeeks, numWeeks, numWeeks,
			stats.TotalSubmissions, stats.WeeksParticipated, stats.ConsecutiveWeeks)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
