// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/testutil"
)

func TestStartCycle(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	prompt, err := e.StartCycle(ctx, "  Write about the ocean  ", 1, "Tides", 5*time.Minute)
	if err != nil {
		t.Fatalf("StartCycle failed: %v", err)
	}

	if prompt.Status != models.StatusOpen {
		t.Errorf("Expected status open, got %s", prompt.Status)
	}
	if prompt.PromptText != "Write about the ocean" {
		t.Errorf("Expected trimmed prompt text, got %q", prompt.PromptText)
	}
	if !prompt.EndsAt.Equal(testutil.Epoch.Add(5 * time.Minute)) {
		t.Errorf("Expected ends_at = now + 5m, got %s", prompt.EndsAt)
	}

	current, err := e.CurrentPrompt(ctx)
	if err != nil {
		t.Fatalf("CurrentPrompt failed: %v", err)
	}
	if current.ID != prompt.ID {
		t.Errorf("Expected current prompt %s, got %s", prompt.ID, current.ID)
	}
}

func TestStartCycleValidation(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		week     int
		duration time.Duration
	}{
		{"empty text", "   ", 1, time.Minute},
		{"zero week", "prompt", 0, time.Minute},
		{"zero duration", "prompt", 1, 0},
		{"negative duration", "prompt", 1, -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.StartCycle(ctx, tt.text, tt.week, "", tt.duration)
			var ve *contest.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestStartCycleConflicts(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	first := testutil.StartTestCycle(t, e, 1)

	if _, err := e.StartCycle(ctx, "another", 2, "", time.Minute); !errors.Is(err, contest.ErrConflict) {
		t.Errorf("Expected ErrConflict while a prompt is open, got %v", err)
	}

	if _, _, err := e.CloseCycle(ctx, first.ID); err != nil {
		t.Fatalf("CloseCycle failed: %v", err)
	}

	if _, err := e.StartCycle(ctx, "reused week", 1, "", time.Minute); !errors.Is(err, contest.ErrConflict) {
		t.Errorf("Expected ErrConflict for reused week number, got %v", err)
	}

	second, err := e.StartCycle(ctx, "next week", 2, "", time.Minute)
	if err != nil {
		t.Fatalf("Expected week 2 to start after week 1 closed: %v", err)
	}
	if second.Status != models.StatusOpen {
		t.Errorf("Expected open status, got %s", second.Status)
	}
}

// TestConcurrentStartCycle verifies that only one of many simultaneous
// starts opens a prompt
func TestConcurrentStartCycle(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	numAttempts := 8
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(week int) {
			defer wg.Done()
			_, err := e.StartCycle(ctx, "race", week, "", time.Minute)
			if err == nil {
				wins.Add(1)
			} else if !errors.Is(err, contest.ErrConflict) {
				t.Errorf("Unexpected error: %v", err)
			}
		}(i + 1)
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("Expected exactly 1 open prompt, got %d", wins.Load())
	}
}

func TestCurrentPromptNotFound(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)

	if _, err := e.CurrentPrompt(context.Background()); !errors.Is(err, contest.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCloseCycleIdempotent(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)
	ctx := context.Background()

	prompt := testutil.StartTestCycle(t, e, 1)

	closed, song1, err := e.CloseCycle(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if closed.Status != models.StatusAssembled {
		t.Errorf("Expected assembled status, got %s", closed.Status)
	}

	_, song2, err := e.CloseCycle(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
	if song1.ID != song2.ID || !song1.CompletedAt.Equal(song2.CompletedAt) {
		t.Error("Expected second close to return the song from the first")
	}

	current, err := e.CurrentPrompt(ctx)
	if err != nil {
		t.Fatalf("CurrentPrompt failed: %v", err)
	}
	if current.Status != models.StatusAssembled {
		t.Errorf("Expected current prompt to report assembled, got %s", current.Status)
	}
}

func TestCloseCycleUnknownPrompt(t *testing.T) {
	e, _ := testutil.SetupTestEngine(t)

	if _, _, err := e.CloseCycle(context.Background(), "missing"); !errors.Is(err, contest.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCloseExpired(t *testing.T) {
	e, clock := testutil.SetupTestEngine(t)
	ctx := context.Background()

	closed, err := e.CloseExpired(ctx)
	if err != nil || closed {
		t.Fatalf("Expected no-op without prompts, got closed=%v err=%v", closed, err)
	}

	prompt := testutil.StartTestCycle(t, e, 1)

	clock.Advance(4 * time.Minute)
	closed, err = e.CloseExpired(ctx)
	if err != nil || closed {
		t.Fatalf("Expected no-op before deadline, got closed=%v err=%v", closed, err)
	}

	// A late trigger still closes
	clock.Advance(time.Hour)
	closed, err = e.CloseExpired(ctx)
	if err != nil || !closed {
		t.Fatalf("Expected close after deadline, got closed=%v err=%v", closed, err)
	}

	if _, err := e.Song(ctx, prompt.WeekNumber); err != nil {
		t.Errorf("Expected song for week %d: %v", prompt.WeekNumber, err)
	}

	closed, err = e.CloseExpired(ctx)
	if err != nil || closed {
		t.Errorf("Expected second call to be a no-op, got closed=%v err=%v", closed, err)
	}
}

func TestCloseExpiredAtExactDeadline(t *testing.T) {
	e, clock := testutil.SetupTestEngine(t)
	ctx := context.Background()

	testutil.StartTestCycle(t, e, 1)
	clock.Advance(5 * time.Minute)

	closed, err := e.CloseExpired(ctx)
	if err != nil || !closed {
		t.Errorf("Expected close at now == ends_at, got closed=%v err=%v", closed, err)
	}
}
