// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// Prompts owns prompt records and the current-prompt pointer.
type Prompts struct {
	store store.Store
	now   func() time.Time
}

func NewPrompts(s store.Store, now func() time.Time) *Prompts {
	return &Prompts{store: s, now: now}
}

// Start opens a new cycle. It fails with ErrConflict while another prompt
// is open or when the week number was already used.
func (p *Prompts) Start(ctx context.Context, text string, week int, theme string, duration time.Duration) (models.Prompt, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Prompt{}, invalid(ReasonInvalidArg, "prompt text is required")
	}
	if week < 1 {
		return models.Prompt{}, invalid(ReasonInvalidArg, "week number must be at least 1")
	}
	if duration <= 0 {
		return models.Prompt{}, invalid(ReasonInvalidArg, "duration must be positive")
	}

	now := p.now()
	prompt := models.Prompt{
		ID:         uuid.NewString(),
		PromptText: text,
		WeekNumber: week,
		Theme:      strings.TrimSpace(theme),
		CreatedAt:  now,
		EndsAt:     now.Add(duration),
		Status:     models.StatusOpen,
	}

	err := p.store.Update(ctx, func(tx store.Txn) error {
		current, err := currentPrompt(tx)
		switch {
		case err == nil && current.Status == models.StatusOpen:
			return fmt.Errorf("prompt %s is still open: %w", current.ID, ErrConflict)
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}

		if _, err := tx.Get(weekKey(week)); err == nil {
			return fmt.Errorf("week %d already has a prompt: %w", week, ErrConflict)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := putRecord(tx, kindPrompt, promptKey(prompt.ID), prompt); err != nil {
			return err
		}
		if err := tx.Set(weekKey(week), []byte(prompt.ID)); err != nil {
			return err
		}
		if _, err := tx.SAdd(keyPrompts, prompt.ID); err != nil {
			return err
		}
		return tx.Set(keyCurrentPrompt, []byte(prompt.ID))
	})
	if err != nil {
		return models.Prompt{}, err
	}

	slog.Info("cycle started", "prompt_id", prompt.ID, "week", week, "ends_at", prompt.EndsAt)
	return prompt, nil
}

// Current returns the open prompt, or the most recent one once it closed.
func (p *Prompts) Current(ctx context.Context) (models.Prompt, error) {
	var prompt models.Prompt
	err := p.store.View(ctx, func(tx store.Txn) error {
		var err error
		prompt, err = currentPrompt(tx)
		return err
	})
	return prompt, err
}

func (p *Prompts) Get(ctx context.Context, id string) (models.Prompt, error) {
	var prompt models.Prompt
	err := p.store.View(ctx, func(tx store.Txn) error {
		var err error
		prompt, err = getRecord[models.Prompt](tx, kindPrompt, promptKey(id))
		return err
	})
	return prompt, err
}

// Close moves an open prompt to closed. Closing a prompt that is not open
// is a no-op; changed reports whether this call did the transition.
func (p *Prompts) Close(ctx context.Context, id string) (prompt models.Prompt, changed bool, err error) {
	err = p.store.Update(ctx, func(tx store.Txn) error {
		changed = false
		var err error
		prompt, err = getRecord[models.Prompt](tx, kindPrompt, promptKey(id))
		if err != nil {
			return err
		}
		if prompt.Status != models.StatusOpen {
			return nil
		}
		prompt.Status = models.StatusClosed
		changed = true
		return putRecord(tx, kindPrompt, promptKey(id), prompt)
	})
	if err != nil {
		return models.Prompt{}, false, err
	}

	if changed {
		slog.Info("cycle closed", "prompt_id", id, "week", prompt.WeekNumber)
	}
	return prompt, changed, nil
}

func currentPrompt(tx store.Txn) (models.Prompt, error) {
	id, err := tx.Get(keyCurrentPrompt)
	if errors.Is(err, store.ErrNotFound) {
		return models.Prompt{}, fmt.Errorf("current prompt: %w", ErrNotFound)
	}
	if err != nil {
		return models.Prompt{}, fmt.Errorf("read current prompt: %w", err)
	}
	return getRecord[models.Prompt](tx, kindPrompt, promptKey(string(id)))
}

// activePrompt returns the current prompt if it accepts entries at now.
func activePrompt(tx store.Txn, now time.Time) (models.Prompt, error) {
	prompt, err := currentPrompt(tx)
	if errors.Is(err, ErrNotFound) {
		return models.Prompt{}, ErrNoActivePrompt
	}
	if err != nil {
		return models.Prompt{}, err
	}
	if !prompt.AcceptsEntries(now) {
		return models.Prompt{}, ErrPromptClosed
	}
	return prompt, nil
}
