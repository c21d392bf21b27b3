// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"errors"
	"fmt"
)

var (
	ErrNoActivePrompt   = errors.New("no active prompt")
	ErrPromptClosed     = fmt.Errorf("prompt is closed: %w", ErrNoActivePrompt)
	ErrAlreadySubmitted = errors.New("already submitted for this prompt")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

// Validation reason codes
const (
	ReasonEmpty       = "empty"
	ReasonTooShort    = "too_short"
	ReasonTooLong     = "too_long"
	ReasonProfanity   = "profanity"
	ReasonURL         = "url"
	ReasonInvalidRole = "invalid_role"
	ReasonInvalidArg  = "invalid_argument"
)

// ValidationError reports user-correctable input. Message is safe to show
// to the caller verbatim.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Message)
}

func invalid(reason, message string) error {
	return &ValidationError{Reason: reason, Message: message}
}

// IsDomainError reports whether err belongs to the engine's error taxonomy,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrNoActivePrompt) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthenticated)
}
