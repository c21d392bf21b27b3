// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/crowd-band/models"
)

// Lyric length bounds, in runes after trimming
const (
	MinLyricLength = 10
	MaxLyricLength = 120
)

var denylist = []string{"damn", "hell", "crap", "shit", "fuck", "ass", "bitch"}

var (
	denylistPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(denylist, "|") + `)\b`)
	urlPattern      = regexp.MustCompile(`(?i)(https?://|www\.)`)
)

// NormalizeLyric trims text and checks it against the submission rules.
// It returns the text that should be stored.
func NormalizeLyric(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)

	switch {
	case n == 0:
		return "", invalid(ReasonEmpty, "Lyric cannot be empty")
	case n < MinLyricLength:
		return "", invalid(ReasonTooShort, "Lyric must be at least 10 characters")
	case n > MaxLyricLength:
		return "", invalid(ReasonTooLong, "Lyric must be 120 characters or less")
	case denylistPattern.MatchString(trimmed):
		return "", invalid(ReasonProfanity, "Please keep lyrics family-friendly")
	case urlPattern.MatchString(trimmed):
		return "", invalid(ReasonURL, "URLs not allowed in lyrics")
	}
	return trimmed, nil
}

// NormalizeRole defaults an empty role to verse.
func NormalizeRole(role string) (string, error) {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case "":
		return models.RoleVerse, nil
	case models.RoleVerse, models.RoleChorus, models.RoleBridge:
		return r, nil
	default:
		return "", invalid(ReasonInvalidRole, "role must be verse, chorus, or bridge")
	}
}
