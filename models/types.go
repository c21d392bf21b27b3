// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Prompt status constants. StatusAssembled is derived: a closed prompt
// whose final song exists.
const (
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusAssembled = "assembled"
)

// Lyric role constants
const (
	RoleVerse  = "verse"
	RoleChorus = "chorus"
	RoleBridge = "bridge"
)

// Badge tier constants
const (
	TierBronze  = "bronze"
	TierSilver  = "silver"
	TierGold    = "gold"
	TierDiamond = "diamond"
	TierSpecial = "special"
)

// Request types

type StartCycleRequest struct {
	PromptText      string `json:"prompt_text" validate:"required,max=280"`
	WeekNumber      int    `json:"week_number" validate:"required,min=1"`
	Theme           string `json:"theme" validate:"max=80"`
	DurationSeconds int64  `json:"duration_seconds" validate:"required,min=1"`
}

type SubmitLyricRequest struct {
	Text string `json:"text" validate:"max=2000"`
	Role string `json:"role" validate:"max=16"`
}

// Response types

type StartCycleResponse struct {
	Prompt   PromptView `json:"prompt"`
	AdminKey string     `json:"admin_key"`
}

type PromptView struct {
	Prompt
	EndsIn string `json:"ends_in"`
}

type SubmitLyricResponse struct {
	Submission Submission `json:"submission"`
	NewBadges  []string   `json:"new_badges"`
}

type SubmissionView struct {
	Submission Submission `json:"submission"`
	Voted      bool       `json:"voted"`
}

type ToggleVoteResponse struct {
	Votes int64 `json:"votes"`
	Voted bool  `json:"voted"`
}

type CloseCycleResponse struct {
	Prompt Prompt    `json:"prompt"`
	Song   FinalSong `json:"song"`
}

type UserProfile struct {
	Stats  UserStats     `json:"stats"`
	Badges []EarnedBadge `json:"badges"`
}

type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}

// Domain types

type Prompt struct {
	ID         string    `json:"id"`
	PromptText string    `json:"prompt_text"`
	WeekNumber int       `json:"week_number"`
	Theme      string    `json:"theme,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
}

// AcceptsEntries reports whether submissions and votes are allowed at now.
func (p Prompt) AcceptsEntries(now time.Time) bool {
	return p.Status == StatusOpen && now.Before(p.EndsAt)
}

type Submission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	Role        string    `json:"role"`
	PromptID    string    `json:"prompt_id"`
	Votes       int64     `json:"votes"`
	CreatedAt   time.Time `json:"created_at"`
	Flagged     bool      `json:"flagged"`

	// Seq is a store-assigned global sequence number; it orders
	// submissions whose timestamps tie.
	Seq int64 `json:"seq"`
}

// Before reports whether s was created earlier than o.
func (s Submission) Before(o Submission) bool {
	if !s.CreatedAt.Equal(o.CreatedAt) {
		return s.CreatedAt.Before(o.CreatedAt)
	}
	return s.Seq < o.Seq
}

type UserBadge struct {
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

type UserStats struct {
	UserID              string      `json:"user_id"`
	DisplayName         string      `json:"display_name"`
	TotalSubmissions    int         `json:"total_submissions"`
	TotalVotes          int64       `json:"total_votes"`
	TopVotedSubmissions int         `json:"top_voted_submissions"`
	WeeksParticipated   int         `json:"weeks_participated"`
	ConsecutiveWeeks    int         `json:"consecutive_weeks"`
	Weeks               []int       `json:"weeks"`
	FirstSubmissionAt   time.Time   `json:"first_submission_at"`
	Badges              []UserBadge `json:"badges"`
}

// HasBadge reports whether the badge was already awarded.
func (s UserStats) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b.BadgeID == id {
			return true
		}
	}
	return false
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tier        string `json:"tier"`
	Requirement string `json:"requirement"`
}

type SongLyrics struct {
	Verses   []Submission `json:"verses"`
	Choruses []Submission `json:"choruses"`
	Bridges  []Submission `json:"bridges"`
}

// All returns the selected lines in song order.
func (l SongLyrics) All() []Submission {
	all := make([]Submission, 0, len(l.Verses)+len(l.Choruses)+len(l.Bridges))
	all = append(all, l.Verses...)
	all = append(all, l.Choruses...)
	return append(all, l.Bridges...)
}

type FinalSong struct {
	ID               string     `json:"id"`
	PromptID         string     `json:"prompt_id"`
	PromptText       string     `json:"prompt_text"`
	WeekNumber       int        `json:"week_number"`
	Theme            string     `json:"theme"`
	Genre            string     `json:"genre"`
	Lyrics           SongLyrics `json:"lyrics"`
	Contributors     []string   `json:"contributors"`
	TotalSubmissions int        `json:"total_submissions"`
	TotalVotes       int64      `json:"total_votes"`
	CompletedAt      time.Time  `json:"completed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
