// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import "github.com/danielhkuo/crowd-band/models"

// Badge ids
const (
	BadgeFirstSubmission       = "first_submission"
	BadgeFiveSubmissions       = "five_submissions"
	BadgeFirstVote             = "first_vote"
	BadgeTenSubmissions        = "ten_submissions"
	BadgeTopVoted              = "top_voted"
	BadgeThreeWeeks            = "three_weeks"
	BadgeTwentyFiveSubmissions = "twentyfive_submissions"
	BadgeFiveTopVoted          = "five_top_voted"
	BadgeHundredVotes          = "hundred_votes"
	BadgeFiftySubmissions      = "fifty_submissions"
	BadgeTenWeeks              = "ten_weeks"
	BadgeHotStreak             = "hot_streak"
	BadgeInTheSong             = "in_the_song"
	BadgeOG                    = "og"
)

var catalog = []models.Badge{
	{ID: BadgeFirstSubmission, Name: "First Voice", Description: "Submit your first lyric", Icon: "🎤", Tier: models.TierBronze, Requirement: "1 submission"},
	{ID: BadgeFiveSubmissions, Name: "Lyricist", Description: "Submit 5 lyrics", Icon: "📝", Tier: models.TierBronze, Requirement: "5 submissions"},
	{ID: BadgeFirstVote, Name: "Supporter", Description: "Receive your first upvote", Icon: "⬆️", Tier: models.TierBronze, Requirement: "1 vote received"},

	{ID: BadgeTenSubmissions, Name: "Songwriter", Description: "Submit 10 lyrics", Icon: "🎼", Tier: models.TierSilver, Requirement: "10 submissions"},
	{ID: BadgeTopVoted, Name: "Chart Topper", Description: "Have the most votes on a submission", Icon: "🏆", Tier: models.TierSilver, Requirement: "Top voted submission"},
	{ID: BadgeThreeWeeks, Name: "Regular", Description: "Participate in 3 different weeks", Icon: "🗓️", Tier: models.TierSilver, Requirement: "3 weeks"},

	{ID: BadgeTwentyFiveSubmissions, Name: "Prolific Writer", Description: "Submit 25 lyrics", Icon: "✍️", Tier: models.TierGold, Requirement: "25 submissions"},
	{ID: BadgeFiveTopVoted, Name: "Hit Maker", Description: "Have 5 top-voted submissions", Icon: "💿", Tier: models.TierGold, Requirement: "5 top submissions"},
	{ID: BadgeHundredVotes, Name: "Fan Favorite", Description: "Receive 100+ total votes", Icon: "⭐", Tier: models.TierGold, Requirement: "100 total votes"},

	{ID: BadgeFiftySubmissions, Name: "Legend", Description: "Submit 50 lyrics", Icon: "👑", Tier: models.TierDiamond, Requirement: "50 submissions"},
	{ID: BadgeTenWeeks, Name: "Band Member", Description: "Participate in 10 different weeks", Icon: "🎸", Tier: models.TierDiamond, Requirement: "10 weeks"},

	{ID: BadgeHotStreak, Name: "Hot Streak", Description: "Submit to 3 consecutive weeks", Icon: "🔥", Tier: models.TierSpecial, Requirement: "3 consecutive weeks"},
	{ID: BadgeInTheSong, Name: "On The Record", Description: "Have your lyric in a completed song", Icon: "🎵", Tier: models.TierSpecial, Requirement: "In completed song"},
	{ID: BadgeOG, Name: "OG", Description: "Submit the very first lyric in CrowdBand history", Icon: "💎", Tier: models.TierSpecial, Requirement: "First ever submission"},
}

// thresholds are evaluated in catalog order. The OG badge is not here; it
// is awarded from the first-submission claim.
var thresholds = []struct {
	badge string
	met   func(models.UserStats) bool
}{
	{BadgeFirstSubmission, func(s models.UserStats) bool { return s.TotalSubmissions >= 1 }},
	{BadgeFiveSubmissions, func(s models.UserStats) bool { return s.TotalSubmissions >= 5 }},
	{BadgeFirstVote, func(s models.UserStats) bool { return s.TotalVotes >= 1 }},
	{BadgeTenSubmissions, func(s models.UserStats) bool { return s.TotalSubmissions >= 10 }},
	{BadgeTopVoted, func(s models.UserStats) bool { return s.TopVotedSubmissions >= 1 }},
	{BadgeThreeWeeks, func(s models.UserStats) bool { return s.WeeksParticipated >= 3 }},
	{BadgeTwentyFiveSubmissions, func(s models.UserStats) bool { return s.TotalSubmissions >= 25 }},
	{BadgeFiveTopVoted, func(s models.UserStats) bool { return s.TopVotedSubmissions >= 5 }},
	{BadgeHundredVotes, func(s models.UserStats) bool { return s.TotalVotes >= 100 }},
	{BadgeFiftySubmissions, func(s models.UserStats) bool { return s.TotalSubmissions >= 50 }},
	{BadgeTenWeeks, func(s models.UserStats) bool { return s.WeeksParticipated >= 10 }},
	{BadgeHotStreak, func(s models.UserStats) bool { return s.ConsecutiveWeeks >= 3 }},
	{BadgeInTheSong, func(s models.UserStats) bool { return s.TopVotedSubmissions >= 1 }},
}

// Catalog returns a copy of the badge catalog.
func Catalog() []models.Badge {
	out := make([]models.Badge, len(catalog))
	copy(out, catalog)
	return out
}

// LookupBadge returns the catalog entry for id.
func LookupBadge(id string) (models.Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}
