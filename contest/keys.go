// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"fmt"
	"strconv"
)

// Key layout. Counters are decimal strings; keys ending in "all" and the
// per-prompt/per-submission member keys below are sets.
const (
	// id of the open or most recent prompt
	keyCurrentPrompt = "prompt:current"
	keyPrompts       = "prompts:all"
	keySubmissionSeq = "submissions:seq"
	keyUsers         = "users:all"
	// zero-padded week numbers of assembled songs
	keySongs = "songs:all"
	// user id that claimed the first-ever submission
	keyFirstLyric = "og:first"
)

func promptKey(id string) string { return "prompt:" + id }

func weekKey(week int) string { return "prompt:week:" + strconv.Itoa(week) }

func submissionKey(id string) string { return "submission:" + id }

// promptSubmissionsKey is the set of submission ids for a prompt.
func promptSubmissionsKey(promptID string) string { return "submissions:" + promptID }

// submittersKey is the set of user ids that submitted to a prompt.
func submittersKey(promptID string) string { return "submitted:" + promptID }

func votesKey(submissionID string) string { return "votes:" + submissionID }

// votersKey is the set of user ids holding a vote on a submission.
func votersKey(submissionID string) string { return "voters:" + submissionID }

func statsKey(userID string) string { return "user:stats:" + userID }

func songKey(week int) string { return "song:week:" + strconv.Itoa(week) }

// songMember pads week numbers so the byte-ordered set lists them in
// numeric order.
func songMember(week int) string { return fmt.Sprintf("%010d", week) }
