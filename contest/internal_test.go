// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/crowd-band/models"
)

func TestLongestRun(t *testing.T) {
	tests := []struct {
		name  string
		weeks []int
		want  int
	}{
		{"empty", nil, 0},
		{"single", []int{4}, 1},
		{"gap", []int{1, 3, 5}, 1},
		{"run of three", []int{1, 2, 3}, 3},
		{"longest run later", []int{1, 2, 5, 6, 7, 8, 10}, 4},
		{"two equal runs", []int{1, 2, 4, 5}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := longestRun(tt.weeks); got != tt.want {
				t.Errorf("longestRun(%v) = %d, want %d", tt.weeks, got, tt.want)
			}
		})
	}
}

func TestAddWeek(t *testing.T) {
	var s models.UserStats
	for _, w := range []int{5, 2, 9, 2, 3} {
		addWeek(&s, w)
	}

	if diff := cmp.Diff([]int{2, 3, 5, 9}, s.Weeks); diff != "" {
		t.Errorf("weeks mismatch (-want +got):\n%s", diff)
	}
	if addWeek(&s, 5) {
		t.Error("addWeek reported a duplicate week as new")
	}
}

func TestDecodeRecordRejectsForeignEnvelopes(t *testing.T) {
	raw, err := encodeRecord(kindPrompt, models.Prompt{ID: "p1", WeekNumber: 3})
	if err != nil {
		t.Fatalf("encodeRecord: %v", err)
	}

	var env map[string]any
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope is not JSON: %v", err)
	}
	if env["v"] != float64(recordVersion) || env["kind"] != kindPrompt {
		t.Errorf("unexpected envelope header: %v", env)
	}

	if _, err := decodeRecord[models.Submission](kindSubmission, raw); err == nil {
		t.Error("expected kind mismatch error")
	}

	future := strings.Replace(string(raw), `"v":1`, `"v":2`, 1)
	if _, err := decodeRecord[models.Prompt](kindPrompt, []byte(future)); err == nil {
		t.Error("expected unsupported version error")
	}

	if _, err := decodeRecord[models.Prompt](kindPrompt, []byte(`{"id":"p1"}`)); err == nil {
		t.Error("expected bare JSON without envelope to be rejected")
	}
}

func TestSongMemberOrdersNumerically(t *testing.T) {
	if !(songMember(9) < songMember(10)) {
		t.Errorf("songMember(9)=%s should sort before songMember(10)=%s", songMember(9), songMember(10))
	}
}
