// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordVote(t *testing.T) {
	cast := testutil.ToFloat64(Votes.WithLabelValues(VoteCast))
	retracted := testutil.ToFloat64(Votes.WithLabelValues(VoteRetracted))

	RecordVote(true)
	RecordVote(true)
	RecordVote(false)

	if got := testutil.ToFloat64(Votes.WithLabelValues(VoteCast)) - cast; got != 2 {
		t.Errorf("Expected 2 cast votes, got %v", got)
	}
	if got := testutil.ToFloat64(Votes.WithLabelValues(VoteRetracted)) - retracted; got != 1 {
		t.Errorf("Expected 1 retracted vote, got %v", got)
	}
}

func TestRecordBadges(t *testing.T) {
	before := testutil.ToFloat64(BadgesAwarded.WithLabelValues("first_submission"))

	RecordBadges([]string{"first_submission", "og"})
	RecordBadges(nil)

	if got := testutil.ToFloat64(BadgesAwarded.WithLabelValues("first_submission")) - before; got != 1 {
		t.Errorf("Expected 1 award, got %v", got)
	}
}

func TestCollectorsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	collectors := []prometheus.Collector{Submissions, Votes, BadgesAwarded, CyclesClosed, RateLimited, RequestDuration}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			t.Errorf("Failed to register collector: %v", err)
		}
	}

	// Vector collectors only export children that were touched
	Submissions.Inc()
	CyclesClosed.WithLabelValues(TriggerDeadline).Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"crowdband_submissions_total", "crowdband_cycles_closed_total"} {
		if !names[want] {
			t.Errorf("Expected metric %s in registry", want)
		}
	}
}
