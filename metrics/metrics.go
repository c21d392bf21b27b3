// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Submissions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "crowdband_submissions_total", Help: "Total accepted lyric submissions"},
	)
	Votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "crowdband_votes_total", Help: "Total vote toggles by direction"},
		[]string{"direction"},
	)
	BadgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "crowdband_badges_awarded_total", Help: "Total badges awarded by badge id"},
		[]string{"badge"},
	)
	CyclesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "crowdband_cycles_closed_total", Help: "Total cycles closed by trigger"},
		[]string{"trigger"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "crowdband_rate_limited_total", Help: "Total requests rejected by the rate limiter"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crowdband_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Vote directions
const (
	VoteCast      = "cast"
	VoteRetracted = "retracted"
)

// Close triggers
const (
	TriggerAdmin    = "admin"
	TriggerDeadline = "deadline"
)

func Register() {
	prometheus.MustRegister(Submissions, Votes, BadgesAwarded, CyclesClosed, RateLimited, RequestDuration)
}

// RecordVote counts one vote toggle.
func RecordVote(voted bool) {
	if voted {
		Votes.WithLabelValues(VoteCast).Inc()
		return
	}
	Votes.WithLabelValues(VoteRetracted).Inc()
}

// RecordBadges counts newly awarded badges.
func RecordBadges(ids []string) {
	for _, id := range ids {
		BadgesAwarded.WithLabelValues(id).Inc()
	}
}
