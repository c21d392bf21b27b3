// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics holds the Prometheus collectors for the contest service.

Collectors are package-level and registered once from main:

	metrics.Register()

The router exposes them at GET /metrics. Handlers count submissions, vote
toggles and awarded badges; the scheduler and the close handler count
closed cycles by trigger; middleware observes request latency and
rate-limit rejections.
*/
package metrics
