// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler closes prompts whose deadline has passed. The engine
// never times anything itself; this ticker is the caller that observes the
// deadline and asks the engine to close and assemble.
package scheduler
