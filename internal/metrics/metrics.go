// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Redirect metrics
	IncRedirectCacheHit()
	IncRedirectCacheMiss()
	ObserveRedirectDuration(duration time.Duration)

	// File management metrics
	IncFileRegistered()
	IncFileDeleted()
	IncSlugCollision()

	// Identity metrics
	IncLoginCompleted()
	IncLoginFailed(stage string) // stage: "exchange", "verify", "resolve"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
