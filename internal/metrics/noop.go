package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRedirectCacheHit is a no-op.
func (n *NoopRecorder) IncRedirectCacheHit() {}

// IncRedirectCacheMiss is a no-op.
func (n *NoopRecorder) IncRedirectCacheMiss() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

// IncFileRegistered is a no-op.
func (n *NoopRecorder) IncFileRegistered() {}

// IncFileDeleted is a no-op.
func (n *NoopRecorder) IncFileDeleted() {}

// IncSlugCollision is a no-op.
func (n *NoopRecorder) IncSlugCollision() {}

// IncLoginCompleted is a no-op.
func (n *NoopRecorder) IncLoginCompleted() {}

// IncLoginFailed is a no-op.
func (n *NoopRecorder) IncLoginFailed(stage string) {}
