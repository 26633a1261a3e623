package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RedirectCacheHits       uint64
	RedirectCacheMisses     uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
	FilesRegistered         uint64
	FilesDeleted            uint64
	SlugCollisions          uint64
	LoginsCompleted         uint64
	LoginsFailed            map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	redirectCacheHits       uint64
	redirectCacheMisses     uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	filesRegistered         uint64
	filesDeleted            uint64
	slugCollisions          uint64
	loginsCompleted         uint64

	mu           sync.Mutex
	loginsFailed map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{loginsFailed: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failed := make(map[string]uint64, len(m.loginsFailed))
	for stage, count := range m.loginsFailed {
		failed[stage] = count
	}
	m.mu.Unlock()

	return Snapshot{
		RedirectCacheHits:       atomic.LoadUint64(&m.redirectCacheHits),
		RedirectCacheMisses:     atomic.LoadUint64(&m.redirectCacheMisses),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		FilesRegistered:         atomic.LoadUint64(&m.filesRegistered),
		FilesDeleted:            atomic.LoadUint64(&m.filesDeleted),
		SlugCollisions:          atomic.LoadUint64(&m.slugCollisions),
		LoginsCompleted:         atomic.LoadUint64(&m.loginsCompleted),
		LoginsFailed:            failed,
	}
}

// IncRedirectCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncRedirectCacheHit() {
	atomic.AddUint64(&m.redirectCacheHits, 1)
}

// IncRedirectCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncRedirectCacheMiss() {
	atomic.AddUint64(&m.redirectCacheMisses, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncFileRegistered increments the file registered counter.
func (m *InMemoryRecorder) IncFileRegistered() {
	atomic.AddUint64(&m.filesRegistered, 1)
}

// IncFileDeleted increments the file deleted counter.
func (m *InMemoryRecorder) IncFileDeleted() {
	atomic.AddUint64(&m.filesDeleted, 1)
}

// IncSlugCollision increments the slug collision counter.
func (m *InMemoryRecorder) IncSlugCollision() {
	atomic.AddUint64(&m.slugCollisions, 1)
}

// IncLoginCompleted increments the completed login counter.
func (m *InMemoryRecorder) IncLoginCompleted() {
	atomic.AddUint64(&m.loginsCompleted, 1)
}

// IncLoginFailed increments the failed login counter for a stage.
func (m *InMemoryRecorder) IncLoginFailed(stage string) {
	m.mu.Lock()
	m.loginsFailed[stage]++
	m.mu.Unlock()
}
