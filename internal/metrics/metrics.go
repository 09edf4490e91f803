// Package metrics keeps run counters for the monitoring endpoints.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsTried         int64
	FeedsFailed        int64
	EntriesSeen        int64
	EntriesExcluded    int64
	DuplicatesFiltered int64
	ItemsKept          int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) RecordFetch(tried, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsTried += int64(tried)
	m.FeedsFailed += int64(failed)
}

func (m *Metrics) IncrementEntriesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSeen++
}

func (m *Metrics) IncrementEntriesExcluded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesExcluded++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) RecordItemsKept(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsKept = int64(n)
}

func (m *Metrics) RecordRunDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = d
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_tried":          m.FeedsTried,
		"feeds_failed":         m.FeedsFailed,
		"entries_seen":         m.EntriesSeen,
		"entries_excluded":     m.EntriesExcluded,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"items_kept":           m.ItemsKept,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
