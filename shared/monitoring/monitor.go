package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// Monitor keeps in-process counters on search outcomes for the health
// endpoints. Safe for concurrent use.
type Monitor struct {
	mu           sync.Mutex
	searches     int64
	failures     int64
	lastOutcome  bool
	lastActivity time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSearchSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.lastOutcome = true
	m.lastActivity = time.Now()
}

func (m *Monitor) RecordSearchFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.failures++
	m.lastOutcome = false
	m.lastActivity = time.Now()
}

func (m *Monitor) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastActivity.IsZero() {
		return true // No searches yet, assume healthy
	}
	return m.lastOutcome
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastActivity.IsZero() {
		return "No searches yet"
	}
	return fmt.Sprintf("%d searches, %d failures, last activity %s",
		m.searches, m.failures, m.lastActivity.Format("Jan 2 15:04"))
}
