package realtime

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after wait without blocking the caller.
type Scheduler interface {
	Schedule(wait time.Duration, fn func())
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(wait time.Duration, fn func()) {
	if wait < 0 {
		wait = 0
	}
	time.AfterFunc(wait, fn)
}

// ManualScheduler queues callbacks on a virtual clock that only moves when
// Advance or RunAll is called. Callbacks run on the caller's goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []scheduled
}

type scheduled struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewManualScheduler creates a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements Scheduler.
func (m *ManualScheduler) Schedule(wait time.Duration, fn func()) {
	if wait < 0 {
		wait = 0
	}
	m.mu.Lock()
	m.seq++
	m.pending = append(m.pending, scheduled{at: m.now + wait, seq: m.seq, fn: fn})
	m.mu.Unlock()
}

// Now returns the virtual time elapsed since creation.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending reports how many callbacks are waiting.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that falls due,
// including ones scheduled by callbacks run during this call.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.mu.Lock()
	deadline := m.now + d
	m.mu.Unlock()
	ran := 0
	for {
		next, ok := m.popDue(deadline)
		if !ok {
			break
		}
		next.fn()
		ran++
	}
	m.mu.Lock()
	if m.now < deadline {
		m.now = deadline
	}
	m.mu.Unlock()
	return ran
}

// RunAll runs callbacks in due order until nothing is pending.
func (m *ManualScheduler) RunAll() int {
	ran := 0
	for {
		next, ok := m.popDue(-1)
		if !ok {
			return ran
		}
		next.fn()
		ran++
	}
}

// popDue removes the earliest callback due at or before deadline. A negative
// deadline accepts any callback.
func (m *ManualScheduler) popDue(deadline time.Duration) (scheduled, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return scheduled{}, false
	}
	sort.Slice(m.pending, func(i, j int) bool {
		if m.pending[i].at == m.pending[j].at {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].at < m.pending[j].at
	})
	next := m.pending[0]
	if deadline >= 0 && next.at > deadline {
		return scheduled{}, false
	}
	m.pending = m.pending[1:]
	if next.at > m.now {
		m.now = next.at
	}
	return next, true
}
