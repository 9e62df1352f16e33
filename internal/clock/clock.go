package clock

import (
	"sync"
	"time"
)

// Clock supplies the monotonic time used by frame scheduling and particle aging.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// New returns the system clock.
func New() Real {
	return Real{}
}

// Now returns the current time with its monotonic reading.
func (Real) Now() time.Time {
	return time.Now()
}

// Mock provides a controllable time source for tests and offline rendering.
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMock creates a mock clock starting at the given time.
func NewMock(start time.Time) *Mock {
	return &Mock{currentTime: start}
}

// Now returns the current mocked time.
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set jumps the mock to t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
