package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the Ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// MockClock is a Clock that only moves when told to.
type MockClock struct {
	now time.Time
	mu  sync.Mutex
}

func NewMockClock() *MockClock {
	return &MockClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// NewTestBoard creates a 24x10 board with a falling piece of the given shape
// at the spawn location and a clock that only moves when advanced.
func NewTestBoard(shape Shape) (*Board, *MockClock) {
	clock := NewMockClock()
	b, err := NewConfigurableBoard(Config{Seed: 1}, clock, nil)
	if err != nil {
		panic(err)
	}
	b.spawnShape(shape)
	return b, clock
}

// NewTestSnapshot returns the snapshot of a new test board with the given shape.
func NewTestSnapshot(shape Shape) *Snapshot {
	b, _ := NewTestBoard(shape)
	return b.Read()
}
