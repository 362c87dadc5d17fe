package clock

import "time"

// DateLayout is the stored format of expiry dates.
const DateLayout = "2006-01-02"

// Clock abstracts the current time so expiry checks can be tested.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

// NewRealClock creates a new RealClock
func NewRealClock() Clock {
	return RealClock{}
}

// Now returns the current system time
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is a settable clock for tests.
type MockClock struct {
	current time.Time
}

// NewMockClock creates a MockClock starting at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked time
func (m *MockClock) Now() time.Time {
	return m.current
}

// Set moves the mock clock to t
func (m *MockClock) Set(t time.Time) {
	m.current = t
}

// Advance moves the mock clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}

// Today returns the clock's current UTC date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}
