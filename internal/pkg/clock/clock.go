package clock

import "time"

// Clocker is the time source used across the app so tests can freeze time.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the real system clock.
type TimeClocker struct{}

// New returns the production clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Static is a Clocker pinned to a fixed instant, useful in tests.
type Static struct {
	At time.Time
}

// Now returns the pinned instant.
func (s Static) Now() time.Time {
	return s.At
}
