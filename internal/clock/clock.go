package clock

import "time"

// Clock abstracts wall-clock reads so displayed payment status (pending vs
// effectively overdue) stays deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns the wall clock
func New() Clock {
	return realClock{}
}

// Fixed is a Clock pinned to a single instant, for tests
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
