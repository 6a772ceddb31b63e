package clock

import "time"

// Clock supplies the current time. Settlement and reporting read time
// through it so behavior stays deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
