package clock

import "time"

// Clock abstracts wall-clock reads so dose phases can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock. The value keeps its monotonic
// reading for dose window arithmetic.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
