package domain

import "time"

// Period is the half-open interval [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p Period) Length() time.Duration {
	return p.End.Sub(p.Start)
}

// Remaining is the time from t until End, never negative.
func (p Period) Remaining(t time.Time) time.Duration {
	if r := p.End.Sub(t); r > 0 {
		return r
	}
	return 0
}
