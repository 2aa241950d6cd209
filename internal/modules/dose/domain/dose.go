package domain

import "time"

type Status string

const (
	StatusProcessing Status = "processing"
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
)

// Label is the upper-case form shown in tables.
func (s Status) Label() string {
	switch s {
	case StatusProcessing:
		return "PROCESSING"
	case StatusActive:
		return "ACTIVE"
	default:
		return "EXPIRED"
	}
}

const ExpiredText = "Expired"

// Dose is one recorded ingestion. It is never mutated; resetting a dose
// produces a new value through Derive.
type Dose struct {
	Strain     string
	Method     IngestionMethod
	Ingested   time.Time
	Processing Period
	Active     Period
}

func NewDose(strain string, method IngestionMethod, ingested time.Time) Dose {
	onset := ingested.Add(method.Onset)
	return Dose{
		Strain:     strain,
		Method:     method,
		Ingested:   ingested,
		Processing: Period{Start: ingested, End: onset},
		Active:     Period{Start: onset, End: onset.Add(method.Duration)},
	}
}

// Derive returns the same strain and method taken again at now.
func (d Dose) Derive(now time.Time) Dose {
	return NewDose(d.Strain, d.Method, now)
}

// Status classifies now against the two windows. Instants before the
// ingestion time count as processing so the phase order stays monotonic.
func (d Dose) Status(now time.Time) Status {
	switch {
	case d.Processing.Contains(now), now.Before(d.Processing.Start):
		return StatusProcessing
	case d.Active.Contains(now):
		return StatusActive
	default:
		return StatusExpired
	}
}

// CurrentPeriod returns the window matching Status; ok is false once expired.
func (d Dose) CurrentPeriod(now time.Time) (Period, bool) {
	switch d.Status(now) {
	case StatusProcessing:
		return d.Processing, true
	case StatusActive:
		return d.Active, true
	default:
		return Period{}, false
	}
}

// Progress is the remaining fraction of the current window in [0, 1].
func (d Dose) Progress(now time.Time) float64 {
	p, ok := d.CurrentPeriod(now)
	if !ok || p.Length() <= 0 {
		return 1
	}
	f := float64(p.Remaining(now)) / float64(p.Length())
	if f > 1 {
		return 1
	}
	return f
}

func (d Dose) TimeLeft(now time.Time) string {
	p, ok := d.CurrentPeriod(now)
	if !ok {
		return ExpiredText
	}
	return FormatDuration(p.Remaining(now))
}
