package dto

import "time"

type AddInput struct {
	Strain string
	Method string
	// Elapsed is how long ago the dose was taken; zero means now.
	Elapsed time.Duration
}

type PreviewInput struct {
	Strain  string
	Method  string
	Elapsed time.Duration
}

// RowOutput carries the display fields of one dose, derived at Now.
type RowOutput struct {
	ID          string
	Strain      string
	Method      string
	MethodKey   string
	Status      string
	StatusLabel string
	TimeLeft    string
	Progress    float64
	Ingested    time.Time
	IngestedAgo string
	Now         time.Time
}

type MethodOutput struct {
	Key      string
	Name     string
	Onset    time.Duration
	Duration time.Duration
}

type ClearOutput struct {
	Removed   int
	Remaining int
}
