package domain_test

import (
	"testing"
	"time"

	"doser/internal/modules/dose/domain"
)

var t0 = time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

func TestStatusAtWindowBoundaries(t *testing.T) {
	t.Parallel()
	for _, method := range domain.BuiltinMethods() {
		method := method
		t.Run(method.Key, func(t *testing.T) {
			t.Parallel()
			d := domain.NewDose("potato", method, t0)
			if got := d.Status(d.Ingested); got != domain.StatusProcessing {
				t.Fatalf("at ingestion expected processing, got %s", got)
			}
			if got := d.Status(d.Ingested.Add(method.Onset)); got != domain.StatusActive {
				t.Fatalf("at onset expected active, got %s", got)
			}
			if got := d.Status(d.Ingested.Add(method.Onset + method.Duration)); got != domain.StatusExpired {
				t.Fatalf("at end of active window expected expired, got %s", got)
			}
		})
	}
}

func TestWindowsAreContiguous(t *testing.T) {
	t.Parallel()
	d := domain.NewDose("potato", domain.Edible, t0)
	if !d.Processing.End.Equal(d.Active.Start) {
		t.Fatalf("processing end %s != active start %s", d.Processing.End, d.Active.Start)
	}
	if d.Processing.Length() != 2*time.Hour || d.Active.Length() != 6*time.Hour {
		t.Fatalf("unexpected window lengths %s / %s", d.Processing.Length(), d.Active.Length())
	}
}

func TestDryHerbScenario(t *testing.T) {
	t.Parallel()
	d := domain.NewDose("potato", domain.DryHerb, t0)
	cases := []struct {
		at   time.Duration
		want domain.Status
	}{
		{10 * time.Minute, domain.StatusProcessing},
		{20 * time.Minute, domain.StatusActive},
		{3 * time.Hour, domain.StatusExpired},
	}
	for _, tc := range cases {
		if got := d.Status(t0.Add(tc.at)); got != tc.want {
			t.Fatalf("at T0+%s expected %s, got %s", tc.at, tc.want, got)
		}
	}
}

func TestStatusIsMonotonic(t *testing.T) {
	t.Parallel()
	rank := map[domain.Status]int{
		domain.StatusProcessing: 0,
		domain.StatusActive:     1,
		domain.StatusExpired:    2,
	}
	d := domain.NewDose("potato", domain.DryHerb, t0)
	prev := rank[d.Status(t0.Add(-time.Minute))]
	for at := -time.Minute; at <= 3*time.Hour; at += 30 * time.Second {
		cur := rank[d.Status(t0.Add(at))]
		if cur < prev {
			t.Fatalf("status went backwards at T0+%s", at)
		}
		prev = cur
	}
}

func TestDerivePreservesStrainAndMethod(t *testing.T) {
	t.Parallel()
	d := domain.NewDose("potato", domain.Edible, t0)
	later := t0.Add(9 * time.Hour)
	fresh := d.Derive(later)
	if fresh.Strain != d.Strain || fresh.Method != d.Method {
		t.Fatalf("derive changed identity: %+v", fresh)
	}
	if fresh.Ingested.Before(d.Ingested) {
		t.Fatalf("derived ingestion %s is before original %s", fresh.Ingested, d.Ingested)
	}
	if got := fresh.Status(later); got != domain.StatusProcessing {
		t.Fatalf("derived dose should restart at processing, got %s", got)
	}
	if got := d.Status(later); got != domain.StatusExpired {
		t.Fatalf("original dose must stay expired, got %s", got)
	}
}

func TestCurrentPeriodProgressAndTimeLeft(t *testing.T) {
	t.Parallel()
	d := domain.NewDose("potato", domain.DryHerb, t0)

	p, ok := d.CurrentPeriod(t0.Add(5 * time.Minute))
	if !ok || p != d.Processing {
		t.Fatalf("expected processing window, got %+v ok=%v", p, ok)
	}
	if got := d.Progress(t0.Add(5 * time.Minute)); got < 0.666 || got > 0.667 {
		t.Fatalf("expected two thirds remaining, got %f", got)
	}
	if got := d.TimeLeft(t0.Add(5 * time.Minute)); got != "10 minutes" {
		t.Fatalf("unexpected time left %q", got)
	}

	active := t0.Add(75 * time.Minute)
	if got := d.Progress(active); got != 0.5 {
		t.Fatalf("expected half of active window remaining, got %f", got)
	}
	if got := d.TimeLeft(active); got != "1 hour" {
		t.Fatalf("unexpected time left %q", got)
	}

	expired := t0.Add(4 * time.Hour)
	if _, ok := d.CurrentPeriod(expired); ok {
		t.Fatalf("expired dose must not have a current period")
	}
	if got := d.Progress(expired); got != 1 {
		t.Fatalf("expired progress should be 1, got %f", got)
	}
	if got := d.TimeLeft(expired); got != domain.ExpiredText {
		t.Fatalf("expected expired marker, got %q", got)
	}
}

func TestBeforeIngestionCountsAsProcessing(t *testing.T) {
	t.Parallel()
	d := domain.NewDose("potato", domain.DryHerb, t0)
	early := t0.Add(-10 * time.Minute)
	if got := d.Status(early); got != domain.StatusProcessing {
		t.Fatalf("expected processing before ingestion, got %s", got)
	}
	if got := d.Progress(early); got != 1 {
		t.Fatalf("progress must clamp to 1, got %f", got)
	}
}

func TestZeroLengthWindows(t *testing.T) {
	t.Parallel()
	instant := domain.IngestionMethod{Key: "instant", Name: "Instant", Duration: time.Minute}
	d := domain.NewDose("potato", instant, t0)
	if got := d.Status(t0); got != domain.StatusActive {
		t.Fatalf("empty processing window should skip to active, got %s", got)
	}
	none := domain.IngestionMethod{Key: "none", Name: "None"}
	if got := domain.NewDose("potato", none, t0).Status(t0); got != domain.StatusExpired {
		t.Fatalf("empty windows should be expired, got %s", got)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()
	if domain.StatusProcessing.Label() != "PROCESSING" || domain.StatusActive.Label() != "ACTIVE" || domain.StatusExpired.Label() != "EXPIRED" {
		t.Fatalf("unexpected status labels")
	}
}
