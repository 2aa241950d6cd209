package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"doser/internal/modules/dose/domain"
	"doser/internal/modules/dose/dto"
	"doser/internal/modules/dose/service"
)

type recordingPublisher struct {
	mu    sync.Mutex
	calls [][]dto.RowOutput
	hits  chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{hits: make(chan struct{}, 64)}
}

func (r *recordingPublisher) Publish(_ context.Context, rows []dto.RowOutput) {
	r.mu.Lock()
	r.calls = append(r.calls, rows)
	r.mu.Unlock()
	select {
	case r.hits <- struct{}{}:
	default:
	}
}

func (r *recordingPublisher) wait(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-r.hits:
		case <-deadline:
			t.Fatalf("timed out waiting for publish %d", i+1)
		}
	}
}

func (r *recordingPublisher) lastStatusIs(status domain.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return false
	}
	last := r.calls[len(r.calls)-1]
	return len(last) > 0 && last[0].Status == string(status)
}

type slowSource struct{ delay time.Duration }

func (s slowSource) Snapshot() []dto.RowOutput {
	time.Sleep(s.delay)
	return nil
}

func TestSleepForClampsAtZero(t *testing.T) {
	t.Parallel()
	cases := []struct {
		interval, elapsed, want time.Duration
	}{
		{300 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond},
		{300 * time.Millisecond, 300 * time.Millisecond, 0},
		{300 * time.Millisecond, time.Second, 0},
		{300 * time.Millisecond, 0, 300 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := service.SleepFor(tc.interval, tc.elapsed); got != tc.want {
			t.Fatalf("SleepFor(%s, %s) = %s, want %s", tc.interval, tc.elapsed, got, tc.want)
		}
	}
}

func TestPollerPublishesSnapshotsUntilStopped(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: t0}
	mgr := newManager(clk)
	mgr.Add("potato", domain.DryHerb, t0)
	pub := newRecordingPublisher()
	poller := service.NewPoller(mgr, pub, 5*time.Millisecond, discardLogger())

	done := make(chan struct{})
	go func() {
		poller.Run(context.Background())
		close(done)
	}()

	pub.wait(t, 2)
	clk.Advance(20 * time.Minute)
	for !pub.lastStatusIs(domain.StatusActive) {
		pub.wait(t, 1)
	}
	poller.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop")
	}
	if poller.Running() {
		t.Fatalf("poller should report stopped")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	first := pub.calls[0]
	if len(first) != 1 || first[0].Status != string(domain.StatusProcessing) {
		t.Fatalf("unexpected first snapshot %+v", first)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	pub := newRecordingPublisher()
	poller := service.NewPoller(newManager(&fakeClock{now: t0}), pub, time.Hour, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()
	pub.wait(t, 1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller ignored context cancellation during sleep")
	}
}

func TestPollerKeepsGoingWhenPassOverrunsInterval(t *testing.T) {
	t.Parallel()
	pub := newRecordingPublisher()
	poller := service.NewPoller(slowSource{delay: 3 * time.Millisecond}, pub, time.Millisecond, discardLogger())

	done := make(chan struct{})
	go func() {
		poller.Run(context.Background())
		close(done)
	}()
	pub.wait(t, 3)
	poller.Stop()
	<-done
}

func TestPollerStoppedBeforeRunReturnsImmediately(t *testing.T) {
	t.Parallel()
	pub := newRecordingPublisher()
	poller := service.NewPoller(newManager(&fakeClock{now: t0}), pub, time.Millisecond, discardLogger())
	poller.Stop()
	poller.Run(context.Background())

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.calls) != 0 {
		t.Fatalf("expected no publishes, got %d", len(pub.calls))
	}
}
