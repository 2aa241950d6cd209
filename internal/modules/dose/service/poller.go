package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"doser/internal/modules/dose/dto"
	doseout "doser/internal/modules/dose/port/out"
)

type snapshotter interface {
	Snapshot() []dto.RowOutput
}

// Poller republishes every row's display fields at a fixed target
// cadence. Time spent on a pass is taken out of the following sleep.
type Poller struct {
	source    snapshotter
	publisher doseout.RowPublisher
	interval  time.Duration
	logger    *slog.Logger
	running   atomic.Bool
}

func NewPoller(source snapshotter, publisher doseout.RowPublisher, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{source: source, publisher: publisher, interval: interval, logger: logger}
	p.running.Store(true)
	return p
}

// Run blocks until Stop is called or ctx is done. The keep-running flag
// is checked once per pass.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("dose poller started", slog.Duration("interval", p.interval))
	defer p.logger.Info("dose poller stopped")

	for p.running.Load() {
		start := time.Now()
		rows := p.source.Snapshot()
		p.publisher.Publish(ctx, rows)
		elapsed := time.Since(start)

		wait := SleepFor(p.interval, elapsed)
		if wait == 0 {
			p.logger.Debug("poll pass overran interval",
				slog.Duration("elapsed", elapsed),
				slog.Int("rows", len(rows)),
			)
			if ctx.Err() != nil {
				return
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (p *Poller) Stop() {
	p.running.Store(false)
}

func (p *Poller) Running() bool {
	return p.running.Load()
}

// SleepFor is the pause left in a pass of the given interval, clamped at zero.
func SleepFor(interval, elapsed time.Duration) time.Duration {
	if d := interval - elapsed; d > 0 {
		return d
	}
	return 0
}
