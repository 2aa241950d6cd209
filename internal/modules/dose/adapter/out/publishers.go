package out

import (
	"context"
	"fmt"
	"io"
	"sync"

	"doser/internal/modules/dose/dto"
)

// ChannelPublisher keeps only the newest snapshot. A reader that falls
// behind sees the latest rows, never a backlog.
type ChannelPublisher struct {
	ch chan []dto.RowOutput
}

func NewChannelPublisher() *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan []dto.RowOutput, 1)}
}

func (p *ChannelPublisher) Publish(ctx context.Context, rows []dto.RowOutput) {
	for {
		select {
		case p.ch <- rows:
			return
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-p.ch:
		default:
		}
	}
}

func (p *ChannelPublisher) Updates() <-chan []dto.RowOutput {
	return p.ch
}

// WriterPublisher prints one tab-separated line per row on every pass.
type WriterPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterPublisher(w io.Writer) *WriterPublisher {
	return &WriterPublisher{w: w}
}

func (p *WriterPublisher) Publish(_ context.Context, rows []dto.RowOutput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range rows {
		_, _ = fmt.Fprintf(p.w, "%s\t%s\t%s\t%s\t%.0f%%\n",
			r.Now.Format("15:04:05"), r.Strain, r.StatusLabel, r.TimeLeft, r.Progress*100)
	}
}
