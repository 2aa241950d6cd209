package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"doser/internal/modules/dose/domain"
	"doser/internal/modules/dose/dto"
	"doser/internal/platform/clock"
	apperrors "doser/internal/platform/errors"
	"doser/internal/platform/id"
)

// Row is one entry of the collection: a stable id plus the dose it
// currently holds. Reset swaps the dose and keeps the id.
type Row struct {
	ID   string
	Dose domain.Dose
}

// DoseManager is the ordered, in-memory dose collection shared by the UI
// and the poller. Every operation holds mu for one bounded scan.
type DoseManager struct {
	clock  clock.Clock
	idGen  id.Generator
	logger *slog.Logger

	mu   sync.Mutex
	rows []Row
}

func NewDoseManager(clock clock.Clock, idGen id.Generator, logger *slog.Logger) *DoseManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &DoseManager{clock: clock, idGen: idGen, logger: logger}
}

func (m *DoseManager) Add(strain string, method domain.IngestionMethod, ingested time.Time) Row {
	row := Row{ID: m.idGen.New(), Dose: domain.NewDose(strain, method, ingested)}

	m.mu.Lock()
	m.rows = append(m.rows, row)
	size := len(m.rows)
	m.mu.Unlock()

	m.logger.Info("dose added",
		slog.String("id", row.ID),
		slog.String("strain", strain),
		slog.String("method", method.Key),
		slog.Time("ingested", ingested),
		slog.Int("rows", size),
	)
	return row
}

func (m *DoseManager) Remove(id string) error {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("dose %s: %w", id, apperrors.ErrNotFound)
	}
	m.rows = append(m.rows[:idx], m.rows[idx+1:]...)
	m.mu.Unlock()

	m.logger.Info("dose removed", slog.String("id", id))
	return nil
}

// Reset restarts the dose held by id at the current time.
func (m *DoseManager) Reset(id string) (Row, error) {
	now := m.clock.Now()

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return Row{}, fmt.Errorf("dose %s: %w", id, apperrors.ErrNotFound)
	}
	m.rows[idx].Dose = m.rows[idx].Dose.Derive(now)
	row := m.rows[idx]
	m.mu.Unlock()

	m.logger.Info("dose reset", slog.String("id", id), slog.Time("ingested", now))
	return row, nil
}

// ClearExpired drops every row expired at a single instant and returns
// the removed rows. Survivors keep their order.
func (m *DoseManager) ClearExpired() []Row {
	now := m.clock.Now()

	m.mu.Lock()
	var removed []Row
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.Dose.Status(now) == domain.StatusExpired {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}
	for i := len(kept); i < len(m.rows); i++ {
		m.rows[i] = Row{}
	}
	m.rows = kept
	remaining := len(m.rows)
	m.mu.Unlock()

	m.logger.Info("expired doses cleared",
		slog.Int("removed", len(removed)),
		slog.Int("remaining", remaining),
	)
	return removed
}

// Snapshot derives the display fields of every row from one clock read.
func (m *DoseManager) Snapshot() []dto.RowOutput {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dto.RowOutput, len(m.rows))
	for i, row := range m.rows {
		out[i] = Describe(row, now)
	}
	return out
}

func (m *DoseManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *DoseManager) Now() time.Time {
	return m.clock.Now()
}

func (m *DoseManager) indexLocked(id string) int {
	for i, row := range m.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// Describe renders one row's derived fields as seen at now.
func Describe(row Row, now time.Time) dto.RowOutput {
	d := row.Dose
	status := d.Status(now)
	return dto.RowOutput{
		ID:          row.ID,
		Strain:      d.Strain,
		Method:      d.Method.Name,
		MethodKey:   d.Method.Key,
		Status:      string(status),
		StatusLabel: status.Label(),
		TimeLeft:    d.TimeLeft(now),
		Progress:    d.Progress(now),
		Ingested:    d.Ingested,
		IngestedAgo: humanize.RelTime(d.Ingested, now, "ago", "from now"),
		Now:         now,
	}
}
