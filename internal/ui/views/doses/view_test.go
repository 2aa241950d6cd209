package doses_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	dosedto "doser/internal/modules/dose/dto"
	"doser/internal/ui/views/doses"
)

func sampleRows() []dosedto.RowOutput {
	return []dosedto.RowOutput{
		{ID: "a", Strain: "potato", Method: "Dry Herb", Status: "processing", StatusLabel: "PROCESSING", TimeLeft: "10 minutes", Progress: 0.6},
		{ID: "b", Strain: "carrot", Method: "Edible", Status: "active", StatusLabel: "ACTIVE", TimeLeft: "1 hour", Progress: 0.5},
		{ID: "c", Strain: "leek", Method: "Test", Status: "expired", StatusLabel: "EXPIRED", TimeLeft: "Expired", Progress: 1},
	}
}

func TestCursorFollowsSelectedDoseAcrossRefresh(t *testing.T) {
	t.Parallel()
	m := doses.New()
	m.SetRows(sampleRows())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if sel, ok := m.Selected(); !ok || sel.ID != "b" {
		t.Fatalf("expected b selected, got %+v", sel)
	}

	refreshed := sampleRows()
	refreshed = append(refreshed[:0], refreshed[1:]...)
	m.SetRows(refreshed)
	if sel, ok := m.Selected(); !ok || sel.ID != "b" {
		t.Fatalf("cursor should stay on b after a row above vanished, got %+v", sel)
	}
}

func TestCursorClampsWhenRowsShrink(t *testing.T) {
	t.Parallel()
	m := doses.New()
	m.SetRows(sampleRows())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m.SetRows(sampleRows()[:1])
	if sel, ok := m.Selected(); !ok || sel.ID != "a" {
		t.Fatalf("expected clamp to a, got %+v", sel)
	}
	m.SetRows(nil)
	if _, ok := m.Selected(); ok {
		t.Fatalf("empty table should have no selection")
	}
}

func TestViewShowsStatusAndCountdown(t *testing.T) {
	t.Parallel()
	m := doses.New()
	if !strings.Contains(m.View(), "Waiting") {
		t.Fatalf("expected waiting placeholder before first refresh")
	}
	m.SetRows(sampleRows())
	view := m.View()
	for _, want := range []string{"Doses (3)", "PROCESSING", "ACTIVE", "EXPIRED", "10 minutes", "potato"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	m.SetRows(nil)
	if !strings.Contains(m.View(), "No doses yet") {
		t.Fatalf("expected empty hint")
	}
}
