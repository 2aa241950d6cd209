package doses

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dosedto "doser/internal/modules/dose/dto"
	"doser/internal/ui/theme"
)

const barWidth = 16

var columns = []struct {
	title string
	width int
}{
	{"Strain", 18},
	{"Method", 12},
	{"Status", 12},
	{"Time til next status", 30},
	{"Progress", barWidth + 2},
	{"Taken", 16},
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the dose table. Rows are replaced wholesale on every
// poll; the cursor follows the selected id across refreshes.
type Model struct {
	rows     []dosedto.RowOutput
	cursor   int
	bars     map[string]progress.Model
	width    int
	height   int
	loaded   bool
	selected string
}

func New() Model {
	bars := map[string]progress.Model{}
	for _, status := range []string{"processing", "active", "expired"} {
		bars[status] = progress.New(
			progress.WithSolidFill(string(theme.StatusColor(status))),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		)
	}
	return Model{bars: bars}
}

// SetRows swaps in a fresh snapshot, keeping the cursor on the same dose
// when it still exists.
func (m *Model) SetRows(rows []dosedto.RowOutput) {
	m.rows = rows
	m.loaded = true
	if m.selected != "" {
		for i, r := range rows {
			if r.ID == m.selected {
				m.cursor = i
				return
			}
		}
	}
	m.clampCursor()
}

func (m Model) Rows() []dosedto.RowOutput { return m.rows }

// Selected returns the row under the cursor.
func (m Model) Selected() (dosedto.RowOutput, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return dosedto.RowOutput{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor--
		case "down", "j":
			m.cursor++
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		}
		m.clampCursor()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Waiting for first refresh…"))
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Doses (%d)", len(m.rows))) + "\n\n")
	sb.WriteString(m.renderHeader() + "\n")
	if len(m.rows) == 0 {
		sb.WriteString("\n" + theme.Muted.Render("No doses yet. Press a to add one."))
		return sb.String()
	}
	for i, r := range m.rows {
		line := m.renderRow(r)
		if i == m.cursor {
			line = theme.Selected.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) {
		m.selected = m.rows[m.cursor].ID
	} else {
		m.selected = ""
	}
}

func (m Model) renderHeader() string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = cell(theme.Muted, c.title, c.width)
	}
	return strings.Join(cells, " ")
}

func (m Model) renderRow(r dosedto.RowOutput) string {
	statusStyle := lipgloss.NewStyle().Foreground(theme.StatusColor(r.Status)).Bold(true)
	bar, ok := m.bars[r.Status]
	if !ok {
		bar = m.bars["expired"]
	}
	cells := []string{
		cell(lipgloss.NewStyle(), r.Strain, columns[0].width),
		cell(lipgloss.NewStyle(), r.Method, columns[1].width),
		cell(statusStyle, r.StatusLabel, columns[2].width),
		cell(lipgloss.NewStyle(), r.TimeLeft, columns[3].width),
		cell(lipgloss.NewStyle(), bar.ViewAs(r.Progress), columns[4].width),
		cell(theme.Muted, r.IngestedAgo, columns[5].width),
	}
	return strings.Join(cells, " ")
}

func cell(style lipgloss.Style, value string, width int) string {
	return style.Width(width).MaxWidth(width).Render(value)
}
