package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dosedto "doser/internal/modules/dose/dto"
	"doser/internal/ui/components"
	"doser/internal/ui/theme"
	dosesview "doser/internal/ui/views/doses"
	formview "doser/internal/ui/views/form"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type dosePort interface {
	Add(ctx context.Context, strain, method string, elapsed time.Duration) (dosedto.RowOutput, error)
	Remove(ctx context.Context, id string) error
	Reset(ctx context.Context, id string) (dosedto.RowOutput, error)
	ClearExpired(ctx context.Context) (dosedto.ClearOutput, error)
	Rows(ctx context.Context) ([]dosedto.RowOutput, error)
	Methods(ctx context.Context) ([]dosedto.MethodOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

type rowsMsg struct {
	rows []dosedto.RowOutput
	// at is when the snapshot was taken; older snapshots than the one on
	// screen are dropped.
	at time.Time
	// polled marks snapshots coming from the poller; only those re-arm
	// the subscription.
	polled bool
}

type methodsLoadedMsg struct {
	methods []dosedto.MethodOutput
	err     error
}

type doseAddedMsg struct {
	row dosedto.RowOutput
	err error
}

type doseRemovedMsg struct {
	strain string
	err    error
}

type doseResetMsg struct {
	row dosedto.RowOutput
	err error
}

type clearedMsg struct {
	out dosedto.ClearOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Add     key.Binding
	Delete  key.Binding
	Reset   key.Binding
	Clear   key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add dose")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete dose")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset dose")),
		Clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear expired")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Reset, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Delete, k.Reset, k.Clear},
		{k.Up, k.Down},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the dose table, the add
// form, the help overlay and the command palette. Dose state lives behind
// dosePort; fresh rows arrive on updates once per poll.
type Model struct {
	doses   dosePort
	updates <-chan []dosedto.RowOutput

	table    dosesview.Model
	form     formview.Model
	showForm bool
	methods  []dosedto.MethodOutput

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	now      func() time.Time
	shownAt  time.Time
	width    int
	height   int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(doses dosePort, updates <-chan []dosedto.RowOutput) Model {
	return Model{
		doses:   doses,
		updates: updates,
		table:   dosesview.New(),
		form:    formview.New(),
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(),
		status:  "ready",
		now:     time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadMethodsCmd(),
		m.loadRowsCmd(),
		m.waitForRows(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Poll snapshots must keep flowing while overlays are open.
	// A poll taken before a delete or reset may arrive after the reload
	// that follows it.
	if msg, ok := msg.(rowsMsg); ok {
		if !msg.at.Before(m.shownAt) {
			m.table.SetRows(msg.rows)
			m.shownAt = msg.at
		}
		if msg.polled {
			return m, m.waitForRows()
		}
		return m, nil
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.table, _ = m.table.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 3})
		return m, nil

	case methodsLoadedMsg:
		if msg.err != nil {
			m.status = "load methods: " + msg.err.Error()
			return m, nil
		}
		m.methods = msg.methods
		m.form.SetMethods(msg.methods)
		keys := make([]string, len(msg.methods))
		for i, method := range msg.methods {
			keys[i] = method.Key
		}
		m.palette.SetMethods(keys)
		return m, nil

	case doseAddedMsg:
		if msg.err != nil {
			m.status = "add failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("added %s (%s)", msg.row.Strain, msg.row.Method)
		return m, m.loadRowsCmd()

	case doseRemovedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "deleted " + msg.strain
		return m, m.loadRowsCmd()

	case doseResetMsg:
		if msg.err != nil {
			m.status = "reset failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "reset " + msg.row.Strain
		return m, m.loadRowsCmd()

	case clearedMsg:
		if msg.err != nil {
			m.status = "clear failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("cleared %d expired, %d left", msg.out.Removed, msg.out.Remaining)
		return m, m.loadRowsCmd()

	case formview.SubmitMsg:
		m.showForm = false
		return m, m.addCmd(msg.Strain, msg.Method, msg.Elapsed)

	case formview.CancelMsg:
		m.showForm = false
		m.status = "ready"
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil
	}

	if m.showForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			cmd := m.palette.Open()
			return m, cmd
		case key.Matches(msg, m.keys.Add):
			m.showForm = true
			cmd := m.form.Open()
			return m, cmd
		case key.Matches(msg, m.keys.Delete):
			return m, m.removeSelectedCmd()
		case key.Matches(msg, m.keys.Reset):
			return m, m.resetSelectedCmd()
		case key.Matches(msg, m.keys.Clear):
			return m, m.clearExpiredCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.showForm:
		content = lipgloss.JoinVertical(lipgloss.Left, m.table.View(), m.form.View())
	default:
		content = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render("doser") + "  " + theme.Muted.Render("dose tracker")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("a:add  d:delete  r:reset  x:clear  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "dose:add":
		if len(parts) < 3 {
			m.status = "usage: dose:add <method> <strain> [ago]"
			return m, nil
		}
		strain := parts[2]
		var elapsed time.Duration
		if len(parts) >= 4 {
			d, err := formview.ParseElapsed(parts[3])
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			elapsed = d
		}
		return m, m.addCmd(strain, parts[1], elapsed)

	case "dose:delete":
		return m, m.removeSelectedCmd()

	case "dose:reset":
		return m, m.resetSelectedCmd()

	case "dose:clear-expired":
		return m, m.clearExpiredCmd()

	case "dose:methods":
		names := make([]string, len(m.methods))
		for i, method := range m.methods {
			names[i] = method.Key
		}
		m.status = "methods: " + strings.Join(names, ", ")

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

// waitForRows blocks on the poll channel; rowsMsg handling re-arms it.
func (m Model) waitForRows() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		rows, ok := <-ch
		if !ok {
			return nil
		}
		// Rows only disappear through UI actions, which reload afterwards,
		// so an empty poll carries no news and is stamped as old.
		var at time.Time
		if len(rows) > 0 {
			at = rows[0].Now
		}
		return rowsMsg{rows: rows, at: at, polled: true}
	}
}

func (m Model) loadRowsCmd() tea.Cmd {
	now := m.now
	return func() tea.Msg {
		at := now()
		rows, err := m.doses.Rows(context.Background())
		if err != nil {
			return nil
		}
		return rowsMsg{rows: rows, at: at}
	}
}

func (m Model) loadMethodsCmd() tea.Cmd {
	return func() tea.Msg {
		methods, err := m.doses.Methods(context.Background())
		return methodsLoadedMsg{methods: methods, err: err}
	}
}

func (m Model) addCmd(strain, method string, elapsed time.Duration) tea.Cmd {
	return func() tea.Msg {
		row, err := m.doses.Add(context.Background(), strain, method, elapsed)
		return doseAddedMsg{row: row, err: err}
	}
}

func (m Model) removeSelectedCmd() tea.Cmd {
	row, ok := m.table.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		err := m.doses.Remove(context.Background(), row.ID)
		return doseRemovedMsg{strain: row.Strain, err: err}
	}
}

func (m Model) resetSelectedCmd() tea.Cmd {
	row, ok := m.table.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		out, err := m.doses.Reset(context.Background(), row.ID)
		return doseResetMsg{row: out, err: err}
	}
}

func (m Model) clearExpiredCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.doses.ClearExpired(context.Background())
		return clearedMsg{out: out, err: err}
	}
}
