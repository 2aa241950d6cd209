package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	dosedto "doser/internal/modules/dose/dto"
	"doser/internal/ui/theme"
)

// SubmitMsg carries a validated add request.
type SubmitMsg struct {
	Strain  string
	Method  string
	Elapsed time.Duration
}

type CancelMsg struct{}

type field int

const (
	fieldStrain field = iota
	fieldMethod
	fieldWhen
	fieldCount
)

// Model is the add-dose form. It turns free text into typed input and
// refuses to submit anything the dose use case would reject.
type Model struct {
	strain  textinput.Model
	when    textinput.Model
	methods []dosedto.MethodOutput
	method  int
	focus   field
	err     string
}

func New() Model {
	strain := textinput.New()
	strain.Placeholder = "strain"
	strain.CharLimit = 64

	when := textinput.New()
	when.Placeholder = "0 = now, 45 = minutes ago, 2h30m"
	when.CharLimit = 16

	return Model{strain: strain, when: when}
}

func (m *Model) SetMethods(methods []dosedto.MethodOutput) {
	m.methods = methods
	if m.method >= len(methods) {
		m.method = 0
	}
}

// Open resets the form and focuses the strain field.
func (m *Model) Open() tea.Cmd {
	m.strain.SetValue("")
	m.when.SetValue("")
	m.err = ""
	m.focus = fieldStrain
	m.when.Blur()
	return m.strain.Focus()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "enter":
			return m.submit()
		case "left", "right":
			if m.focus == fieldMethod && len(m.methods) > 0 {
				step := 1
				if key.String() == "left" {
					step = len(m.methods) - 1
				}
				m.method = (m.method + step) % len(m.methods)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldStrain:
		m.strain, cmd = m.strain.Update(msg)
	case fieldWhen:
		m.when, cmd = m.when.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Add dose") + "\n\n")
	sb.WriteString(m.label(fieldStrain, "Strain") + m.strain.View() + "\n\n")
	sb.WriteString(m.label(fieldMethod, "Method") + m.renderMethods() + "\n\n")
	sb.WriteString(m.label(fieldWhen, "Taken") + m.when.View() + "\n")
	if m.err != "" {
		sb.WriteString("\n" + theme.Error.Render(m.err) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab: next field  ←/→: method  enter: add  esc: cancel"))
	return theme.PaneActive.Render(sb.String())
}

const maxMinutes = math.MaxInt64 / int64(time.Minute)

// ParseElapsed reads "how long ago" input. A bare number counts minutes;
// anything else must be a Go duration. Blank means now.
func ParseElapsed(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	var d time.Duration
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("time taken cannot be in the future")
		}
		if n > maxMinutes {
			return 0, fmt.Errorf("cannot read %q as a time span", raw)
		}
		d = time.Duration(n) * time.Minute
	} else {
		parsed, perr := time.ParseDuration(raw)
		if perr != nil {
			return 0, fmt.Errorf("cannot read %q as a time span", raw)
		}
		d = parsed
	}
	if d < 0 {
		return 0, fmt.Errorf("time taken cannot be in the future")
	}
	return d, nil
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) moveFocus(step int) tea.Cmd {
	m.focus = field((int(m.focus) + step + int(fieldCount)) % int(fieldCount))
	m.strain.Blur()
	m.when.Blur()
	switch m.focus {
	case fieldStrain:
		return m.strain.Focus()
	case fieldWhen:
		return m.when.Focus()
	}
	return nil
}

func (m Model) submit() (Model, tea.Cmd) {
	strain := strings.TrimSpace(m.strain.Value())
	if strain == "" {
		m.err = "strain is required"
		return m, nil
	}
	if len(m.methods) == 0 {
		m.err = "no ingestion methods available"
		return m, nil
	}
	elapsed, err := ParseElapsed(m.when.Value())
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	out := SubmitMsg{Strain: strain, Method: m.methods[m.method].Key, Elapsed: elapsed}
	m.err = ""
	return m, func() tea.Msg { return out }
}

func (m Model) label(f field, text string) string {
	text = fmt.Sprintf("%-8s", text)
	if m.focus == f {
		return theme.Hot.Render("› "+text) + " "
	}
	return theme.Muted.Render("  "+text) + " "
}

func (m Model) renderMethods() string {
	if len(m.methods) == 0 {
		return theme.Muted.Render("none")
	}
	parts := make([]string, len(m.methods))
	for i, method := range m.methods {
		text := fmt.Sprintf("%s (%s/%s)", method.Name, short(method.Onset), short(method.Duration))
		if i == m.method {
			parts[i] = theme.Hot.Render("● " + text)
		} else {
			parts[i] = theme.Muted.Render("○ " + text)
		}
	}
	return strings.Join(parts, "  ")
}

func short(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
