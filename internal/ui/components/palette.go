package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"doser/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"dose:add <method> <strain> [ago]",
	"dose:delete",
	"dose:reset",
	"dose:clear-expired",
	"dose:methods",
}

const maxHints = 5

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	methods []string
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

// SetMethods sets the method keys offered after "dose:add ".
func (p *Palette) SetMethods(keys []string) {
	p.methods = append([]string(nil), keys...)
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "tab":
			if done, ok := p.complete(); ok {
				p.input.SetValue(done)
				p.input.CursorEnd()
			}
			return p, nil
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := p.matches()

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// matches lists hints for the current input. Once "dose:add " is typed the
// hints switch to method keys.
func (p Palette) matches() []string {
	value := strings.ToLower(strings.TrimLeft(p.input.Value(), " "))
	var out []string
	if rest, ok := strings.CutPrefix(value, "dose:add "); ok && !strings.Contains(rest, " ") {
		for _, key := range p.methods {
			if strings.HasPrefix(key, rest) {
				out = append(out, "dose:add "+key+" <strain> [ago]")
			}
		}
	} else {
		for _, h := range paletteHints {
			if strings.HasPrefix(h, value) {
				out = append(out, h)
			}
		}
	}
	if len(out) > maxHints {
		out = out[:maxHints]
	}
	return out
}

// complete returns the input extended up to the first placeholder of the
// only matching hint.
func (p Palette) complete() (string, bool) {
	matching := p.matches()
	if len(matching) != 1 {
		return "", false
	}
	hint := matching[0]
	if i := strings.Index(hint, " <"); i >= 0 {
		return hint[:i+1], true
	}
	return hint, true
}
