package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/tui/styles"
)

// FormField describes one row of a FormModal
type FormField struct {
	Key         string
	Label       string
	Value       string
	Placeholder string
	Password    bool
	Options     []string // when set, the field cycles through options with ←/→
}

// FormModal is a multi-field text form shown over the content
type FormModal struct {
	visible bool
	title   string
	fields  []FormField
	inputs  []textinput.Model
	focus   int
	err     string
	busy    bool
}

// NewFormModal creates a hidden form modal
func NewFormModal() FormModal {
	return FormModal{}
}

// Show displays the modal with the given fields, focusing the first one
func (m *FormModal) Show(title string, fields []FormField) {
	m.visible = true
	m.title = title
	m.fields = fields
	m.err = ""
	m.busy = false
	m.focus = 0
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 80
		ti.Width = 30
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		if f.Password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		value := f.Value
		if value == "" && len(f.Options) > 0 {
			value = f.Options[0]
		}
		ti.SetValue(value)
		m.inputs[i] = ti
	}
	m.focusInput()
}

// Hide dismisses the modal
func (m *FormModal) Hide() {
	m.visible = false
	m.busy = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// IsVisible returns whether the modal is shown
func (m FormModal) IsVisible() bool {
	return m.visible
}

// SetError shows a validation or backend message under the fields and
// re-enables the form
func (m *FormModal) SetError(msg string) {
	m.err = msg
	m.busy = false
}

// SetBusy marks the form as submitted; input is ignored until SetError or Hide
func (m *FormModal) SetBusy(busy bool) {
	m.busy = busy
}

// Error returns the message currently shown
func (m FormModal) Error() string {
	return m.err
}

// Value returns the current value of the field with the given key
func (m FormModal) Value(key string) string {
	for i, f := range m.fields {
		if f.Key == key {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// Values returns every field value by key
func (m FormModal) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		out[f.Key] = m.inputs[i].Value()
	}
	return out
}

func (m *FormModal) focusInput() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *FormModal) cycleOption(delta int) {
	opts := m.fields[m.focus].Options
	current := m.inputs[m.focus].Value()
	idx := 0
	for i, o := range opts {
		if strings.EqualFold(o, current) {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(opts)) % len(opts)
	m.inputs[m.focus].SetValue(opts[idx])
}

// Update handles input events, returns (modal, cmd, submitted)
func (m FormModal) Update(msg tea.Msg) (FormModal, tea.Cmd, bool) {
	if !m.visible || m.busy || len(m.inputs) == 0 {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.focus++
				m.focusInput()
				return m, textinput.Blink, false
			}
			m.err = ""
			return m, nil, true
		case "ctrl+s":
			m.err = ""
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.inputs)
			m.focusInput()
			return m, textinput.Blink, false
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
			m.focusInput()
			return m, textinput.Blink, false
		case "left", "right":
			if len(m.fields[m.focus].Options) > 0 {
				delta := 1
				if keyMsg.String() == "left" {
					delta = -1
				}
				m.cycleOption(delta)
				return m, nil, false
			}
		}
		// option fields are not free text
		if len(m.fields[m.focus].Options) > 0 {
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

// View renders the form
func (m FormModal) View() string {
	if !m.visible {
		return ""
	}

	const labelWidth = 12
	const modalWidth = 46

	bg := lipgloss.NewStyle().Background(styles.SlateDark)
	titleStyle := bg.Foreground(styles.White).Bold(true).Width(modalWidth)
	labelStyle := bg.Foreground(styles.LightGray).Width(labelWidth)
	focusLabel := bg.Foreground(styles.ShopBlue).Bold(true).Width(labelWidth)
	rowStyle := bg.Width(modalWidth)

	rows := []string{titleStyle.Render(m.title), rowStyle.Render("")}
	for i, f := range m.fields {
		label := labelStyle.Render(f.Label)
		if i == m.focus {
			label = focusLabel.Render(f.Label)
		}
		value := m.inputs[i].View()
		if len(f.Options) > 0 {
			value = "‹ " + m.inputs[i].Value() + " ›"
		}
		rows = append(rows, rowStyle.Render(label+value))
	}

	rows = append(rows, rowStyle.Render(""))
	switch {
	case m.busy:
		rows = append(rows, rowStyle.Render(styles.DimStyle.Render("Saving...")))
	case m.err != "":
		rows = append(rows, rowStyle.Render(styles.ErrorStyle.Render(m.err)))
	default:
		rows = append(rows, rowStyle.Render(styles.DimStyle.Render("tab next · enter save · esc cancel")))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
