package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form styles
var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true).
			Width(14)

	formLabelActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffe66d")).
				Bold(true).
				Width(14)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	formHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)
)

// Field identifies one form row.
type Field int

const (
	FieldInventories Field = iota
	FieldInput
	FieldOutput
	FieldUnion
	FieldPerLine
	FieldTopN
	FieldBottomN
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Inventories",
	"Text file",
	"Report file",
	"Union",
	"Per-line",
	"Top N",
	"Bottom N",
}

var fieldHints = [fieldCount]string{
	"comma-separated .txt or deck.apkg[#Field][@Deck]",
	"UTF-8 text to analyse",
	"leave empty to skip saving",
	"space to toggle",
	"space to toggle",
	"most frequent unknown characters",
	"least frequent unknown characters",
}

// IsPath reports whether f holds a file path the picker can fill in.
func (f Field) IsPath() bool {
	return f == FieldInventories || f == FieldInput || f == FieldOutput
}

func (f Field) isToggle() bool {
	return f == FieldUnion || f == FieldPerLine
}

// FormValues are the wizard answers.
type FormValues struct {
	Inventories string
	Input       string
	Output      string
	Union       bool
	PerLine     bool
	TopN        int
	BottomN     int
}

// SubmitMsg is sent when the form validates.
type SubmitMsg struct {
	Values FormValues
}

// PickFileMsg asks for the file picker to fill in a path field.
type PickFileMsg struct {
	Field Field
}

// FormModel is the analysis wizard.
type FormModel struct {
	inputs  [fieldCount]textinput.Model
	toggles [fieldCount]bool
	focus   Field
	err     error

	width  int
	height int
}

// NewFormModel creates the form prefilled with defaults.
func NewFormModel(defaults FormValues) FormModel {
	var m FormModel
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 1024
		ti.Width = 50
		m.inputs[i] = ti
	}
	m.inputs[FieldInventories].SetValue(defaults.Inventories)
	m.inputs[FieldInput].SetValue(defaults.Input)
	m.inputs[FieldOutput].SetValue(defaults.Output)
	m.inputs[FieldTopN].SetValue(strconv.Itoa(defaults.TopN))
	m.inputs[FieldBottomN].SetValue(strconv.Itoa(defaults.BottomN))
	m.toggles[FieldUnion] = defaults.Union
	m.toggles[FieldPerLine] = defaults.PerLine
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.inputs[FieldInventories].Focus()
	return m
}

// SetSize updates the view dimensions.
func (m *FormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(min(width-20, 60), 10)
	}
}

// SetError shows err under the form; nil clears it.
func (m *FormModel) SetError(err error) {
	m.err = err
}

// Focused returns the focused field.
func (m FormModel) Focused() Field {
	return m.focus
}

// SetPath fills a path field. Inventories accumulate; other fields are
// replaced.
func (m *FormModel) SetPath(f Field, path string) {
	if !f.IsPath() {
		return
	}
	if f == FieldInventories {
		if cur := strings.TrimSpace(m.inputs[f].Value()); cur != "" {
			path = cur + ", " + path
		}
	}
	m.inputs[f].SetValue(path)
	m.inputs[f].CursorEnd()
}

func (m *FormModel) setFocus(f Field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (f + fieldCount) % fieldCount
	if m.focus.isToggle() {
		return nil
	}
	return m.inputs[m.focus].Focus()
}

// Update handles messages.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			values, err := m.Values()
			m.err = err
			if err != nil {
				return m, nil
			}
			return m, func() tea.Msg { return SubmitMsg{Values: values} }
		case "ctrl+o":
			if m.focus.IsPath() {
				f := m.focus
				return m, func() tea.Msg { return PickFileMsg{Field: f} }
			}
			return m, nil
		case " ":
			if m.focus.isToggle() {
				m.toggles[m.focus] = !m.toggles[m.focus]
				return m, nil
			}
		}
		if m.focus.isToggle() {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Values validates the form.
func (m FormModel) Values() (FormValues, error) {
	v := FormValues{
		Inventories: strings.TrimSpace(m.inputs[FieldInventories].Value()),
		Input:       strings.TrimSpace(m.inputs[FieldInput].Value()),
		Output:      strings.TrimSpace(m.inputs[FieldOutput].Value()),
		Union:       m.toggles[FieldUnion],
		PerLine:     m.toggles[FieldPerLine],
	}
	if v.Input == "" {
		return v, errors.New("a text file is required")
	}

	var err error
	if v.TopN, err = positive(m.inputs[FieldTopN].Value(), "Top N"); err != nil {
		return v, err
	}
	if v.BottomN, err = positive(m.inputs[FieldBottomN].Value(), "Bottom N"); err != nil {
		return v, err
	}
	return v, nil
}

func positive(s, label string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive whole number, got %q", label, s)
	}
	return n, nil
}

// View renders the form.
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(formTitleStyle.Render("Coverage Analysis"))
	b.WriteString("\n")

	for f := Field(0); f < fieldCount; f++ {
		label := formLabelStyle
		if f == m.focus {
			label = formLabelActiveStyle
		}
		b.WriteString(label.Render(fieldLabels[f]))

		if f.isToggle() {
			box := "[ ]"
			if m.toggles[f] {
				box = "[x]"
			}
			if f == m.focus {
				box = "› " + box
			} else {
				box = "  " + box
			}
			b.WriteString(box)
		} else {
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", 14))
		b.WriteString(formHintStyle.Render(fieldHints[f]))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(formHelpStyle.Render("tab/↑↓: move • space: toggle • ctrl+o: pick file • enter: analyse • esc: quit"))
	return b.String()
}
