package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/f3rmion/sbq/internal/inventory"
	"github.com/f3rmion/sbq/internal/pipeline"
	"github.com/f3rmion/sbq/internal/report"
	"github.com/f3rmion/sbq/internal/tui/views"
)

// state is the screen on display.
type state int

const (
	stateForm state = iota
	statePicker
	stateRunning
	stateResults
)

// AnalysisDoneMsg carries a finished analysis back to the app.
type AnalysisDoneMsg struct {
	Outcome *pipeline.Outcome
	Saved   string // report path, empty when not saved
	Err     error
}

// Options configure the app.
type Options struct {
	Defaults views.FormValues
	Analysis coverage.Options // base options; the form sets union, per-line and the list sizes
	Format   string           // format of the saved report

	Readings  report.ReadingSource
	Glosses   report.GlossSource
	Glyphs    views.GlyphRenderer
	Clipboard views.Copier
}

// AppModel is the wizard: a form, a file picker, then the results browser.
type AppModel struct {
	opts     Options
	renderer *report.Renderer

	state    state
	form     views.FormModel
	picker   views.FilePickerModel
	results  views.ResultsModel
	showHelp bool

	width  int
	height int
	ready  bool
}

// NewApp creates the wizard.
func NewApp(opts Options) AppModel {
	return AppModel{
		opts:     opts,
		renderer: report.NewRenderer(opts.Readings, opts.Glosses),
		form:     views.NewFormModel(opts.Defaults),
	}
}

// Run starts the wizard on the terminal.
func Run(m AppModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.form.SetSize(m.contentWidth(), m.contentHeight())
		m.picker.SetSize(m.contentWidth(), m.contentHeight())
		m.results.SetSize(m.contentWidth(), m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == stateForm {
				return m, tea.Quit
			}
			if m.state == stateResults {
				m.state = stateForm
				return m, nil
			}
		}
		if m.state == stateResults || m.state == stateRunning {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "n":
				if m.state == stateResults {
					m.state = stateForm
					m.form.SetError(nil)
					return m, nil
				}
			}
		}

	case views.SubmitMsg:
		m.state = stateRunning
		m.form.SetError(nil)
		return m, m.analyze(msg.Values)

	case AnalysisDoneMsg:
		if msg.Err != nil {
			m.state = stateForm
			m.form.SetError(msg.Err)
			return m, nil
		}
		m.results = views.NewResultsModel(msg.Outcome.Result, msg.Saved, views.ResultsDeps{
			Renderer:  m.renderer,
			Readings:  m.opts.Readings,
			Glosses:   m.opts.Glosses,
			Glyphs:    m.opts.Glyphs,
			Clipboard: m.opts.Clipboard,
		})
		m.results.SetSize(m.contentWidth(), m.contentHeight())
		m.state = stateResults
		return m, nil

	case views.PickFileMsg:
		m.picker = views.NewFilePickerModel(msg.Field, "")
		m.picker.SetSize(m.contentWidth(), m.contentHeight())
		m.state = statePicker
		return m, nil

	case views.FileSelectedMsg:
		m.form.SetPath(msg.Field, msg.Path)
		m.state = stateForm
		return m, nil

	case views.PickerCancelledMsg:
		m.state = stateForm
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateForm:
		m.form, cmd = m.form.Update(msg)
	case statePicker:
		m.picker, cmd = m.picker.Update(msg)
	case stateResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// analyze runs the analysis off the UI goroutine and saves the report when
// an output path is set.
func (m AppModel) analyze(v views.FormValues) tea.Cmd {
	opts := m.opts.Analysis
	opts.Union = v.Union
	opts.PerLine = v.PerLine
	opts.TopN = v.TopN
	opts.BottomN = v.BottomN
	renderer := m.renderer
	format := m.opts.Format

	return func() tea.Msg {
		sources, err := inventory.ParseAll([]string{v.Inventories})
		if err != nil {
			return AnalysisDoneMsg{Err: err}
		}
		text, err := pipeline.ReadInput(v.Input, strings.NewReader(""))
		if err != nil {
			return AnalysisDoneMsg{Err: err}
		}
		out, err := pipeline.Run(pipeline.Request{Sources: sources, Text: text, Options: opts})
		if err != nil {
			return AnalysisDoneMsg{Err: err}
		}

		done := AnalysisDoneMsg{Outcome: out}
		if v.Output != "" {
			var buf bytes.Buffer
			if err := renderer.Render(&buf, out.Result, format); err != nil {
				return AnalysisDoneMsg{Err: err}
			}
			if err := report.Save(v.Output, buf.String()); err != nil {
				return AnalysisDoneMsg{Err: err}
			}
			done.Saved = v.Output
		}
		return done
	}
}

func (m AppModel) contentWidth() int  { return max(m.width-4, 20) }
func (m AppModel) contentHeight() int { return max(m.height-4, 10) }

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.state {
	case stateForm:
		content = m.form.View()
	case statePicker:
		content = m.picker.View()
	case stateRunning:
		content = LoadingStyle.Render("Analysing…")
	case stateResults:
		content = m.results.View()
	}

	title := TitleStyle.Render(" 字 sbq ") + " " + SubtitleStyle.Render("Chinese text coverage")
	return ContentStyle.
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + desc + "\n"
	}

	text := TitleStyle.Render("sbq keys") + "\n"
	text += HelpSectionStyle.Render("Form") + "\n"
	text += row("tab/↑↓", "Move between fields")
	text += row("space", "Toggle union or per-line")
	text += row("ctrl+o", "Pick a file")
	text += row("enter", "Run the analysis")
	text += HelpSectionStyle.Render("Results") + "\n"
	text += row("tab", "Next scope")
	text += row("←/→", "Browse unknown characters")
	text += row("j/k", "Scroll the report")
	text += row("c", "Copy unknown characters")
	text += row("n", "New analysis")
	text += row("q", "Quit")
	text += "\n" + HelpStyle.Italic(true).Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(text))
}
