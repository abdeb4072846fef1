package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/f3rmion/sbq/internal/report"
)

// Results view styles
var (
	resTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 2)

	resTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	resPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	resCharStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	resGlyphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	resPinyinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Italic(true)

	resMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	resStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	resErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)
)

const (
	panelWidth = 30
	glyphCols  = 24
	glyphRows  = 12
)

// GlyphRenderer draws a character as block art.
type GlyphRenderer interface {
	Render(ch rune, cols, rows int) string
}

// Copier writes text to the clipboard.
type Copier interface {
	Write(text string) error
}

// CopiedMsg reports a finished clipboard copy.
type CopiedMsg struct {
	Count int
	Err   error
}

// ResultsDeps are the collaborators of the results view. Any may be nil
// except Renderer.
type ResultsDeps struct {
	Renderer  *report.Renderer
	Readings  report.ReadingSource
	Glosses   report.GlossSource
	Glyphs    GlyphRenderer
	Clipboard Copier
}

// ResultsModel browses a finished analysis scope by scope.
type ResultsModel struct {
	deps   ResultsDeps
	res    *coverage.Result
	scopes []*coverage.Scope
	saved  string

	tab    int
	oov    []coverage.FreqEntry
	cursor int

	viewport viewport.Model
	status   string
	err      error

	width  int
	height int
}

// NewResultsModel creates the view, opening on the primary scope. saved is
// the report path, shown when non-empty.
func NewResultsModel(res *coverage.Result, saved string, deps ResultsDeps) ResultsModel {
	m := ResultsModel{
		deps:     deps,
		res:      res,
		scopes:   res.Scopes(),
		saved:    saved,
		viewport: viewport.New(60, 20),
	}
	if p := res.Primary(); p != nil {
		for i, sc := range m.scopes {
			if sc == p {
				m.tab = i
			}
		}
	}
	m.selectScope(m.tab)
	return m
}

// SetSize updates the view dimensions.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-panelWidth-4, 20)
	m.viewport.Height = max(height-6, 5)
}

// Scope returns the scope on screen, or nil when there are none.
func (m ResultsModel) Scope() *coverage.Scope {
	if len(m.scopes) == 0 {
		return nil
	}
	return m.scopes[m.tab]
}

// Current returns the OOV character under the cursor.
func (m ResultsModel) Current() (coverage.FreqEntry, bool) {
	if len(m.oov) == 0 {
		return coverage.FreqEntry{}, false
	}
	return m.oov[m.cursor], true
}

func (m *ResultsModel) selectScope(i int) {
	header := m.deps.Renderer.HeaderText(m.res)
	if len(m.scopes) == 0 {
		m.oov = nil
		m.viewport.SetContent(header)
		return
	}

	m.tab = (i + len(m.scopes)) % len(m.scopes)
	sc := m.scopes[m.tab]
	m.oov = sc.OOV.Sorted()
	m.cursor = 0
	m.viewport.SetContent(header + "\n\n" + m.deps.Renderer.ScopeText(m.res, sc))
	m.viewport.GotoTop()
}

// Update handles messages.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CopiedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = fmt.Sprintf("Copied %d unknown characters", msg.Count)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "]":
			m.selectScope(m.tab + 1)
			return m, nil
		case "shift+tab", "[":
			m.selectScope(m.tab - 1)
			return m, nil
		case "right", "l":
			if m.cursor < len(m.oov)-1 {
				m.cursor++
			}
			return m, nil
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "c":
			return m, m.copyOOV()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ResultsModel) copyOOV() tea.Cmd {
	sc := m.Scope()
	if sc == nil || m.deps.Clipboard == nil {
		return nil
	}
	text := report.UniqueOOV(sc)
	clip := m.deps.Clipboard
	return func() tea.Msg {
		return CopiedMsg{Count: len([]rune(text)), Err: clip.Write(text)}
	}
}

// View renders the results.
func (m ResultsModel) View() string {
	var b strings.Builder

	var tabs []string
	for i, sc := range m.scopes {
		style := resTabStyle
		if i == m.tab {
			style = resTabActiveStyle
		}
		label := sc.Name
		if sc.Kind == coverage.ScopeUnion {
			label = "union"
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s %.1f%%", label, sc.OccurrenceCoverage())))
	}
	if len(tabs) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderPanel()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(resErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(resStatusStyle.Render(m.status))
		b.WriteString("\n")
	case m.saved != "":
		b.WriteString(resMutedStyle.Render("Report saved to " + m.saved))
		b.WriteString("\n")
	}

	b.WriteString(resMutedStyle.Render("tab: scope • ←/→: unknown chars • j/k: scroll • c: copy OOV • n: new • q: quit"))
	return b.String()
}

func (m ResultsModel) renderPanel() string {
	e, ok := m.Current()
	if !ok {
		return resPanelStyle.Width(panelWidth).Render(resMutedStyle.Render("No unknown characters"))
	}

	var b strings.Builder
	b.WriteString(resMutedStyle.Render(fmt.Sprintf("Unknown %d/%d", m.cursor+1, len(m.oov))))
	b.WriteString("\n\n")

	if m.deps.Glyphs != nil {
		if art := m.deps.Glyphs.Render(e.Char, glyphCols, glyphRows); art != "" {
			b.WriteString(resGlyphStyle.Render(art))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(resCharStyle.Render(string(e.Char)))
	b.WriteString("  ")
	b.WriteString(resMutedStyle.Render(fmt.Sprintf("×%d  %s", e.Count, report.CodePoint(e.Char))))
	b.WriteString("\n")
	if m.deps.Readings != nil {
		if reading := m.deps.Readings.Reading(e.Char); reading != "" {
			b.WriteString(resPinyinStyle.Render(reading))
			b.WriteString("\n")
		}
	}
	if m.deps.Glosses != nil {
		if def := m.deps.Glosses.Definition(e.Char); def != "" {
			b.WriteString(lipgloss.NewStyle().Width(panelWidth - 2).Render(def))
			b.WriteString("\n")
		}
	}
	b.WriteString(resMutedStyle.Render(report.UnicodeName(e.Char)))

	return resPanelStyle.Width(panelWidth).Render(b.String())
}
