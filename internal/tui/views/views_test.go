package views

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/f3rmion/sbq/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func defaults() FormValues {
	return FormValues{
		Inventories: "inventory_traditional.txt",
		Input:       "my_text.txt",
		Output:      "coverage_report.txt",
		TopN:        15,
		BottomN:     15,
	}
}

func TestFormDefaults(t *testing.T) {
	m := NewFormModel(defaults())
	v, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, defaults(), v)
	assert.Equal(t, FieldInventories, m.Focused())
	assert.Contains(t, m.View(), "Coverage Analysis")
}

func TestFormNavigationAndToggle(t *testing.T) {
	m := NewFormModel(defaults())

	m, _ = m.Update(key("shift+tab"))
	assert.Equal(t, FieldBottomN, m.Focused(), "wraps backwards")
	m, _ = m.Update(key("tab"))
	assert.Equal(t, FieldInventories, m.Focused())

	for range FieldUnion {
		m, _ = m.Update(key("tab"))
	}
	require.Equal(t, FieldUnion, m.Focused())
	m, _ = m.Update(key("space"))
	m, _ = m.Update(key("x"))

	v, err := m.Values()
	require.NoError(t, err)
	assert.True(t, v.Union)
	assert.False(t, v.PerLine)
	assert.Equal(t, "inventory_traditional.txt", v.Inventories, "toggles swallow typing")
}

func TestFormTyping(t *testing.T) {
	m := NewFormModel(defaults())
	m, _ = m.Update(key(",霸.txt"))
	v, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, "inventory_traditional.txt,霸.txt", v.Inventories)
}

func TestFormSubmit(t *testing.T) {
	m := NewFormModel(defaults())
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, defaults(), msg.Values)
}

func TestFormValidation(t *testing.T) {
	d := defaults()
	d.Input = ""
	m := NewFormModel(d)
	m, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "a text file is required")

	d = defaults()
	d.TopN = 0
	_, err := NewFormModel(d).Values()
	assert.ErrorContains(t, err, "Top N must be a positive whole number")
}

func TestFormPickFile(t *testing.T) {
	m := NewFormModel(defaults())
	_, cmd := m.Update(key("ctrl+o"))
	require.NotNil(t, cmd)
	assert.Equal(t, PickFileMsg{Field: FieldInventories}, cmd())

	m.SetPath(FieldInventories, "deck.apkg")
	m.SetPath(FieldInput, "a.txt")
	m.SetPath(FieldInput, "b.txt")
	m.SetPath(FieldUnion, "ignored")
	v, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, "inventory_traditional.txt, deck.apkg", v.Inventories)
	assert.Equal(t, "b.txt", v.Input)
}

func TestFilePicker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Decks"), 0755))
	for _, name := range []string{"b.txt", "A.apkg", "notes.pdf", ".hidden.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	m := NewFilePickerModel(FieldInventories, dir)
	var names []string
	for _, e := range m.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"..", "Decks", "A.apkg", "b.txt"}, names)

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("enter"))
	assert.Equal(t, filepath.Join(dir, "Decks"), m.Dir())

	m, _ = m.Update(key("backspace"))
	assert.Equal(t, dir, m.Dir())
	m, _ = m.Update(key("G"))
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, FileSelectedMsg{Field: FieldInventories, Path: filepath.Join(dir, "b.txt")}, cmd())

	_, cmd = m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, PickerCancelledMsg{}, cmd())
	assert.Contains(t, m.View(), "Select Inventories (.txt, .apkg)")
}

type fakeGlyphs struct{}

func (fakeGlyphs) Render(ch rune, cols, rows int) string { return "[" + string(ch) + "]" }

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Write(text string) error {
	f.text = text
	return f.err
}

func results(t *testing.T, clip Copier) ResultsModel {
	t.Helper()
	opts := coverage.DefaultOptions()
	opts.Union = true
	res, err := coverage.Analyze(coverage.SplitLines("人之初，性本善。性相近"), []*coverage.Inventory{
		coverage.NewInventory("A", "人之初"),
		coverage.NewInventory("B", "性本"),
	}, opts)
	require.NoError(t, err)
	return NewResultsModel(res, "coverage_report.txt", ResultsDeps{
		Renderer:  report.NewRenderer(nil, nil),
		Glyphs:    fakeGlyphs{},
		Clipboard: clip,
	})
}

func TestResultsOpensOnPrimary(t *testing.T) {
	m := results(t, nil)
	require.NotNil(t, m.Scope())
	assert.Equal(t, coverage.ScopeUnion, m.Scope().Kind)

	e, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, '善', e.Char)

	view := m.View()
	assert.Contains(t, view, "[善]")
	assert.Contains(t, view, "Report saved to coverage_report.txt")
}

func TestResultsNavigation(t *testing.T) {
	m := results(t, nil)

	m, _ = m.Update(key("tab"))
	assert.Equal(t, "A", m.Scope().Name, "wraps to the first scope")
	m, _ = m.Update(key("shift+tab"))
	assert.Equal(t, coverage.UnionName, m.Scope().Name)
	m, _ = m.Update(key("shift+tab"))
	assert.Equal(t, "B", m.Scope().Name)

	first, _ := m.Current()
	m, _ = m.Update(key("left"))
	e, _ := m.Current()
	assert.Equal(t, first, e, "stops at the first")
	for range 20 {
		m, _ = m.Update(key("right"))
	}
	e, _ = m.Current()
	assert.Equal(t, m.Scope().OOV.Sorted()[m.Scope().OOV.Distinct()-1], e, "stops at the last")
}

func TestResultsCopy(t *testing.T) {
	clip := &fakeClipboard{}
	m := results(t, clip)

	_, cmd := m.Update(key("c"))
	require.NotNil(t, cmd)
	msg := cmd().(CopiedMsg)
	assert.Equal(t, "善相近", clip.text)
	assert.Equal(t, 3, msg.Count)

	m, _ = m.Update(msg)
	assert.Contains(t, m.View(), "Copied 3 unknown characters")

	m, _ = m.Update(CopiedMsg{Err: errors.New("no helper")})
	assert.Contains(t, m.View(), "Error: no helper")
}

func TestResultsNoScopes(t *testing.T) {
	res, err := coverage.Analyze(coverage.SplitLines("人"), nil, coverage.DefaultOptions())
	require.NoError(t, err)
	m := NewResultsModel(res, "", ResultsDeps{Renderer: report.NewRenderer(nil, nil)})
	assert.Nil(t, m.Scope())
	_, ok := m.Current()
	assert.False(t, ok)
	_, cmd := m.Update(key("c"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No unknown characters")
}
