package views

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileSelectedMsg is sent when a file is selected.
type FileSelectedMsg struct {
	Field Field
	Path  string
}

// PickerCancelledMsg is sent when the picker is left without a choice.
type PickerCancelledMsg struct{}

// File picker styles
var (
	fpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	fpPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			MarginBottom(1)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	fpSelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436"))

	fpHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	fpErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)
)

// FileEntry is one row of the picker.
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel is the file picker view model.
type FilePickerModel struct {
	currentDir string
	entries    []FileEntry
	selected   int
	offset     int // For scrolling

	extensions []string // Filter to these extensions
	field      Field    // form field the choice fills in

	err error

	width  int
	height int
}

// NewFilePickerModel creates a picker for field, starting in dir (the
// working directory when empty).
func NewFilePickerModel(field Field, dir string) FilePickerModel {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "/"
	}

	m := FilePickerModel{
		currentDir: dir,
		field:      field,
		extensions: extensionsFor(field),
	}
	m.loadDir()
	return m
}

// extensionsFor lists the file types offered for a field.
func extensionsFor(field Field) []string {
	switch field {
	case FieldInventories:
		return []string{".txt", ".apkg"}
	case FieldInput:
		return []string{".txt", ".md"}
	}
	return nil
}

// Dir returns the directory being listed.
func (m FilePickerModel) Dir() string {
	return m.currentDir
}

// Entries returns the listed entries.
func (m FilePickerModel) Entries() []FileEntry {
	return m.entries
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadDir lists the current directory: parent first, then directories,
// then files of the accepted types, each group by name.
func (m *FilePickerModel) loadDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.entries = append(m.entries, FileEntry{Name: "..", IsDir: true, Path: parent})
	}

	var dirs, files []FileEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fe := FileEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(m.currentDir, entry.Name()),
		}
		switch {
		case fe.IsDir:
			dirs = append(dirs, fe)
		case m.accepts(fe.Name):
			files = append(files, fe)
		}
	}

	byName := func(a, b FileEntry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) accepts(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	return slices.ContainsFunc(m.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.entries)-1 {
				m.selected++
				m.adjustScroll()
			}
			return m, nil
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.adjustScroll()
			}
			return m, nil
		case "enter", "l", "right":
			if m.selected < len(m.entries) {
				entry := m.entries[m.selected]
				if entry.IsDir {
					m.currentDir = entry.Path
					m.loadDir()
				} else {
					field := m.field
					return m, func() tea.Msg {
						return FileSelectedMsg{Field: field, Path: entry.Path}
					}
				}
			}
			return m, nil
		case "backspace", "h":
			// Go to parent directory
			parent := filepath.Dir(m.currentDir)
			if parent != m.currentDir {
				m.currentDir = parent
				m.loadDir()
			}
			return m, nil
		case "~":
			// Go to home directory
			home, _ := os.UserHomeDir()
			if home != "" {
				m.currentDir = home
				m.loadDir()
			}
			return m, nil
		case "esc":
			return m, func() tea.Msg { return PickerCancelledMsg{} }
		case "g":
			// Go to top
			m.selected = 0
			m.offset = 0
			return m, nil
		case "G":
			// Go to bottom
			m.selected = max(len(m.entries)-1, 0)
			m.adjustScroll()
			return m, nil
		case "ctrl+d":
			// Page down
			visibleHeight := m.getVisibleHeight()
			m.selected += visibleHeight / 2
			m.selected = max(min(m.selected, len(m.entries)-1), 0)
			m.adjustScroll()
			return m, nil
		case "ctrl+u":
			// Page up
			visibleHeight := m.getVisibleHeight()
			m.selected = max(m.selected-visibleHeight/2, 0)
			m.adjustScroll()
			return m, nil
		}
	}

	return m, nil
}

func (m *FilePickerModel) getVisibleHeight() int {
	return max(m.height-8, 5) // header, path and help
}

func (m *FilePickerModel) adjustScroll() {
	visibleHeight := m.getVisibleHeight()

	// Scroll up if selected is above viewport
	if m.selected < m.offset {
		m.offset = m.selected
	}

	// Scroll down if selected is below viewport
	if m.selected >= m.offset+visibleHeight {
		m.offset = m.selected - visibleHeight + 1
	}
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	// Title
	b.WriteString(fpTitleStyle.Render(m.title()))
	b.WriteString("\n")

	// Current path
	b.WriteString(fpPathStyle.Render(m.currentDir))
	b.WriteString("\n")

	// Error
	if m.err != nil {
		b.WriteString(fpErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	// Separator
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80")).Render(strings.Repeat("─", max(min(m.width-4, 60), 0))))
	b.WriteString("\n")

	// File list
	visibleHeight := m.getVisibleHeight()
	start := m.offset
	end := start + visibleHeight
	if end > len(m.entries) {
		end = len(m.entries)
	}

	if len(m.entries) == 0 {
		b.WriteString(fpHelpStyle.Render("  (no matching files found)"))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		entry := m.entries[i]

		// Icon and name
		var icon, name string
		if entry.IsDir {
			icon = "[DIR]  "
			name = entry.Name
		} else {
			icon = "[FILE] "
			name = entry.Name
		}

		line := icon + name

		// Style based on selection and type
		var style lipgloss.Style
		if i == m.selected {
			style = fpSelectedStyle
		} else if entry.IsDir {
			style = fpDirStyle
		} else {
			style = fpFileStyle
		}

		// Prefix with > for selected
		prefix := "  "
		if i == m.selected {
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	// Scrollbar indicator
	if len(m.entries) > visibleHeight {
		scrollInfo := lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(
			strings.Repeat(" ", 50) + "↕ scroll")
		b.WriteString(scrollInfo)
		b.WriteString("\n")
	}

	// Separator
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80")).Render(strings.Repeat("─", max(min(m.width-4, 60), 0))))
	b.WriteString("\n")

	// Help
	help := fpHelpStyle.Render("enter: select • backspace: parent • ~: home • esc: cancel")
	b.WriteString(help)

	return b.String()
}

func (m FilePickerModel) title() string {
	label := "Select " + fieldLabels[m.field]
	if len(m.extensions) > 0 {
		label += " (" + strings.Join(m.extensions, ", ") + ")"
	}
	return label
}
