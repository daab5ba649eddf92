// Package picker is the full-screen alternative to the numeric selection
// prompt.
package picker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"findopen/internal/search"
)

const defaultHeight = 10

// Styles for the picker
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#44475A")).
			Foreground(lipgloss.Color("#F8F8F2")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true)
)

type row struct {
	match search.Match
	size  int64
	known bool
}

type model struct {
	title    string
	rows     []row
	cursor   int
	viewport struct {
		width  int
		height int
		offset int
	}
	showHelp bool
	chosen   bool
	quitting bool
}

func newModel(title string, matches search.MatchSet) model {
	m := model{title: title}
	m.viewport.height = defaultHeight
	for _, match := range matches {
		r := row{match: match}
		if info, err := os.Stat(match.Path); err == nil {
			r.size = info.Size()
			r.known = true
		}
		m.rows = append(m.rows, r)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.width = msg.Width
		m.viewport.height = max(msg.Height-6, 1) // title, blank, status and footer lines
		m.adjustViewport()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if len(m.rows) > 0 {
			m.chosen = true
			return m, tea.Quit
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case "home", "g":
		m.cursor = 0
		m.viewport.offset = 0

	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
		m.adjustViewport()

	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) adjustViewport() {
	if m.cursor < m.viewport.offset {
		m.viewport.offset = m.cursor
	} else if m.cursor >= m.viewport.offset+m.viewport.height {
		m.viewport.offset = m.cursor - m.viewport.height + 1
	}
}

func (m model) View() string {
	if m.chosen || m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
		return b.String()
	}

	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderRows() string {
	var b strings.Builder

	start := m.viewport.offset
	end := min(start+m.viewport.height, len(m.rows))

	for i := start; i < end; i++ {
		r := m.rows[i]
		parent := filepath.Base(r.match.Dir()) + string(filepath.Separator)

		prefix := fmt.Sprintf("%d: %s", i, parent)
		name := r.match.Name
		if r.known {
			name += fmt.Sprintf(" (%s)", formatSize(r.size))
		}

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + prefix + name))
		} else {
			b.WriteString("  ")
			b.WriteString(dirStyle.Render(prefix))
			b.WriteString(fileStyle.Render(name))
		}
		b.WriteString("\n")
	}

	if len(m.rows) > m.viewport.height {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("Showing %d-%d of %d matches", start+1, end, len(m.rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderHelp() string {
	help := `
  ↑/k           Move up
  ↓/j           Move down
  g/Home        Go to first match
  G/End         Go to last match
  Enter         Open the selected file
  h/?           Toggle this help
  q/Esc/Ctrl+C  Cancel
`
	return helpStyle.Render(help)
}

func (m model) renderFooter() string {
	return helpStyle.Render("↑↓:navigate | Enter:open | h:help | q:cancel")
}

// Run shows matches full screen and returns the chosen index. ok is false
// when the user cancelled.
func Run(ctx context.Context, title string, matches search.MatchSet, in io.Reader, out io.Writer) (index int, ok bool, err error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	// bubbletea only switches the terminal to raw mode for its default input.
	if in != nil && in != io.Reader(os.Stdin) {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil && out != io.Writer(os.Stdout) {
		opts = append(opts, tea.WithOutput(out))
	}

	p := tea.NewProgram(newModel(title, matches), opts...)
	final, err := p.Run()
	if err != nil {
		return 0, false, fmt.Errorf("run picker: %w", err)
	}
	m := final.(model)
	if !m.chosen {
		return 0, false, nil
	}
	return m.cursor, true, nil
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
