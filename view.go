// ABOUTME: Live graph viewer with file watching and scrolling
// ABOUTME: Recomputes component sums whenever the graph file changes on disk

package main

import (
	"fmt"
	"time"

	"graphsum/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

// viewModel holds the state for the live graph viewer
type viewModel struct {
	graphPath   string
	workers     int
	result      *Result
	viewport    viewport.Model
	width       int
	height      int
	fileWatcher *fsnotify.Watcher
	lastReload  time.Time
	errorMsg    string
	ready       bool
	cursorPos   int // Currently selected node index
}

// Key bindings for view mode
type viewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var viewKeys = viewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "go to top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "go to bottom"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles for view mode
var (
	viewTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	viewHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	viewStatusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	viewHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	viewErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	viewCursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Bold(true)
)

// fileChangeMsg is sent when the graph file changes
type fileChangeMsg struct{}

// recomputeCompleteMsg is sent after a recomputation completes
type recomputeCompleteMsg struct {
	result *Result
	err    error
}

// RunViewMode starts the live view mode with file watching
func RunViewMode(graphPath string) error {
	cfg, _ := config.LoadConfig(config.GetConfigPath())
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultConfig().Workers
	}

	result, err := computeResult(graphPath, cfg.Workers)
	if err != nil {
		return err
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Add graph file to watcher
	if err := watcher.Add(graphPath); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch graph file: %w", err)
	}

	// Create model
	m := viewModel{
		graphPath:   graphPath,
		workers:     cfg.Workers,
		result:      result,
		fileWatcher: watcher,
		lastReload:  time.Now(),
	}

	// Run program
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		watcher.Close()
		return fmt.Errorf("view mode error: %w", err)
	}

	// Cleanup
	watcher.Close()
	return nil
}

// computeResult loads the graph and sums every component
func computeResult(path string, workers int) (*Result, error) {
	g, err := LoadGraphForMode(GraphOptions{Path: path, Verbose: false})
	if err != nil {
		return nil, err
	}

	tr := NewTraversal(g, nil)
	tr.SumAll(workers)

	return tr.Result(), nil
}

// Init initializes the view model
func (m viewModel) Init() tea.Cmd {
	return tea.Batch(
		waitForFileChange(m.fileWatcher),
		tea.EnterAltScreen,
	)
}

// waitForFileChange returns a command that waits for file system events
func waitForFileChange(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				// Only react to write events
				if event.Op&fsnotify.Write == fsnotify.Write {
					// Debounce: wait a bit for atomic writes to complete
					time.Sleep(100 * time.Millisecond)
					return fileChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// recompute reloads the graph and re-runs the traversal in the background
func recompute(path string, workers int) tea.Cmd {
	return func() tea.Msg {
		result, err := computeResult(path, workers)
		if err != nil {
			return recomputeCompleteMsg{err: err}
		}

		return recomputeCompleteMsg{result: result}
	}
}

// ensureCursorVisible scrolls viewport to keep cursor in view
func (m *viewModel) ensureCursorVisible() {
	// Get viewport bounds
	viewportTop := m.viewport.YOffset
	viewportBottom := m.viewport.YOffset + m.viewport.Height - 1

	// Scroll if cursor is out of view
	if m.cursorPos < viewportTop {
		m.viewport.SetYOffset(m.cursorPos)
	} else if m.cursorPos > viewportBottom {
		m.viewport.SetYOffset(m.cursorPos - m.viewport.Height + 1)
	}
}

// Update handles messages and updates the model
func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title + header row + separator
		footerHeight := 2 // Status + help

		if !m.ready {
			// Initialize viewport on first size message
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.renderNodeContent())
			m.ready = true
		} else {
			// Update viewport size
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}

		return m, nil

	case fileChangeMsg:
		// File changed, recompute the sums
		return m, tea.Batch(
			recompute(m.graphPath, m.workers),
			waitForFileChange(m.fileWatcher), // Continue watching
		)

	case recomputeCompleteMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Error reloading: %v", msg.err)
		} else {
			m.result = msg.result
			m.lastReload = time.Now()
			m.errorMsg = ""

			if m.cursorPos >= len(m.result.Values) && len(m.result.Values) > 0 {
				m.cursorPos = len(m.result.Values) - 1
			}

			// Update viewport content
			m.viewport.SetContent(m.renderNodeContent())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, viewKeys.Up):
			if m.cursorPos > 0 {
				m.cursorPos--
				m.ensureCursorVisible()
				m.viewport.SetContent(m.renderNodeContent())
			}

		case key.Matches(msg, viewKeys.Down):
			if m.cursorPos < len(m.result.Values)-1 {
				m.cursorPos++
				m.ensureCursorVisible()
				m.viewport.SetContent(m.renderNodeContent())
			}

		case key.Matches(msg, viewKeys.PageUp):
			m.cursorPos -= m.viewport.Height
			if m.cursorPos < 0 {
				m.cursorPos = 0
			}
			m.ensureCursorVisible()
			m.viewport.SetContent(m.renderNodeContent())

		case key.Matches(msg, viewKeys.PageDown):
			m.cursorPos += m.viewport.Height
			if m.cursorPos >= len(m.result.Values) {
				m.cursorPos = len(m.result.Values) - 1
			}
			if m.cursorPos < 0 {
				m.cursorPos = 0
			}
			m.ensureCursorVisible()
			m.viewport.SetContent(m.renderNodeContent())

		case key.Matches(msg, viewKeys.Top):
			m.cursorPos = 0
			m.viewport.GotoTop()
			m.viewport.SetContent(m.renderNodeContent())

		case key.Matches(msg, viewKeys.Bottom):
			if len(m.result.Values) > 0 {
				m.cursorPos = len(m.result.Values) - 1
			}
			m.viewport.GotoBottom()
			m.viewport.SetContent(m.renderNodeContent())

		case key.Matches(msg, viewKeys.Reload):
			return m, recompute(m.graphPath, m.workers)
		}
	}

	// Update viewport
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the view
func (m viewModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Title
	title := viewTitleStyle.Render(fmt.Sprintf("Graph Viewer: %s", m.graphPath))

	// Header row
	header := viewHeaderStyle.Render(fmt.Sprintf("%-6s %-10s %-10s %-14s",
		"#", "Value", "Component", "Component Sum"))

	// Viewport with node rows
	viewportContent := m.viewport.View()

	// Status bar
	status := m.renderStatus()

	// Help text
	help := m.renderHelp()

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", title, header, viewportContent, status, help)
}

// renderNodeContent renders the full node table for the viewport
func (m viewModel) renderNodeContent() string {
	var content string

	for id, value := range m.result.Values {
		component := "-"
		componentSum := "-"

		if c := m.result.Component[id]; c >= 0 {
			component = fmt.Sprintf("%d", c)
			componentSum = fmt.Sprintf("%d", m.result.Sums[c])
		}

		line := fmt.Sprintf("%-6d %-10d %-10s %-14s", id, value, component, componentSum)

		// Highlight cursor line
		if id == m.cursorPos {
			line = viewCursorStyle.Render(line)
		}

		if id < len(m.result.Values)-1 {
			content += line + "\n"
		} else {
			content += line // No trailing newline on last node
		}
	}

	return content
}

// renderStatus renders the status bar
func (m viewModel) renderStatus() string {
	reloadTime := m.lastReload.Format("15:04:05")

	var statusText string
	if m.errorMsg != "" {
		statusText = fmt.Sprintf("%d nodes | %d components | total %d | %s",
			len(m.result.Values),
			len(m.result.Sums),
			m.result.Total,
			viewErrorStyle.Render(m.errorMsg),
		)
	} else {
		statusText = fmt.Sprintf("%d nodes | %d components | total %d | Last reload: %s",
			len(m.result.Values),
			len(m.result.Sums),
			m.result.Total,
			reloadTime,
		)
	}

	return viewStatusStyle.Width(m.width).Render(statusText)
}

// renderHelp renders the help text
func (m viewModel) renderHelp() string {
	return viewHelpStyle.Render("↑/↓: move cursor | pgup/pgdn: page | g/G: top/bottom | r: reload | q: quit")
}
