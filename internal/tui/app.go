// Package tui provides the full-screen session browser for claude-memory.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(cli.ColorAccent)

	detailDimStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextMuted)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(cli.ColorBg).
				Background(cli.ColorAccent).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextDim).
			Padding(0, 2)
)

// sessionItem adapts a stored session to the bubbles list interface.
type sessionItem struct {
	session model.Session
}

func (i sessionItem) Title() string {
	parts := []string{i.session.StartedDate()}
	if i.session.DurationSeconds != nil {
		parts = append(parts, cli.FormatDuration(*i.session.DurationSeconds))
	}
	if i.session.GitBranch != "" {
		parts = append(parts, i.session.GitBranch)
	}
	return strings.Join(parts, " · ")
}

func (i sessionItem) Description() string {
	prompts := i.session.Prompts()
	if len(prompts) == 0 {
		return "(no prompts)"
	}
	return cli.Truncate(prompts[0], 80)
}

// FilterValue feeds the list's "/" filter: prompts plus branch and model.
func (i sessionItem) FilterValue() string {
	return strings.Join(i.session.Prompts(), " ") + " " +
		i.session.GitBranch + " " + i.session.Model
}

type sessionsLoadedMsg struct {
	sessions []model.Session
}

type loadFailedMsg struct {
	err error
}

// App is the root Bubble Tea model for the browse command.
type App struct {
	dbPath string
	limit  int

	list     list.Model
	viewport viewport.Model
	spinner  spinner.Model

	loaded     bool
	showDetail bool
	width      int
	height     int
	err        error
}

// NewApp creates the browser model for the store at dbPath. limit caps how
// many recent sessions are loaded.
func NewApp(dbPath string, limit int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(cli.ColorAccent).
		BorderLeftForeground(cli.ColorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(cli.ColorTextMuted).
		BorderLeftForeground(cli.ColorAccent)

	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = "Session Memory"
	l.Styles.Title = detailTitleStyle
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	if limit <= 0 {
		limit = 200
	}

	return App{
		dbPath:   dbPath,
		limit:    limit,
		list:     l,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, loadSessionsCmd(a.dbPath, a.limit))
}

// loadSessionsCmd opens the store read-only and lists recent sessions.
func loadSessionsCmd(dbPath string, limit int) tea.Cmd {
	return func() tea.Msg {
		st, err := store.OpenReadOnly(dbPath)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		defer func() { _ = st.Close() }()

		sessions, err := st.ListSessions(limit, "", "")
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return sessionsLoadedMsg{sessions: sessions}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width, msg.Height)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3 // title + help line
		if a.viewport.Height < 1 {
			a.viewport.Height = 1
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.showDetail {
			return a.updateDetail(msg)
		}
		return a.updateList(msg)

	case sessionsLoadedMsg:
		a.loaded = true
		items := make([]list.Item, len(msg.sessions))
		for i, s := range msg.sessions {
			items[i] = sessionItem{session: s}
		}
		return a, a.list.SetItems(items)

	case loadFailedMsg:
		a.loaded = true
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter input owns the keyboard while typing.
	if a.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "enter":
			if item, ok := a.list.SelectedItem().(sessionItem); ok {
				a.showDetail = true
				a.viewport.SetContent(renderDetail(item.session))
				a.viewport.GotoTop()
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		a.showDetail = false
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.err != nil {
		return fmt.Sprintf("\n  Could not load sessions: %v\n\n  Press q to quit.\n", a.err)
	}

	if !a.loaded {
		return fmt.Sprintf("\n  %s Loading sessions...\n", a.spinner.View())
	}

	if a.showDetail {
		return lipgloss.JoinVertical(lipgloss.Left,
			detailTitleStyle.Render("Session Detail"),
			a.viewport.View(),
			helpStyle.Render("↑/↓ scroll · esc back · ctrl+c quit"),
		)
	}

	return a.list.View()
}

// renderDetail builds the scrollable detail pane for one session.
func renderDetail(s model.Session) string {
	var b strings.Builder

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	writeField("Session:", s.ID)
	writeField("Started:", s.StartedAt)
	if s.DurationSeconds != nil {
		writeField("Duration:", cli.FormatDuration(*s.DurationSeconds))
	}
	writeField("Branch:", s.GitBranch)
	writeField("Model:", s.Model)
	if s.InputTokens > 0 || s.OutputTokens > 0 {
		writeField("Tokens:", fmt.Sprintf("%s in / %s out",
			cli.FormatTokens(s.InputTokens), cli.FormatTokens(s.OutputTokens)))
	}
	writeField("Summary:", s.Summary)

	writeSection := func(label string, entries []string) {
		if len(entries) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString("\n")
		for _, e := range entries {
			b.WriteString("  ")
			b.WriteString(e)
			b.WriteString("\n")
		}
	}

	prompts := s.Prompts()
	for i, p := range prompts {
		prompts[i] = cli.Truncate(p, 200)
	}
	writeSection("Prompts", prompts)
	writeSection("Files modified", s.ModifiedList())
	writeSection("Files read", s.ReadList())
	writeSection("Commands", s.Commands())
	writeSection("Commits", s.Commits())

	if tools := s.Tools(); len(tools) > 0 {
		type toolCount struct {
			name  string
			count int
		}
		counts := make([]toolCount, 0, len(tools))
		for name, n := range tools {
			counts = append(counts, toolCount{name, n})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})

		b.WriteString("\n")
		b.WriteString(detailLabelStyle.Render("Tool usage"))
		b.WriteString("\n")
		for _, tc := range counts {
			b.WriteString(detailDimStyle.Render(fmt.Sprintf("  %s: %d\n", tc.name, tc.count)))
		}
	}

	return b.String()
}

// Run starts the browser against the store at dbPath and blocks until the
// user quits.
func Run(dbPath string, limit int) error {
	p := tea.NewProgram(NewApp(dbPath, limit), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
