package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ecuations-d/internal/registry"
	"github.com/vovakirdan/ecuations-d/internal/storage"
)

// Summaries screen layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the mission sidebar
	sidebarWidth       = 26  // Width of mission sidebar
	maxSummaries       = 100 // Max summaries to load per mission
)

// SummariesKeyMap defines the key bindings for the summaries screen.
type SummariesKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextMission key.Binding
	PrevMission key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SummariesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMission, k.PrevMission, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SummariesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMission, k.PrevMission},
		{k.Back, k.Quit},
	}
}

// DefaultSummariesKeyMap returns default key bindings.
func DefaultSummariesKeyMap() SummariesKeyMap {
	return SummariesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMission: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mission"),
		),
		PrevMission: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mission"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SummariesModel lists stored completion summaries per mission.
type SummariesModel struct {
	missions      []registry.GameInfo
	missionCursor int
	store         *storage.Store
	entries       []storage.SummaryEntry
	loadErr       error
	table         table.Model
	help          help.Model
	keys          SummariesKeyMap
	width         int
	height        int
	quitting      bool
	goingBack     bool
	showSidebar   bool
}

// NewSummariesModel creates the summaries screen. store may be nil.
func NewSummariesModel(store *storage.Store, width, height int) SummariesModel {
	h := help.New()
	h.ShowAll = false

	m := SummariesModel{
		missions:    registry.List(),
		store:       store,
		keys:        DefaultSummariesKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	if len(m.missions) > 0 {
		m.loadSummaries(m.missions[0].ID)
	}

	return m
}

// createTable creates a new table sized to the window.
func (m *SummariesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Eq", Width: 4},
		{Title: "Coins", Width: 6},
		{Title: "Treasures", Width: 9},
		{Title: "Lives", Width: 5},
		{Title: "Ammo", Width: 5},
	}

	height := m.height - 8
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSummaries loads the history of the given mission.
func (m *SummariesModel) loadSummaries(missionID string) {
	m.entries, m.loadErr = nil, nil
	if m.store != nil {
		m.entries, m.loadErr = m.store.History(missionID, maxSummaries)
	}
	m.updateTableRows()
}

func (m *SummariesModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			e.Timestamp.Local().Format("Jan 02 15:04"),
			fmt.Sprintf("%d", e.EquationsSolved),
			fmt.Sprintf("%d", e.Coins),
			fmt.Sprintf("%d", e.Treasures),
			fmt.Sprintf("%d", e.Lives),
			fmt.Sprintf("%d", e.Ammo),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the summaries model.
func (m SummariesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the summaries screen.
func (m SummariesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMission):
			m.moveMission(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevMission):
			m.moveMission(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *SummariesModel) moveMission(delta int) {
	n := len(m.missions)
	if n == 0 {
		return
	}
	m.missionCursor = (m.missionCursor + delta + n) % n
	m.loadSummaries(m.missions[m.missionCursor].ID)
}

// View renders the summaries screen.
func (m SummariesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "SUMMARIES"
	if len(m.missions) > 0 {
		title = fmt.Sprintf("SUMMARIES - %s", m.missions[m.missionCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := boxStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %d/%d >", m.missionCursor+1, max(len(m.missions), 1)), m.width))
		b.WriteString("\n\n")
		b.WriteString(content)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m SummariesModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Missions\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.missions {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.missionCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := []rune(g.Title)
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = append(name[:maxLen-1], '.')
		}
		sidebar.WriteString(style.Render(cursor + string(name)))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

func (m SummariesModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Summaries are not being stored.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load summaries:\n" + m.loadErr.Error())
	case len(m.entries) == 0:
		return emptyStyle.Render("No completed runs yet.\nReach the flag to record one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SummariesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SummariesModel) IsQuitting() bool {
	return m.quitting
}

// RunSummaries runs the summaries screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunSummaries(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewSummariesModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(SummariesModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
