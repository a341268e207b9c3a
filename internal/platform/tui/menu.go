package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/registry"
	"github.com/vovakirdan/ecuations-d/internal/storage"
)

// MenuItem represents a selectable mission in the menu.
type MenuItem struct {
	MissionID string
	Title     string
	Best      string // formatted best run, empty if never completed
}

// MenuModel is the Bubble Tea model for the mission picker.
type MenuModel struct {
	items         []MenuItem
	cursor        int
	width         int
	height        int
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	quitting      bool
	selected      *MenuItem
	openSummaries bool
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewMenuModel creates a menu over the registered missions. store may be nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	missions := registry.List()
	items := make([]MenuItem, 0, len(missions))

	for _, g := range missions {
		item := MenuItem{MissionID: g.ID, Title: g.Title}
		if store != nil {
			if best, ok, err := store.Best(g.ID); err == nil && ok {
				item.Best = fmt.Sprintf("best: %d eq, %d coins", best.EquationsSolved, best.Coins)
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionSummaries:
		m.openSummaries = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("E C U A C I O N E S - D"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a mission", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No missions available."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("%2d. %s", i+1, item.Title)
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		if item.Best != "" {
			line += "  " + menuDimStyle.Render(item.Best)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Summaries  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsSummaries returns true if user asked for the summaries table.
func (m MenuModel) WantsSummaries() bool {
	return m.openSummaries
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	MissionID      string
	Config         core.RuntimeConfig
	WantsSummaries bool
	Quit           bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsSummaries():
		result.WantsSummaries = true
	case m.Selected() != nil:
		result.MissionID = m.Selected().MissionID
	default:
		result.Quit = true
	}

	return result, nil
}

// NotFoundModel blocks on a missing mission until the player backs out or quits.
type NotFoundModel struct {
	missionID string
	width     int
	height    int
	keyMapper *KeyMapper
	back      bool
	quitting  bool
}

// NewNotFoundModel creates the screen for an unknown mission id.
func NewNotFoundModel(missionID string, cfg core.RuntimeConfig) NotFoundModel {
	return NotFoundModel{
		missionID: missionID,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		keyMapper: NewKeyMapper(),
	}
}

// Init implements tea.Model.
func (m NotFoundModel) Init() tea.Cmd {
	return nil
}

// Update accepts only back and quit.
func (m NotFoundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionBack:
			m.back = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the message centered on screen.
func (m NotFoundModel) View() string {
	if m.quitting || m.back {
		return ""
	}
	screen := core.NewScreen(m.width, m.height)
	mid := m.height / 2
	screen.DrawTextCentered(mid-1, "MISSION NOT FOUND", core.ColorBrightRed)
	screen.DrawTextCentered(mid+1, fmt.Sprintf("%q is not a known mission", m.missionID), core.ColorWhite)
	screen.DrawTextCentered(mid+3, "B/Esc: Back  |  Q: Quit", core.ColorGray)
	return RenderScreen(screen)
}

// BackToMenu returns true if user pressed back.
func (m NotFoundModel) BackToMenu() bool {
	return m.back
}

// RunNotFound shows the not-found screen. Returns true if user wants the menu.
func RunNotFound(missionID string, cfg core.RuntimeConfig) (goBack bool, err error) {
	p := tea.NewProgram(NewNotFoundModel(missionID, cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(NotFoundModel)
	return ok && m.BackToMenu(), nil
}
