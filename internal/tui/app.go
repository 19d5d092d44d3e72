// internal/tui/app.go
//
// Interactive dashboard over a finished simulation. It uses bubbletea, which
// follows The Elm Architecture: the App model holds all state, Update reacts
// to messages, View renders a string. The dashboard is read-only - every tab
// is a table over data the simulator already computed.

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/plantbalance/internal/analytics"
	"github.com/kingrea/plantbalance/internal/model"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

// App is the dashboard model: one table per tab plus cursor state.
type App struct {
	window model.DateRange
	tabs   []string
	tables []table.Model
	active int
	width  int
	height int
}

// NewApp builds the dashboard from a simulation result, its summary, and the
// expanded hourly series.
func NewApp(result *model.SimulationResult, summary *model.Summary, series []analytics.Series, decimals int32) App {
	app := App{
		window: result.Range,
		tabs:   []string{"Daily Balance", "Production", "Cumulative", "Utilization", "Hourly Series"},
	}
	app.tables = []table.Model{
		dailyBalanceTable(result, decimals),
		productionTable(result, decimals),
		cumulativeTable(result.Plant, summary, decimals),
		utilizationTable(summary, decimals),
		seriesTable(series),
	}
	app.tables[0].Focus()
	return app
}

// Init implements tea.Model. The dashboard has no startup work.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for i := range a.tables {
			a.tables[i].SetHeight(max(5, msg.Height-6))
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "tab", "right", "l":
			a.setActive((a.active + 1) % len(a.tabs))
			return a, nil
		case "shift+tab", "left", "h":
			a.setActive((a.active - 1 + len(a.tabs)) % len(a.tabs))
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.tables[a.active], cmd = a.tables[a.active].Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	title := titleStyle.Render(fmt.Sprintf("Plant balance  %s to %s", a.window.Start, a.window.End))

	rendered := make([]string, len(a.tabs))
	for i, tab := range a.tabs {
		if i == a.active {
			rendered[i] = activeTabStyle.Render(tab)
		} else {
			rendered[i] = tabStyle.Render(tab)
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	help := helpStyle.Render("tab/shift+tab switch view - arrows scroll - q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		tabBar,
		a.tables[a.active].View(),
		help,
	)
}

func (a *App) setActive(index int) {
	a.tables[a.active].Blur()
	a.active = index
	a.tables[a.active].Focus()
}

// Run blocks until the user quits the dashboard.
func Run(result *model.SimulationResult, summary *model.Summary, series []analytics.Series, decimals int32) error {
	program := tea.NewProgram(NewApp(result, summary, series, decimals), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
