// ABOUTME: Terminal pipeline board using bubbletea
// ABOUTME: Stage-tabbed deal table with keyboard-driven stage moves
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the pipeline board.
type Model struct {
	store *store.Store

	stageIdx    int
	selectedRow int
	status      string

	width  int
	height int
}

type refreshDoneMsg struct{}

func NewModel(st *store.Store) Model {
	return Model{store: st, height: 30}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshDoneMsg:
		m.status = fmt.Sprintf("Fetched %d deals", len(m.store.Deals()))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "left", "h":
			if m.stageIdx > 0 {
				m.stageIdx--
				m.selectedRow = 0
			}
			return m, nil

		case "right", "l":
			if m.stageIdx < len(models.Stages())-1 {
				m.stageIdx++
				m.selectedRow = 0
			}
			return m, nil

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < len(m.stageDeals())-1 {
				m.selectedRow++
			}
			return m, nil

		case "r":
			if !m.store.Connected() {
				m.status = "Not connected to Zoho; demo data stays"
				return m, nil
			}
			m.status = "Refreshing..."
			st := m.store
			return m, func() tea.Msg {
				st.FetchDeals(context.Background())
				return refreshDoneMsg{}
			}

		case "1", "2", "3", "4", "5", "6", "7":
			deals := m.stageDeals()
			if m.selectedRow >= len(deals) {
				return m, nil
			}
			target := models.Stages()[int(msg.String()[0]-'1')]
			deal := deals[m.selectedRow]
			m.store.MoveDealToStage(deal.ID, target)
			m.status = fmt.Sprintf("Moved %q to %s", deal.Name, target)
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil
		}
	}

	return m, nil
}

func (m Model) stageDeals() []models.Deal {
	stage := models.Stages()[m.stageIdx]
	var out []models.Deal
	for _, d := range m.store.Deals() {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PERFORMANCY PIPELINE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderMetrics())
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("←/→ stage · ↑/↓ select · 1-7 move to stage · r refresh · q quit"))
	s.WriteString("\n")

	return s.String()
}

func (m Model) renderMetrics() string {
	snapshot := m.store.Metrics()
	return fmt.Sprintf(
		"Deals: %d (%d active)   Pipeline: %.0f   Weighted: %.0f   Won: %.0f (%d)   Conversion: %.0f%%",
		snapshot.TotalDeals,
		snapshot.ActiveDeals,
		snapshot.PipelineTotal,
		snapshot.WeightedPipeline,
		snapshot.ClosedWonValue,
		snapshot.ClosedWonCount,
		snapshot.ConversionRate,
	)
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, stage := range models.Stages() {
		label := fmt.Sprintf("%d %s", i+1, stage)
		if i == m.stageIdx {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 32},
		{Title: "Company", Width: 24},
		{Title: "Value", Width: 12},
		{Title: "Prob", Width: 6},
		{Title: "Close", Width: 12},
	}

	var rows []table.Row
	for _, d := range m.stageDeals() {
		rows = append(rows, table.Row{
			d.Name,
			d.Company,
			fmt.Sprintf("%.0f", d.Value),
			fmt.Sprintf("%d%%", d.Probability),
			d.ExpectedCloseDate,
		})
	}

	height := m.height - 12
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

// Run starts the board in the alternate screen.
func Run(st *store.Store) error {
	p := tea.NewProgram(NewModel(st), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
