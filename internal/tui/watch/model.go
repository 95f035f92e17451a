package watch

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattjoyce/inlet/internal/message"
)

// Model is the bubbletea model for the ingestion monitor.
type Model struct {
	apiURL string
	theme  Theme

	stats   *message.Stats
	table   table.Model
	lastErr error
	width   int
}

// NewModel creates a monitor pointed at a running inlet server.
func NewModel(apiURL string) Model {
	columns := []table.Column{
		{Title: "TS", Width: 24},
		{Title: "ID", Width: 20},
		{Title: "From", Width: 14},
		{Title: "To", Width: 14},
		{Title: "Text", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(recentCount),
	)

	return Model{
		apiURL: apiURL,
		theme:  NewDefaultTheme(),
		table:  t,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchStats(m.apiURL), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, fetchStats(m.apiURL)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		return m, tea.Batch(fetchStats(m.apiURL), tick())

	case statsMsg:
		st := message.Stats(msg)
		m.stats = &st
		m.lastErr = nil
		return m, fetchRecent(m.apiURL, int(st.TotalMessages))

	case messagesMsg:
		rows := make([]table.Row, 0, len(msg.Data))
		for _, mm := range msg.Data {
			text := ""
			if mm.Text != nil {
				text = *mm.Text
			}
			rows = append(rows, table.Row{mm.TS, mm.MessageID, mm.FromMsisdn, mm.ToMsisdn, text})
		}
		m.table.SetRows(rows)
		return m, nil

	case errMsg:
		m.lastErr = msg
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := m.theme.Title.Render("inlet watch — " + m.apiURL)

	var status string
	if m.lastErr != nil {
		status = m.theme.StatusFailed.Render(fmt.Sprintf("unreachable: %v", m.lastErr))
	} else if m.stats != nil {
		status = m.theme.StatusOK.Render(fmt.Sprintf(
			"messages %d  senders %d", m.stats.TotalMessages, m.stats.SendersCount))
	} else {
		status = m.theme.Dim.Render("connecting...")
	}

	header := lipgloss.JoinVertical(lipgloss.Left, title, status)

	body := m.theme.Border.Render(m.table.View())
	footer := m.theme.Dim.Render("q: quit  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
