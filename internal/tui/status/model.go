// Package status is the claim-progress dashboard: roster size, role
// directory size, and per-assignment claim state, refreshed from the
// database on an interval.
package status

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/models"
)

// MinWidth is the minimum terminal width for proper display
const MinWidth = 50

// TickMsg triggers a data refresh
type TickMsg time.Time

// RefreshDataMsg carries refreshed data
type RefreshDataMsg struct {
	Assignments []*models.Assignment
	Claimed     map[string]*models.Grant // keyed by email
	RoleCount   int
	Teams       []string
	Timestamp   time.Time
}

// Model is the Bubble Tea model for the status dashboard
type Model struct {
	DB *db.DB

	Width  int
	Height int

	Assignments []*models.Assignment
	Claimed     map[string]*models.Grant
	RoleCount   int
	Teams       []string

	Table       table.Model
	LastRefresh time.Time
	Err         error

	RefreshInterval time.Duration
}

// NewModel creates a new status model
func NewModel(database *db.DB, interval time.Duration) Model {
	columns := []table.Column{
		{Title: "Email", Width: 20},
		{Title: "Courses", Width: 18},
		{Title: "Leads", Width: 12},
		{Title: "Sections", Width: 10},
		{Title: "Teams", Width: 14},
		{Title: "Claimed", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return Model{
		DB:              database,
		RefreshInterval: interval,
		Table:           t,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchData(),
		m.scheduleTick(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchData()
		}
		var cmd tea.Cmd
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if h := msg.Height - 10; h > 3 {
			m.Table.SetHeight(h)
		}
		return m, nil

	case TickMsg:
		return m, tea.Batch(m.fetchData(), m.scheduleTick())

	case RefreshDataMsg:
		m.Assignments = msg.Assignments
		m.Claimed = msg.Claimed
		m.RoleCount = msg.RoleCount
		m.Teams = msg.Teams
		m.LastRefresh = msg.Timestamp
		m.Err = nil
		m.Table.SetRows(m.buildRows())
		return m, nil

	case error:
		m.Err = msg
		return m, nil
	}

	return m, nil
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) fetchData() tea.Cmd {
	database := m.DB
	return func() tea.Msg {
		assignments, err := database.ListAssignments()
		if err != nil {
			return err
		}
		grants, err := database.ListGrants()
		if err != nil {
			return err
		}
		roleCount, err := database.CountRoles()
		if err != nil {
			return err
		}
		teams, err := database.DistinctTeams()
		if err != nil {
			return err
		}

		claimed := make(map[string]*models.Grant, len(grants))
		for _, g := range grants {
			claimed[g.Email] = g
		}

		return RefreshDataMsg{
			Assignments: assignments,
			Claimed:     claimed,
			RoleCount:   roleCount,
			Teams:       teams,
			Timestamp:   time.Now(),
		}
	}
}

func (m Model) buildRows() []table.Row {
	rows := make([]table.Row, 0, len(m.Assignments))
	for _, a := range m.Assignments {
		claimed := ""
		if g, ok := m.Claimed[a.Email]; ok {
			claimed = "✓ " + g.ClaimedAt.Local().Format("Jan 2")
		}
		rows = append(rows, table.Row{
			a.Email, a.Courses, a.Leads, a.Sections, a.Teams, claimed,
		})
	}
	return rows
}
