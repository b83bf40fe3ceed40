package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	subtleStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errStyle     = lipgloss.NewStyle().Foreground(errorColor)
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

// View implements tea.Model
func (m Model) View() string {
	if m.Width > 0 && m.Width < MinWidth {
		return "Terminal too narrow for the status dashboard\n"
	}

	var sb strings.Builder

	sb.WriteString(headerStyle.Render("rollcall status"))
	sb.WriteString("\n\n")
	sb.WriteString(m.summaryLine())
	sb.WriteString("\n\n")

	if m.Err != nil {
		sb.WriteString(errStyle.Render(fmt.Sprintf("refresh failed: %v", m.Err)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(panelStyle.Render(m.Table.View()))
	sb.WriteString("\n")

	if len(m.Teams) > 0 {
		sb.WriteString(subtleStyle.Render("Teams: " + strings.Join(m.Teams, ", ")))
		sb.WriteString("\n")
	}

	if !m.LastRefresh.IsZero() {
		sb.WriteString(subtleStyle.Render("refreshed " + m.LastRefresh.Format("15:04:05")))
		sb.WriteString("  ")
	}
	sb.WriteString(helpStyle.Render("r refresh · q quit"))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) summaryLine() string {
	total := len(m.Assignments)
	claimed := len(m.Claimed)

	claimedStr := fmt.Sprintf("%d/%d claimed", claimed, total)
	switch {
	case total > 0 && claimed == total:
		claimedStr = successStyle.Render(claimedStr)
	case claimed > 0:
		claimedStr = warningStyle.Render(claimedStr)
	default:
		claimedStr = subtleStyle.Render(claimedStr)
	}

	return fmt.Sprintf("%s   %d role(s) in directory   %d team(s)",
		claimedStr, m.RoleCount, len(m.Teams))
}
