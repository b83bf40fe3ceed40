// Package output provides styled terminal output helpers (success,
// error, warning, claim formatting) using lipgloss.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/coursekit/rollcall/internal/claim"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// FormatResolution renders the outcome of a claim resolution: the
// granted labels with their role IDs, then any labels the role
// directory could not resolve.
func FormatResolution(res *claim.Resolution) string {
	var sb strings.Builder

	if len(res.RoleIDs) == 0 {
		sb.WriteString(warningStyle.Render("No roles granted"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Granted %d role(s):", len(res.RoleIDs))))
		sb.WriteString("\n")
		labels := make([]string, 0, len(res.Labels))
		for label := range res.Labels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			sb.WriteString(fmt.Sprintf("  %s %s\n", label, subtleStyle.Render(res.Labels[label])))
		}
	}

	if len(res.Unresolved) > 0 {
		sb.WriteString(warningStyle.Render(fmt.Sprintf("Unresolved label(s) (%d):", len(res.Unresolved))))
		sb.WriteString("\n")
		for _, label := range res.Unresolved {
			sb.WriteString(fmt.Sprintf("  %s\n", label))
		}
		sb.WriteString(subtleStyle.Render("Ask an administrator to add these to the role directory."))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
