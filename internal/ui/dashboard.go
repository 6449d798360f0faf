package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/dashboard"
)

type dashState struct {
	stats   dashboard.Stats
	loading bool
	loaded  bool
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "R":
		m.dash.loading = true
		return m, fetchStatsCmd(m)
	case "esc":
		m.currentView = ViewBooks
		return m, nil
	}
	return m, nil
}

func (m Model) renderDashboard() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Library overview"))
	if m.dash.loading {
		b.WriteString(styles.MutedText.Render("  Loading..."))
	}
	b.WriteString("\n\n")

	if !m.dash.loaded {
		b.WriteString(styles.MutedText.Render("Gathering statistics..."))
		return b.String()
	}

	cells := []struct {
		label string
		stat  dashboard.Stat
	}{
		{"Total books", m.dash.stats.TotalBooks},
		{"Registered users", m.dash.stats.TotalUsers},
		{"Active loans", m.dash.stats.ActiveIssues},
		{"Overdue loans", m.dash.stats.OverdueIssues},
	}

	var panels []string
	for _, cell := range cells {
		var inner strings.Builder
		inner.WriteString(styles.MutedText.Render(cell.label))
		inner.WriteString("\n")
		if cell.stat.OK() {
			inner.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("%d", cell.stat.Count)))
		} else {
			inner.WriteString(styles.DangerText.Render("unavailable"))
		}
		panels = append(panels, styles.Panel.Width(20).Render(inner.String()))
	}
	b.WriteString(strings.Join(panels, " "))
	b.WriteString("\n")

	// A failed cell never hides the rest; its errors are listed below.
	if failed := m.dash.stats.Failed(); len(failed) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(formatCount(len(failed), "statistic", "statistics") + " could not be loaded:"))
		b.WriteString("\n")
		for _, err := range failed {
			b.WriteString(styles.MutedText.Render("  " + truncate(err.Error(), m.width-4)))
			b.WriteString("\n")
		}
	}

	if m.config.AdminURL != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Catalog management: " + m.config.AdminURL))
		b.WriteString("\n")
	}

	return b.String()
}
