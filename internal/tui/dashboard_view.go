package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-resto-sync/models"
)

func (m dashboardModel) View() string {
	var body string
	switch m.overlay {
	case overlayEditor:
		body = m.editor.View()
	case overlayConfirm:
		body = m.confirm.View()
	case overlayInfo:
		body = renderBuildInfoWindow(m.build)
	}
	if body != "" {
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
		}
		return appStyle.Render(body)
	}

	var b strings.Builder
	b.WriteString(m.renderStatePanel())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.view {
	case viewRecords:
		b.WriteString(renderPage(
			"COLLECTION "+strings.ToUpper(string(m.entity())),
			m.renderRecords(),
			helpLine(keys.left, keys.right, keys.newItem, keys.edit, keys.delete, keys.keepSrv, keys.keepLocal),
		))
	case viewDeadLetters:
		b.WriteString(renderPage("DEAD LETTERS", m.renderDeadLetters(), helpLine(keys.up, keys.down, keys.retry)))
	case viewPrefs:
		b.WriteString(renderPage("SYNC PREFERENCES", renderPrefs(m.preferences, m.cursor), helpLine(keys.enter, keys.plus, keys.minus)))
	}

	b.WriteString(helpStyle.Render("  " + helpLine(keys.tab, keys.sync, keys.cancel, keys.info, keys.quit)))
	b.WriteString("\n")
	switch {
	case m.err != "":
		b.WriteString("\n  " + errorStyle.Render(m.err))
	case m.status != "":
		b.WriteString("\n  " + m.status)
	}

	return appStyle.Render(b.String())
}

func (m dashboardModel) renderStatePanel() string {
	s := m.state

	phase := phaseStyle(s.Phase).Render(string(s.Phase))
	if s.Phase == "" {
		phase = phaseStyle(models.PhaseIdle).Render(string(models.PhaseIdle))
	}
	if s.IsCurrentlySyncing {
		phase = m.spinner.View() + " " + phase
	}

	network := "offline"
	if s.IsOnline {
		network = "online (" + string(s.NetworkType) + ")"
	}

	lines := []string{
		fmt.Sprintf("Sync: %s    Network: %s", phase, network),
		fmt.Sprintf("Pending: %d    Failed: %d    Conflicts: %d    Dead letters: %d",
			s.PendingChanges, s.FailedSyncs, s.Conflicts, s.DeadLetters),
		fmt.Sprintf("Last sync: %s    Next sync: %s", timeOrDash(s.LastSync), timeOrDash(s.NextScheduledSync)),
	}
	if s.LastError != "" {
		lines = append(lines, errorStyle.Render("Last error: "+fitText(s.LastError, 70)))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m dashboardModel) renderTabs() string {
	tabs := make([]string, 0, len(viewTitles))
	for i, title := range viewTitles {
		if view(i) == m.view {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, tabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m dashboardModel) renderRecords() string {
	if len(m.records) == 0 {
		return "No records, press " + keyName(keys.newItem) + " to add one"
	}

	var b strings.Builder
	for i, r := range m.records {
		line := fmt.Sprintf("%-14s %-9s %-14s %s",
			fitText(r.LocalID, 14),
			statusStyle(r.SyncStatus).Render(fmt.Sprintf("%-9s", r.SyncStatus)),
			fitText(valueOrDash(r.ServerID), 14),
			fitText(string(r.Data), 40),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		if r.LastError != nil && *r.LastError != "" {
			b.WriteString("\n    " + errorStyle.Render(fitText(*r.LastError, 60)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m dashboardModel) renderDeadLetters() string {
	if len(m.deadLetters) == 0 {
		return "Nothing was given up on"
	}

	var b strings.Builder
	for i, op := range m.deadLetters {
		line := fmt.Sprintf("%-8s %-10s %-14s %s  %s",
			op.Kind,
			op.EntityType,
			fitText(op.EntityLocalID, 14),
			plural(op.RetryCount, "attempt"),
			fitText(valueOrDash(op.LastError), 40),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func keyName(b key.Binding) string {
	return b.Help().Key
}
