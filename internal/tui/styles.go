package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-resto-sync/models"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle        = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle  = tabStyle.Bold(true).Underline(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	panelStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

var phaseColors = map[models.SyncPhase]lipgloss.Color{
	models.PhaseIdle:           lipgloss.Color("8"),
	models.PhaseSyncing:        lipgloss.Color("12"),
	models.PhaseSuccess:        lipgloss.Color("10"),
	models.PhasePartialFailure: lipgloss.Color("11"),
	models.PhaseRetryScheduled: lipgloss.Color("11"),
	models.PhaseFatalFailure:   lipgloss.Color("9"),
}

var statusColors = map[models.SyncStatus]lipgloss.Color{
	models.SyncStatusSynced:   lipgloss.Color("10"),
	models.SyncStatusPending:  lipgloss.Color("12"),
	models.SyncStatusConflict: lipgloss.Color("13"),
	models.SyncStatusFailed:   lipgloss.Color("9"),
}

func phaseStyle(phase models.SyncPhase) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(phaseColors[phase])
}

func statusStyle(status models.SyncStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[status])
}
