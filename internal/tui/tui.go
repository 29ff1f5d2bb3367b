// Package tui is the terminal dashboard of the device agent. It renders
// published sync state snapshots and drives the engine through the same
// entry points the point-of-sale UI uses: record edits, manual sync,
// cancel, dead-letter retry, conflict resolution and preferences.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/models"
)

// PreferencesEditor is the writable side of the preferences store.
type PreferencesEditor interface {
	Current() models.SyncPreferences
	Update(fn func(p *models.SyncPreferences)) (models.SyncPreferences, error)
}

type TUI struct {
	services *service.ClientServices
	prefs    PreferencesEditor
	build    models.AppBuildInfo

	logger *logger.Logger
}

func New(services *service.ClientServices, prefs PreferencesEditor, build models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		services: services,
		prefs:    prefs,
		build:    build,
		logger:   logger.WithComponent("tui"),
	}
}

// Run shows the dashboard until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	states, unsubscribe := t.services.Manager.Subscribe()
	defer unsubscribe()

	model := newDashboardModel(ctx, t.services, t.prefs, t.build, states)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		t.logger.Error().Err(err).Str("func", "*TUI.Run").Msg("dashboard stopped")
		return err
	}
	return nil
}
