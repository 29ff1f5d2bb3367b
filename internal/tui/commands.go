package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/models"
)

// waitForState blocks on the next published snapshot.
func waitForState(states <-chan models.SyncState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return stateClosedMsg{}
		}
		return stateMsg(state)
	}
}

func cmdRefreshState(ctx context.Context, manager service.SyncManager) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg(manager.Refresh(ctx))
	}
}

func cmdLoadRecords(ctx context.Context, records service.RecordService, entity models.EntityType) tea.Cmd {
	return func() tea.Msg {
		list, err := records.List(ctx, entity)
		return recordsLoadedMsg{entity: entity, records: list, err: err}
	}
}

func cmdLoadDeadLetters(ctx context.Context, queue service.SyncQueue) tea.Cmd {
	return func() tea.Msg {
		ops, err := queue.DeadLetters(ctx)
		return deadLettersLoadedMsg{ops: ops, err: err}
	}
}

func cmdSyncNow(manager service.SyncManager) tea.Cmd {
	return func() tea.Msg {
		if !manager.RequestSync(service.TriggerManual) {
			return actionDoneMsg{err: service.ErrSyncGated}
		}
		return actionDoneMsg{status: "Sync requested"}
	}
}

func cmdCancelSync(manager service.SyncManager) tea.Cmd {
	return func() tea.Msg {
		manager.Cancel()
		return actionDoneMsg{status: "Sync cancelled, unsent changes stay queued"}
	}
}

func cmdRetryDeadLetter(ctx context.Context, queue service.SyncQueue, manager service.SyncManager, id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := queue.RetryDeadLetter(ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		manager.RequestSync(service.TriggerManual)
		return actionDoneMsg{status: "Operation returned to the queue"}
	}
}

func cmdResolveConflict(ctx context.Context, records service.RecordService, record models.LocalRecord, policy models.ConflictPolicy) tea.Cmd {
	return func() tea.Msg {
		if _, err := records.ResolveConflict(ctx, record.EntityType, record.LocalID, policy); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Conflict on %s resolved (%s)", record.LocalID, policy)}
	}
}

func cmdDeleteRecord(ctx context.Context, records service.RecordService, record models.LocalRecord) tea.Cmd {
	return func() tea.Msg {
		if err := records.Delete(ctx, record.EntityType, record.LocalID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Record deleted"}
	}
}

func cmdSaveRecord(ctx context.Context, records service.RecordService, entity models.EntityType, localID string, data []byte) tea.Cmd {
	return func() tea.Msg {
		if localID == "" {
			record, err := records.Create(ctx, entity, data)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Record " + record.LocalID + " created"}
		}

		if _, err := records.Update(ctx, entity, localID, data); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Record " + localID + " updated"}
	}
}

func cmdUpdatePrefs(prefs PreferencesEditor, fn func(p *models.SyncPreferences)) tea.Cmd {
	return func() tea.Msg {
		updated, err := prefs.Update(fn)
		return prefsSavedMsg{prefs: updated, err: err}
	}
}
