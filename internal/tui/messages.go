package tui

import "github.com/MKhiriev/go-resto-sync/models"

type stateMsg models.SyncState

// refreshedMsg carries the snapshot returned by an explicit refresh.
type refreshedMsg models.SyncState

// stateClosedMsg arrives when the manager closed the state stream.
type stateClosedMsg struct{}

type recordsLoadedMsg struct {
	entity  models.EntityType
	records []models.LocalRecord
	err     error
}

type deadLettersLoadedMsg struct {
	ops []models.QueueOperation
	err error
}

type prefsSavedMsg struct {
	prefs models.SyncPreferences
	err   error
}

// actionDoneMsg reports a user action. Lists are reloaded afterwards.
type actionDoneMsg struct {
	status string
	err    error
}
