package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/models"
)

type view int

const (
	viewRecords view = iota
	viewDeadLetters
	viewPrefs
	viewCount
)

var viewTitles = [...]string{"Records", "Dead letters", "Preferences"}

type overlay int

const (
	overlayNone overlay = iota
	overlayEditor
	overlayConfirm
	overlayInfo
)

type dashboardModel struct {
	ctx      context.Context
	services *service.ClientServices
	prefs    PreferencesEditor
	build    models.AppBuildInfo
	states   <-chan models.SyncState

	state       models.SyncState
	records     []models.LocalRecord
	deadLetters []models.QueueOperation
	preferences models.SyncPreferences

	view      view
	entityIdx int
	cursor    int
	overlay   overlay
	editor    editorModel
	confirm   confirmModel
	spinner   spinner.Model

	status string
	err    string

	width  int
	height int
}

func newDashboardModel(ctx context.Context, services *service.ClientServices, prefs PreferencesEditor, build models.AppBuildInfo, states <-chan models.SyncState) dashboardModel {
	return dashboardModel{
		ctx:         ctx,
		services:    services,
		prefs:       prefs,
		build:       build,
		states:      states,
		state:       services.Manager.State(),
		preferences: prefs.Current(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m dashboardModel) entity() models.EntityType {
	return models.EntityTypes[m.entityIdx]
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForState(m.states),
		cmdRefreshState(m.ctx, m.services.Manager),
		cmdLoadRecords(m.ctx, m.services.Records, m.entity()),
		cmdLoadDeadLetters(m.ctx, m.services.Queue),
	)
}

func (m dashboardModel) reload() tea.Cmd {
	return tea.Batch(
		cmdRefreshState(m.ctx, m.services.Manager),
		cmdLoadRecords(m.ctx, m.services.Records, m.entity()),
		cmdLoadDeadLetters(m.ctx, m.services.Queue),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		finished := m.state.IsCurrentlySyncing && !msg.IsCurrentlySyncing
		m.state = models.SyncState(msg)
		cmds := []tea.Cmd{waitForState(m.states)}
		if finished {
			cmds = append(cmds,
				cmdLoadRecords(m.ctx, m.services.Records, m.entity()),
				cmdLoadDeadLetters(m.ctx, m.services.Queue),
			)
		}
		return m, tea.Batch(cmds...)

	case refreshedMsg:
		m.state = models.SyncState(msg)
		return m, nil

	case stateClosedMsg:
		return m, nil

	case recordsLoadedMsg:
		if msg.entity != m.entity() {
			return m, nil
		}
		if msg.err != nil {
			m.err = humanizeError(msg.err)
			return m, nil
		}
		m.records = msg.records
		if m.view == viewRecords {
			m.cursor = clampCursor(m.cursor, len(m.records))
		}
		return m, nil

	case deadLettersLoadedMsg:
		if msg.err != nil {
			m.err = humanizeError(msg.err)
			return m, nil
		}
		m.deadLetters = msg.ops
		if m.view == viewDeadLetters {
			m.cursor = clampCursor(m.cursor, len(m.deadLetters))
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.err = humanizeError(msg.err)
			return m, nil
		}
		m.preferences = msg.prefs
		m.status, m.err = "Preferences saved", ""
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status, m.err = "", humanizeError(msg.err)
		} else {
			m.status, m.err = msg.status, ""
		}
		return m, m.reload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayEditor:
		return m.handleEditorKey(msg)
	case overlayConfirm:
		switch {
		case key.Matches(msg, keys.yes):
			m.overlay = overlayNone
			return m, cmdDeleteRecord(m.ctx, m.services.Records, m.confirm.record)
		case key.Matches(msg, keys.no):
			m.overlay = overlayNone
		}
		return m, nil
	case overlayInfo:
		if key.Matches(msg, keys.esc, keys.info, keys.enter) {
			m.overlay = overlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.tab):
		return m.switchView((m.view + 1) % viewCount), nil
	case key.Matches(msg, keys.backtab):
		return m.switchView((m.view + viewCount - 1) % viewCount), nil
	case key.Matches(msg, keys.sync):
		return m, cmdSyncNow(m.services.Manager)
	case key.Matches(msg, keys.cancel):
		return m, cmdCancelSync(m.services.Manager)
	case key.Matches(msg, keys.info):
		m.overlay = overlayInfo
		return m, nil
	}

	switch m.view {
	case viewRecords:
		return m.handleRecordsKey(msg)
	case viewDeadLetters:
		return m.handleDeadLettersKey(msg)
	case viewPrefs:
		return m.handlePrefsKey(msg)
	}
	return m, nil
}

func (m dashboardModel) switchView(v view) dashboardModel {
	m.view = v
	m.cursor = 0
	m.status, m.err = "", ""
	if v == viewPrefs {
		m.preferences = m.prefs.Current()
	}
	return m
}

func (m dashboardModel) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		m.cursor = clampCursor(m.cursor-1, len(m.records))
	case key.Matches(msg, keys.down):
		m.cursor = clampCursor(m.cursor+1, len(m.records))
	case key.Matches(msg, keys.left), key.Matches(msg, keys.right):
		step := 1
		if key.Matches(msg, keys.left) {
			step = len(models.EntityTypes) - 1
		}
		m.entityIdx = (m.entityIdx + step) % len(models.EntityTypes)
		m.records, m.cursor = nil, 0
		return m, cmdLoadRecords(m.ctx, m.services.Records, m.entity())
	case key.Matches(msg, keys.newItem):
		m.editor = newEditor(m.entity(), nil)
		m.overlay = overlayEditor
	case key.Matches(msg, keys.edit):
		if record, ok := m.selectedRecord(); ok {
			m.editor = newEditor(m.entity(), &record)
			m.overlay = overlayEditor
		}
	case key.Matches(msg, keys.delete):
		if record, ok := m.selectedRecord(); ok {
			m.confirm = confirmModel{record: record}
			m.overlay = overlayConfirm
		}
	case key.Matches(msg, keys.keepSrv), key.Matches(msg, keys.keepLocal):
		record, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		if record.SyncStatus != models.SyncStatusConflict {
			m.err = "This record is not in conflict"
			return m, nil
		}
		policy := models.PreferServer
		if key.Matches(msg, keys.keepLocal) {
			policy = models.PreferLocal
		}
		return m, cmdResolveConflict(m.ctx, m.services.Records, record, policy)
	}
	return m, nil
}

func (m dashboardModel) handleDeadLettersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		m.cursor = clampCursor(m.cursor-1, len(m.deadLetters))
	case key.Matches(msg, keys.down):
		m.cursor = clampCursor(m.cursor+1, len(m.deadLetters))
	case key.Matches(msg, keys.retry):
		if m.cursor < len(m.deadLetters) {
			return m, cmdRetryDeadLetter(m.ctx, m.services.Queue, m.services.Manager, m.deadLetters[m.cursor].ID)
		}
	}
	return m, nil
}

func (m dashboardModel) handlePrefsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		m.cursor = clampCursor(m.cursor-1, len(prefRows))
	case key.Matches(msg, keys.down):
		m.cursor = clampCursor(m.cursor+1, len(prefRows))
	case key.Matches(msg, keys.enter):
		if toggle := prefRows[m.cursor].toggle; toggle != nil {
			return m, cmdUpdatePrefs(m.prefs, toggle)
		}
	case key.Matches(msg, keys.plus), key.Matches(msg, keys.minus):
		if m.cursor != intervalRow {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, keys.minus) {
			delta = -1
		}
		return m, cmdUpdatePrefs(m.prefs, func(p *models.SyncPreferences) {
			p.SyncIntervalMinutes = adjustInterval(p.SyncIntervalMinutes, delta)
		})
	}
	return m, nil
}

func (m dashboardModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, keys.save):
		data, problem := m.editor.payload()
		if problem != "" {
			m.editor.err = problem
			return m, nil
		}
		m.overlay = overlayNone
		return m, cmdSaveRecord(m.ctx, m.services.Records, m.editor.entity, m.editor.localID, data)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

func (m dashboardModel) selectedRecord() (models.LocalRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return models.LocalRecord{}, false
	}
	return m.records[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
