package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

// fakePrefs is an in-memory PreferencesSource.
type fakePrefs struct {
	mu      sync.Mutex
	current models.SyncPreferences
	updates *utils.Broadcaster[models.SyncPreferences]
}

func newFakePrefs(p models.SyncPreferences) *fakePrefs {
	return &fakePrefs{current: p, updates: utils.NewBroadcaster[models.SyncPreferences]()}
}

func (f *fakePrefs) Current() models.SyncPreferences {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakePrefs) Subscribe() (<-chan models.SyncPreferences, func()) {
	return f.updates.Subscribe()
}

func (f *fakePrefs) set(fn func(p *models.SyncPreferences)) {
	f.mu.Lock()
	fn(&f.current)
	p := f.current
	f.mu.Unlock()
	f.updates.Publish(p)
}

// fakeNetwork is an in-memory NetworkSource.
type fakeNetwork struct {
	mu      sync.Mutex
	current models.NetworkStatus
	updates *utils.Broadcaster[models.NetworkStatus]
}

func newFakeNetwork(s models.NetworkStatus) *fakeNetwork {
	return &fakeNetwork{current: s, updates: utils.NewBroadcaster[models.NetworkStatus]()}
}

func (f *fakeNetwork) Current() models.NetworkStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeNetwork) Subscribe() (<-chan models.NetworkStatus, func()) {
	return f.updates.Subscribe()
}

func (f *fakeNetwork) set(s models.NetworkStatus) {
	f.mu.Lock()
	f.current = s
	f.mu.Unlock()
	f.updates.Publish(s)
}

// seqIDs hands out predictable, ordered ids.
type seqIDs struct {
	prefix string
	n      atomic.Int64
}

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("%s%04d", s.prefix, s.n.Add(1))
}

var (
	wifi    = models.NetworkStatus{Online: true, Type: models.NetworkWifi}
	cell    = models.NetworkStatus{Online: true, Type: models.NetworkCellular}
	offline = models.NetworkStatus{Online: false, Type: models.NetworkNone}
)

func newClientStorages(t *testing.T) (*store.ClientStorages, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.db")
	storages := openClientStorages(t, path)
	return storages, path
}

func openClientStorages(t *testing.T, path string) *store.ClientStorages {
	t.Helper()
	storages, err := store.NewClientStorages(context.Background(), config.Storage{DB: config.DB{DSN: path}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })
	return storages
}

func newTestQueue(storages *store.ClientStorages, prefs PreferencesSource) *syncQueue {
	q := NewSyncQueue(storages.Queue, storages.Records, prefs, &seqIDs{prefix: "op-"}, config.DefaultMaxRetries, logger.Nop()).(*syncQueue)
	return q
}

func saveRecord(t *testing.T, storages *store.ClientStorages, record models.LocalRecord) {
	t.Helper()
	if record.LastModifiedAt.IsZero() {
		record.LastModifiedAt = time.Now().UTC()
	}
	if record.SyncStatus == "" {
		record.SyncStatus = models.SyncStatusPending
	}
	require.NoError(t, storages.Records.Save(context.Background(), record))
}

func strPtr(s string) *string { return &s }
