package service

import (
	"sync"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
)

// ClientServices is the device-side engine.
type ClientServices struct {
	Queue         SyncQueue
	Manager       SyncManager
	Scheduler     BackgroundScheduler
	Notifications NotificationBridge
	Records       RecordService
}

func NewClientServices(storages *store.ClientStorages, syncAdapter adapter.SyncAdapter, prefs PreferencesSource, network NetworkSource, cfg config.Sync, logger *logger.Logger) *ClientServices {
	ids := utils.NewUUIDGenerator()
	guard := &sync.Mutex{}

	queue := NewSyncQueue(storages.Queue, storages.Records, prefs, ids, cfg.MaxRetries, logger)
	manager := NewSyncManager(SyncManagerDeps{
		Queue:    queue,
		Records:  storages.Records,
		Audit:    storages.Audit,
		Adapter:  syncAdapter,
		Resolver: NewConflictResolver(),
		Prefs:    prefs,
		IDs:      ids,
		Guard:    guard,
	}, cfg, logger)

	return &ClientServices{
		Queue:         queue,
		Manager:       manager,
		Scheduler:     NewSyncScheduler(manager, prefs, network, logger),
		Notifications: NewNotificationBridge(storages.Records, manager, guard, logger),
		Records:       NewRecordService(storages.Records, storages.Audit, queue, prefs, ids, guard, logger),
	}
}
