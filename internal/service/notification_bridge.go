package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// orderStatusField is the data field patched from push payloads.
const orderStatusField = "status"

type notificationBridge struct {
	records store.LocalRecordRepository
	manager SyncManager
	guard   *sync.Mutex
	logger  *logger.Logger
}

func NewNotificationBridge(records store.LocalRecordRepository, manager SyncManager, guard *sync.Mutex, logger *logger.Logger) NotificationBridge {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &notificationBridge{
		records: records,
		manager: manager,
		guard:   guard,
		logger:  logger.WithComponent("notifications"),
	}
}

// HandleNotification patches the order status locally so the UI reflects it
// at once, then asks for a sync. The patch is provisional: it does not change
// the record's sync status, and the order is marked for refresh so the
// cycle replaces it with the server copy. An unknown order is marked for
// refresh by the notification id and downloaded by the cycle.
func (b *notificationBridge) HandleNotification(ctx context.Context, n models.PushNotification) error {
	log := b.logger.With().Str("type", n.Type).Str("order_id", n.OrderID).Logger()

	if !n.IsOrderEvent() {
		log.Debug().Msg("notification ignored")
		return nil
	}
	if n.OrderID == "" {
		return ErrEmptyNotification
	}

	if err := b.applyLocally(ctx, n); err != nil {
		return err
	}

	if !b.manager.RequestSync(TriggerNotification) {
		log.Debug().Msg("sync after notification gated")
	}
	return nil
}

func (b *notificationBridge) applyLocally(ctx context.Context, n models.PushNotification) error {
	b.guard.Lock()
	defer b.guard.Unlock()

	record, err := b.findOrder(ctx, n.OrderID)
	if errors.Is(err, store.ErrRecordNotFound) {
		b.logger.Debug().Str("order_id", n.OrderID).Msg("notification for unknown order")
		return b.records.MarkForRefresh(ctx, models.EntityOrders, n.OrderID)
	}
	if err != nil {
		return err
	}

	if n.Status == "" {
		if record.ServerID == nil {
			return nil
		}
		return b.records.MarkForRefresh(ctx, models.EntityOrders, *record.ServerID)
	}

	err = b.records.PatchField(ctx, models.EntityOrders, record.LocalID, orderStatusField, n.Status)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		b.logger.Err(err).Str("func", "notificationBridge.applyLocally").Str("order_id", n.OrderID).Msg("failed to patch order status")
		return err
	}

	b.logger.Info().Str("order_id", n.OrderID).Str("status", n.Status).Msg("order status patched")
	return nil
}

// findOrder resolves the notification id, which is normally the server id
// but may be the device id for orders created here.
func (b *notificationBridge) findOrder(ctx context.Context, orderID string) (models.LocalRecord, error) {
	record, err := b.records.GetByServerID(ctx, models.EntityOrders, orderID)
	if err == nil || !errors.Is(err, store.ErrRecordNotFound) {
		return record, err
	}
	return b.records.Get(ctx, models.EntityOrders, orderID)
}
