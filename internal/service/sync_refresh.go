package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// refresh pulls the server copy of every record marked for refresh and
// settles it through the resolver. It returns the number of local records
// that took a server copy.
//
// Marks are cleared once their batch is handled, found or not. A fetch
// failure keeps them for the next cycle.
func (m *syncManager) refresh(ctx context.Context) (int, error) {
	var total int

	for {
		if ctx.Err() != nil {
			return total, ErrSyncCancelled
		}

		marks, err := m.records.PendingRefresh(ctx, m.batchSize)
		if err != nil {
			return total, fmt.Errorf("list refresh marks: %w", err)
		}
		if len(marks) == 0 {
			return total, nil
		}

		req := models.FetchRecordsRequest{Records: make([]models.RecordRef, len(marks)), Length: len(marks)}
		for i, mark := range marks {
			req.Records[i] = mark.Ref()
		}

		resp, err := m.adapter.FetchRecords(ctx, req)
		switch {
		case err == nil:
		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			return total, ErrSyncCancelled
		case adapter.IsFatal(err):
			return total, errFatal{err: err}
		default:
			return total, fmt.Errorf("fetch records: %w", err)
		}

		applyCtx := context.WithoutCancel(ctx)
		for _, server := range resp.Records {
			applied, err := m.applyFetched(applyCtx, server)
			if err != nil {
				return total, fmt.Errorf("apply server copy of %s: %w", server.ServerID, err)
			}
			if applied {
				total++
			}
		}
		for _, ref := range resp.Missing {
			m.logger.Debug().
				Str("entity_type", ref.EntityType.String()).
				Str("server_id", ref.ServerID).
				Msg("record to refresh is unknown to the server")
		}

		if err = m.records.ClearRefresh(applyCtx, marks...); err != nil {
			return total, fmt.Errorf("clear refresh marks: %w", err)
		}
	}
}

// applyFetched stores a pulled server copy. A record with queued operations
// is left alone: the results of those operations carry the server copy. A
// record unknown locally was created elsewhere and is added as synced.
func (m *syncManager) applyFetched(ctx context.Context, server models.ServerRecord) (bool, error) {
	if !server.EntityType.Valid() {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownCollection, server.EntityType)
	}

	m.guard.Lock()
	defer m.guard.Unlock()

	local, err := m.records.GetByServerID(ctx, server.EntityType, server.ServerID)
	if errors.Is(err, store.ErrRecordNotFound) {
		if server.Deleted {
			return false, nil
		}
		record := serverCopy(models.LocalRecord{
			LocalID:        m.ids.Generate(),
			EntityType:     server.EntityType,
			Data:           json.RawMessage(`{}`),
			LastModifiedAt: m.now().UTC(),
		}, server)
		return true, m.records.Save(ctx, record)
	}
	if err != nil {
		return false, err
	}

	pending, err := m.queue.PendingFor(ctx, local.EntityType, local.LocalID)
	if err != nil {
		return false, err
	}
	if len(pending) > 0 || local.SyncStatus != models.SyncStatusSynced {
		return false, nil
	}

	resolution := m.resolver.Resolve(ConflictInput{
		Local:     local,
		Operation: models.QueueOperation{EntityType: local.EntityType, EntityLocalID: local.LocalID},
		Server:    server,
		Policy:    m.prefs.Current().ConflictResolution,
		Now:       m.now(),
	})
	if err = m.records.Save(ctx, resolution.Record); err != nil {
		return false, err
	}

	m.logger.Debug().
		Str("entity_type", local.EntityType.String()).
		Str("entity_local_id", local.LocalID).
		Str("action", string(resolution.Action)).
		Msg("server copy applied")
	return true, nil
}
