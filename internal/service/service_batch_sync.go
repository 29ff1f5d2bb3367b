package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// DefaultMaxBatchSize bounds one request on the server.
const DefaultMaxBatchSize = 500

// batchSyncService is the reference server side of the batch contract.
//
// Every operation is looked up in the applied-operations ledger first, so a
// device that re-sends a batch after a lost response gets the original
// results back. Updates are checked against the version they were based on
// and answered with a conflict when the server copy moved on, unless the
// device forces its copy. Deletes leave a tombstone that wins over any later
// stale update.
type batchSyncService struct {
	repo     store.ServerSyncRepository
	ids      idGenerator
	maxBatch int
	now      func() time.Time
	logger   *logger.Logger
}

func NewBatchSyncService(repo store.ServerSyncRepository, ids idGenerator, maxBatch int, logger *logger.Logger) BatchSyncService {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &batchSyncService{
		repo:     repo,
		ids:      ids,
		maxBatch: maxBatch,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *batchSyncService) Apply(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	log := logger.FromContext(ctx)

	switch {
	case len(req.Operations) == 0:
		return models.BatchSyncResponse{}, ErrEmptyBatch
	case req.Length != len(req.Operations):
		return models.BatchSyncResponse{}, fmt.Errorf("%w: length %d, got %d operations", ErrBatchLengthMismatch, req.Length, len(req.Operations))
	case len(req.Operations) > s.maxBatch:
		return models.BatchSyncResponse{}, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.Operations), s.maxBatch)
	}

	results := make([]models.BatchResult, 0, len(req.Operations))
	for _, op := range req.Operations {
		res, err := s.applyOne(ctx, op)
		if err != nil {
			log.Err(err).
				Str("func", "batchSyncService.Apply").
				Str("operation_id", op.OperationID).
				Msg("operation failed")
			res = models.BatchResult{
				OperationID: op.OperationID,
				Status:      models.BatchRejected,
				Error:       err.Error(),
				Retryable:   errors.Is(err, store.ErrRetryable),
			}
		}
		results = append(results, res)
	}

	return models.BatchSyncResponse{
		Results:    results,
		ServerTime: s.now().UTC(),
		Length:     len(results),
	}, nil
}

func (s *batchSyncService) Fetch(ctx context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error) {
	switch {
	case len(req.Records) == 0:
		return models.FetchRecordsResponse{}, ErrEmptyBatch
	case req.Length != len(req.Records):
		return models.FetchRecordsResponse{}, fmt.Errorf("%w: length %d, got %d records", ErrBatchLengthMismatch, req.Length, len(req.Records))
	case len(req.Records) > s.maxBatch:
		return models.FetchRecordsResponse{}, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.Records), s.maxBatch)
	}

	resp := models.FetchRecordsResponse{Records: make([]models.ServerRecord, 0, len(req.Records))}
	for _, ref := range req.Records {
		if !ref.EntityType.Valid() || ref.ServerID == "" {
			resp.Missing = append(resp.Missing, ref)
			continue
		}

		serverID := ref.ServerID
		record, err := s.repo.FindRecord(ctx, ref.EntityType, &serverID, "")
		if errors.Is(err, store.ErrRecordNotFound) {
			resp.Missing = append(resp.Missing, ref)
			continue
		}
		if err != nil {
			return models.FetchRecordsResponse{}, err
		}
		resp.Records = append(resp.Records, *record)
	}

	logger.FromContext(ctx).Debug().
		Int("requested", len(req.Records)).
		Int("found", len(resp.Records)).
		Msg("records fetched")

	resp.ServerTime = s.now().UTC()
	resp.Length = len(resp.Records)
	return resp, nil
}

func (s *batchSyncService) applyOne(ctx context.Context, op models.BatchOperation) (models.BatchResult, error) {
	if op.OperationID == "" {
		return models.BatchResult{Status: models.BatchRejected, Error: "operation id is required"}, nil
	}

	prior, err := s.repo.FindApplied(ctx, op.OperationID)
	if err != nil {
		return models.BatchResult{}, err
	}
	if prior != nil {
		return *prior, nil
	}

	if reason := validateOperation(op); reason != "" {
		return s.commit(ctx, op, nil, models.BatchResult{
			OperationID: op.OperationID,
			Status:      models.BatchRejected,
			Error:       reason,
		})
	}

	current, err := s.repo.FindRecord(ctx, op.EntityType, op.ServerID, op.LocalID)
	if errors.Is(err, store.ErrRecordNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		return models.BatchResult{}, err
	}

	record, res := s.decide(op, current)
	res.OperationID = op.OperationID
	return s.commit(ctx, op, record, res)
}

// decide computes the new server copy (nil when nothing is written) and the
// result for op.
func (s *batchSyncService) decide(op models.BatchOperation, current *models.ServerRecord) (*models.ServerRecord, models.BatchResult) {
	switch op.Kind {
	case models.OperationCreate:
		if current == nil {
			record := &models.ServerRecord{
				ServerID:   s.ids.Generate(),
				LocalID:    op.LocalID,
				EntityType: op.EntityType,
				Data:       op.Payload,
				UpdatedAt:  s.version(nil),
			}
			return record, applied(record)
		}
		// a create re-sent under a new id after the first one was applied
		// is an update of the same device record
		return s.update(op, current, true)

	case models.OperationUpdate:
		if current == nil {
			return nil, models.BatchResult{Status: models.BatchRejected, Error: "update of unknown record"}
		}
		return s.update(op, current, op.ForceOverwrite)

	default:
		if current == nil {
			return nil, models.BatchResult{Status: models.BatchApplied}
		}
		if current.Deleted {
			return nil, applied(current)
		}
		record := *current
		record.Deleted = true
		record.UpdatedAt = s.version(current)
		return &record, applied(&record)
	}
}

func (s *batchSyncService) update(op models.BatchOperation, current *models.ServerRecord, force bool) (*models.ServerRecord, models.BatchResult) {
	if current.Deleted {
		return nil, conflict(current)
	}
	if !force && op.BaseServerUpdatedAt != nil && current.UpdatedAt.After(*op.BaseServerUpdatedAt) {
		return nil, conflict(current)
	}

	record := *current
	record.Data = mergePayload(current.Data, op.Payload)
	record.UpdatedAt = s.version(current)
	return &record, applied(&record)
}

// version returns a timestamp strictly after current's, at the precision
// postgres keeps.
func (s *batchSyncService) version(current *models.ServerRecord) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if current != nil && !now.After(current.UpdatedAt) {
		now = current.UpdatedAt.Add(time.Microsecond)
	}
	return now
}

// commit stores the result in the ledger together with the record. When a
// concurrent delivery of the same operation won the race its result is
// returned instead.
func (s *batchSyncService) commit(ctx context.Context, op models.BatchOperation, record *models.ServerRecord, res models.BatchResult) (models.BatchResult, error) {
	err := s.repo.Commit(ctx, op.EntityType, record, res)
	if err == nil {
		logger.FromContext(ctx).Debug().
			Str("operation_id", op.OperationID).
			Str("entity_type", op.EntityType.String()).
			Str("kind", string(op.Kind)).
			Str("status", string(res.Status)).
			Msg("operation applied")
		return res, nil
	}

	prior, findErr := s.repo.FindApplied(ctx, op.OperationID)
	if findErr == nil && prior != nil {
		return *prior, nil
	}
	return models.BatchResult{}, err
}

func validateOperation(op models.BatchOperation) string {
	if !op.EntityType.Valid() {
		return fmt.Sprintf("unknown entity type %q", op.EntityType)
	}
	if !op.Kind.Valid() {
		return fmt.Sprintf("unknown operation kind %q", op.Kind)
	}
	if op.LocalID == "" && op.ServerID == nil {
		return "record id is required"
	}
	if op.Kind == models.OperationDelete {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(op.Payload, &obj); err != nil || obj == nil {
		return "payload must be a JSON object"
	}
	return ""
}

func applied(record *models.ServerRecord) models.BatchResult {
	c := *record
	return models.BatchResult{Status: models.BatchApplied, ServerRecord: &c}
}

func conflict(record *models.ServerRecord) models.BatchResult {
	c := *record
	return models.BatchResult{Status: models.BatchConflict, ServerRecord: &c}
}
