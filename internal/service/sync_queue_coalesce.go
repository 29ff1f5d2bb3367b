package service

import (
	"encoding/json"

	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

// coalesce merges op into the operations already queued for the same record.
// It is the [store.Planner] of the queue.
//
// pending is ordered oldest first and holds no dead letters. Operations with
// a send stamp may already be applied on the server under their id: they are
// never modified, and later mutations are queued after them.
func coalesce(pending []models.QueueOperation, op models.QueueOperation) store.QueuePlan {
	var open []models.QueueOperation
	sent := false
	for _, p := range pending {
		if p.SentAt != nil {
			sent = true
			if p.Kind == models.OperationDelete {
				// the record is already on its way out
				return store.QueuePlan{}
			}
			continue
		}
		open = append(open, p)
	}

	if op.Kind == models.OperationDelete {
		return coalesceDelete(open, op, sent)
	}

	if len(open) == 0 {
		return store.QueuePlan{Insert: &op}
	}

	tail := open[len(open)-1]
	if tail.Kind == models.OperationDelete {
		// a deleted record cannot be revived by a later edit
		return store.QueuePlan{}
	}

	merged := tail
	if op.ForceOverwrite {
		// a conflict requeue carries the older local state, edits queued
		// since then win
		merged.Payload = mergePayload(op.Payload, tail.Payload)
		merged.ForceOverwrite = true
	} else {
		merged.Payload = mergePayload(tail.Payload, op.Payload)
	}

	return store.QueuePlan{Update: []models.QueueOperation{merged}}
}

// coalesceDelete drops every unsent operation of the record. The delete
// itself is queued unless the record only ever existed in an unsent create.
func coalesceDelete(open []models.QueueOperation, op models.QueueOperation, sent bool) store.QueuePlan {
	var plan store.QueuePlan
	unsentCreate := false

	for _, p := range open {
		if p.Kind == models.OperationDelete {
			return store.QueuePlan{}
		}
		if p.Kind == models.OperationCreate {
			unsentCreate = true
		}
		plan.Remove = append(plan.Remove, p.ID)
	}

	if unsentCreate && !sent {
		return plan
	}

	plan.Insert = &op
	return plan
}

// mergePayload overlays the top-level keys of next onto base. When either
// side is not a JSON object next replaces base.
func mergePayload(base, next json.RawMessage) json.RawMessage {
	var baseFields, nextFields map[string]json.RawMessage
	if json.Unmarshal(base, &baseFields) != nil || baseFields == nil {
		return next
	}
	if json.Unmarshal(next, &nextFields) != nil || nextFields == nil {
		return next
	}

	for k, v := range nextFields {
		baseFields[k] = v
	}

	merged, err := json.Marshal(baseFields)
	if err != nil {
		return next
	}
	return merged
}
