package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

// allowedTransitions is the sync state machine. Idle is both the initial
// state and the end of every cycle.
var allowedTransitions = map[models.SyncPhase][]models.SyncPhase{
	models.PhaseIdle:           {models.PhaseSyncing},
	models.PhaseSyncing:        {models.PhaseSuccess, models.PhasePartialFailure, models.PhaseFatalFailure, models.PhaseIdle},
	models.PhaseSuccess:        {models.PhaseIdle},
	models.PhasePartialFailure: {models.PhaseRetryScheduled, models.PhaseIdle},
	models.PhaseRetryScheduled: {models.PhaseSyncing, models.PhaseIdle},
	models.PhaseFatalFailure:   {models.PhaseIdle},
}

func canTransition(from, to models.SyncPhase) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// statePublisher holds the current [models.SyncState] and hands out copies.
type statePublisher struct {
	mu      sync.RWMutex
	state   models.SyncState
	updates *utils.Broadcaster[models.SyncState]
}

func newStatePublisher() *statePublisher {
	return &statePublisher{
		state:   models.SyncState{Phase: models.PhaseIdle, NetworkType: models.NetworkNone},
		updates: utils.NewBroadcaster[models.SyncState](),
	}
}

func (p *statePublisher) snapshot() models.SyncState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneState(p.state)
}

// update applies fn and publishes the result.
func (p *statePublisher) update(fn func(s *models.SyncState)) models.SyncState {
	p.mu.Lock()
	fn(&p.state)
	out := cloneState(p.state)
	p.mu.Unlock()

	p.updates.Publish(out)
	return cloneState(out)
}

// transition moves to phase if the state machine allows it.
func (p *statePublisher) transition(to models.SyncPhase, fn func(s *models.SyncState)) (models.SyncState, error) {
	var err error
	out := p.update(func(s *models.SyncState) {
		if s.Phase == to {
			return
		}
		if !canTransition(s.Phase, to) {
			err = fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, to)
			return
		}
		s.Phase = to
		s.IsCurrentlySyncing = to == models.PhaseSyncing
		if fn != nil {
			fn(s)
		}
	})
	return out, err
}

// transitionFrom moves from one phase to another only when the current phase
// is from, checked under the same lock as the move. moved is false when the
// state was elsewhere; nothing is published then.
func (p *statePublisher) transitionFrom(from, to models.SyncPhase, fn func(s *models.SyncState)) (moved bool, err error) {
	if !canTransition(from, to) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	p.mu.Lock()
	if p.state.Phase != from {
		p.mu.Unlock()
		return false, nil
	}
	p.state.Phase = to
	p.state.IsCurrentlySyncing = to == models.PhaseSyncing
	if fn != nil {
		fn(&p.state)
	}
	out := cloneState(p.state)
	p.mu.Unlock()

	p.updates.Publish(out)
	return true, nil
}

func cloneState(s models.SyncState) models.SyncState {
	s.LastSync = cloneTime(s.LastSync)
	s.NextScheduledSync = cloneTime(s.NextScheduledSync)
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
