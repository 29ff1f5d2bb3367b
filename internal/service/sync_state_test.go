package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.SyncPhase
		want     bool
	}{
		{models.PhaseIdle, models.PhaseSyncing, true},
		{models.PhaseIdle, models.PhaseSuccess, false},
		{models.PhaseSyncing, models.PhaseSuccess, true},
		{models.PhaseSyncing, models.PhasePartialFailure, true},
		{models.PhaseSyncing, models.PhaseFatalFailure, true},
		{models.PhaseSyncing, models.PhaseIdle, true},
		{models.PhaseSyncing, models.PhaseRetryScheduled, false},
		{models.PhaseSuccess, models.PhaseIdle, true},
		{models.PhaseSuccess, models.PhaseSyncing, false},
		{models.PhasePartialFailure, models.PhaseRetryScheduled, true},
		{models.PhasePartialFailure, models.PhaseSyncing, false},
		{models.PhaseRetryScheduled, models.PhaseSyncing, true},
		{models.PhaseRetryScheduled, models.PhaseIdle, true},
		{models.PhaseFatalFailure, models.PhaseIdle, true},
		{models.PhaseFatalFailure, models.PhaseSyncing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, canTransition(tt.from, tt.to))
		})
	}
}

func TestStatePublisher_Transition(t *testing.T) {
	p := newStatePublisher()
	assert.Equal(t, models.PhaseIdle, p.snapshot().Phase)

	s, err := p.transition(models.PhaseSyncing, nil)
	require.NoError(t, err)
	assert.True(t, s.IsCurrentlySyncing)

	_, err = p.transition(models.PhaseRetryScheduled, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.PhaseSyncing, p.snapshot().Phase, "rejected transition leaves the state alone")

	s, err = p.transition(models.PhaseSuccess, func(s *models.SyncState) { s.LastError = "" })
	require.NoError(t, err)
	assert.False(t, s.IsCurrentlySyncing)

	_, err = p.transition(models.PhaseSuccess, nil)
	assert.NoError(t, err, "staying in the same phase is allowed")
}

func TestStatePublisher_SnapshotsAreCopies(t *testing.T) {
	p := newStatePublisher()
	ch, unsubscribe := p.updates.Subscribe()
	defer unsubscribe()

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.update(func(s *models.SyncState) { s.LastSync = &at })

	published := <-ch
	require.NotNil(t, published.LastSync)

	*published.LastSync = at.Add(time.Hour)
	snap := p.snapshot()
	assert.Equal(t, at, *snap.LastSync)

	*snap.LastSync = at.Add(2 * time.Hour)
	assert.Equal(t, at, *p.snapshot().LastSync)
}

func TestStatePublisher_TransitionFrom(t *testing.T) {
	p := newStatePublisher()
	_, err := p.transition(models.PhaseSyncing, nil)
	require.NoError(t, err)

	ch, unsubscribe := p.updates.Subscribe()
	defer unsubscribe()

	moved, err := p.transitionFrom(models.PhaseRetryScheduled, models.PhaseIdle, nil)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, models.PhaseSyncing, p.snapshot().Phase, "a cycle that already started keeps running")
	assert.True(t, p.snapshot().IsCurrentlySyncing)
	select {
	case s := <-ch:
		t.Fatalf("nothing should be published, got %s", s.Phase)
	default:
	}

	_, err = p.transitionFrom(models.PhaseIdle, models.PhaseSuccess, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	moved, err = p.transitionFrom(models.PhaseSyncing, models.PhaseFatalFailure, func(s *models.SyncState) { s.LastError = "unauthorized" })
	require.NoError(t, err)
	assert.True(t, moved)
	s := <-ch
	assert.Equal(t, models.PhaseFatalFailure, s.Phase)
	assert.Equal(t, "unauthorized", s.LastError)
	assert.False(t, s.IsCurrentlySyncing)
}
