package network

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

// Monitor tracks the last observed connectivity status.
type Monitor struct {
	checker  Checker
	detector TypeDetector
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	current models.NetworkStatus

	updates *utils.Broadcaster[models.NetworkStatus]
	logger  *logger.Logger
}

// NewMonitor builds a monitor that starts offline until the first check.
func NewMonitor(checker Checker, detector TypeDetector, interval time.Duration, logger *logger.Logger) *Monitor {
	return &Monitor{
		checker:  checker,
		detector: detector,
		interval: interval,
		now:      time.Now,
		current:  models.NetworkStatus{Online: false, Type: models.NetworkNone},
		updates:  utils.NewBroadcaster[models.NetworkStatus](),
		logger:   logger.WithComponent("network"),
	}
}

// Current returns the last observed status.
func (m *Monitor) Current() models.NetworkStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe returns a channel of status transitions.
func (m *Monitor) Subscribe() (<-chan models.NetworkStatus, func()) {
	return m.updates.Subscribe()
}

// Set records status and publishes it if the online flag or the link type
// changed. It reports whether a transition happened.
func (m *Monitor) Set(status models.NetworkStatus) bool {
	if !status.Online {
		status.Type = models.NetworkNone
	}
	if status.Type == "" {
		status.Type = models.NetworkUnknown
	}
	if status.At.IsZero() {
		status.At = m.now()
	}

	m.mu.Lock()
	prev := m.current
	if prev.Online == status.Online && prev.Type == status.Type {
		m.mu.Unlock()
		return false
	}
	m.current = status
	m.mu.Unlock()

	m.logger.Info().
		Bool("online", status.Online).
		Str("type", string(status.Type)).
		Bool("was_online", prev.Online).
		Msg("connectivity changed")

	m.updates.Publish(status)
	return true
}

// Check tests reachability once and records the result.
func (m *Monitor) Check(ctx context.Context) models.NetworkStatus {
	status := models.NetworkStatus{Online: m.checker.Reachable(ctx), At: m.now()}
	if status.Online {
		status.Type = m.detector.Detect()
	}
	m.Set(status)
	return m.Current()
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.updates.Close()
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
