package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

type syncScheduler struct {
	manager SyncManager
	prefs   PreferencesSource
	network NetworkSource
	now     func() time.Time
	ticker  func(d time.Duration) *time.Ticker
	logger  *logger.Logger
}

// NewSyncScheduler creates the scheduler. It does nothing until Run is
// called.
func NewSyncScheduler(manager SyncManager, prefs PreferencesSource, network NetworkSource, logger *logger.Logger) BackgroundScheduler {
	return &syncScheduler{
		manager: manager,
		prefs:   prefs,
		network: network,
		now:     time.Now,
		ticker:  time.NewTicker,
		logger:  logger.WithComponent("scheduler"),
	}
}

// Run keeps a recurring timer at the configured interval while auto-sync is
// on and restarts it whenever the preferences change. It also forwards
// connectivity changes to the manager and asks for a sync when the device
// comes back online. A tick that is gated is simply skipped.
func (s *syncScheduler) Run(ctx context.Context) error {
	prefsCh, unsubscribePrefs := s.prefs.Subscribe()
	defer unsubscribePrefs()
	netCh, unsubscribeNet := s.network.Subscribe()
	defer unsubscribeNet()

	last := s.network.Current()
	s.manager.SetNetworkStatus(last)

	current := s.prefs.Current()
	ticker, tickC := s.startTicker(current)
	defer func() {
		stopTicker(ticker)
		s.manager.SetNextScheduledSync(nil)
	}()

	s.logger.Info().
		Bool("auto_sync", current.AutoSync).
		Dur("interval", current.SyncInterval()).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return nil

		case <-tickC:
			s.scheduleNext(current)
			if !s.manager.RequestSync(TriggerTimer) {
				s.logger.Debug().Msg("scheduled sync skipped")
			}

		case p, ok := <-prefsCh:
			if !ok {
				prefsCh = nil
				continue
			}
			if p.AutoSync == current.AutoSync && p.SyncIntervalMinutes == current.SyncIntervalMinutes {
				current = p
				continue
			}
			current = p
			stopTicker(ticker)
			ticker, tickC = s.startTicker(current)
			s.logger.Info().
				Bool("auto_sync", current.AutoSync).
				Dur("interval", current.SyncInterval()).
				Msg("schedule changed")

		case status, ok := <-netCh:
			if !ok {
				netCh = nil
				continue
			}
			s.manager.SetNetworkStatus(status)
			if status.Online && !last.Online {
				s.manager.RequestSync(TriggerReconnect)
			}
			last = status
		}
	}
}

// startTicker returns a nil channel when auto-sync is off, so the select
// never fires on it.
func (s *syncScheduler) startTicker(p models.SyncPreferences) (*time.Ticker, <-chan time.Time) {
	if !p.AutoSync || p.SyncInterval() <= 0 {
		s.manager.SetNextScheduledSync(nil)
		return nil, nil
	}

	ticker := s.ticker(p.SyncInterval())
	s.scheduleNext(p)
	return ticker, ticker.C
}

func (s *syncScheduler) scheduleNext(p models.SyncPreferences) {
	next := s.now().Add(p.SyncInterval()).UTC()
	s.manager.SetNextScheduledSync(&next)
}

func stopTicker(t *time.Ticker) {
	if t != nil {
		t.Stop()
	}
}
