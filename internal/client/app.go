package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/adapter"
	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/handler/device"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/network"
	"github.com/MKhiriev/go-resto-sync/internal/prefs"
	"github.com/MKhiriev/go-resto-sync/internal/server"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/internal/tui"
	"github.com/MKhiriev/go-resto-sync/internal/workers"
	"github.com/MKhiriev/go-resto-sync/models"
)

// UI is the foreground part of the agent. The agent stops when it returns.
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	storages *store.ClientStorages
	prefs    *prefs.Store
	monitor  *network.Monitor
	services *service.ClientServices
	device   server.Server
	ui       UI

	logger *logger.Logger
}

// NewApp opens the local store and the preferences file and wires the sync
// engine, the device API and the dashboard.
func NewApp(ctx context.Context, cfg *config.ClientConfig, build models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	app, err := newApp(storages, cfg, log)
	if err != nil {
		return nil, errors.Join(err, storages.Close())
	}
	app.ui = tui.New(app.services, app.prefs, build, log)

	return app, nil
}

func newApp(storages *store.ClientStorages, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	preferences, err := prefs.Open(cfg.Prefs.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	syncAdapter, err := adapter.NewHTTPSyncAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create sync adapter: %w", err)
	}

	linkChecker, err := network.NewTCPChecker(cfg.Adapter.HTTPAddress, cfg.Sync.CheckTimeout)
	if err != nil {
		return nil, fmt.Errorf("create network checker: %w", err)
	}
	monitor := network.NewMonitor(
		network.AllOf(linkChecker, network.NewPingChecker(syncAdapter, cfg.Sync.CheckTimeout)),
		network.NewTypeDetector(cfg.Sync.NetworkType),
		cfg.Sync.CheckInterval,
		log,
	)

	services := service.NewClientServices(storages, syncAdapter, preferences, monitor, cfg.Sync, log)
	deviceAPI := device.NewHandler(services, monitor, log)

	return &App{
		storages: storages,
		prefs:    preferences,
		monitor:  monitor,
		services: services,
		device:   server.NewDeviceServer(deviceAPI.Init(), cfg.Device.Address, log),
		logger:   log.WithComponent("app"),
	}, nil
}

// Run recovers the queue, starts the background workers and shows the UI.
// Background workers are stopped when the UI returns, and the UI is stopped
// when a worker fails.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "*App.Run").Msg("failed to close local storage")
		}
	}()

	if err := a.prepare(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	background := workers.New(a.logger,
		workers.Func("network-monitor", a.monitor.Run),
		workers.Func("preferences-watch", a.prefs.Watch),
		workers.Func("sync-manager", a.services.Manager.Run),
		workers.Func("sync-scheduler", a.services.Scheduler.Run),
		workers.Blocking("device-api", a.device.RunServer, a.device.Shutdown),
	)

	done := make(chan error, 1)
	go func() {
		done <- background.Run(ctx)
		cancel()
	}()

	if !a.services.Manager.RequestSync(service.TriggerStartup) {
		a.logger.Info().Msg("startup sync skipped, sync is not allowed right now")
	}

	uiErr := a.ui.Run(ctx)
	cancel()
	bgErr := <-done

	return errors.Join(uiErr, bgErr)
}

// prepare repairs the queue and seeds the engine with the current network
// status before any cycle can start.
func (a *App) prepare(ctx context.Context) error {
	written, err := a.services.Queue.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recover sync queue: %w", err)
	}
	if written > 0 {
		a.logger.Warn().Int("operations", written).Msg("sync queue was rebuilt from local records")
	}

	status := a.monitor.Check(ctx)
	a.services.Manager.SetNetworkStatus(status)
	state := a.services.Manager.Refresh(ctx)

	a.logger.Info().
		Bool("online", status.Online).
		Str("network", string(status.Type)).
		Int("pending", state.PendingChanges).
		Int("dead_letters", state.DeadLetters).
		Msg("sync agent started")
	return nil
}
