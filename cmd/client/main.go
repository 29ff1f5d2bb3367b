package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-resto-sync/internal/client"
	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("resto-sync-agent").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("resto-sync-agent", cfg.App.LogFile)
	log.Debug().
		Str("server", cfg.Adapter.HTTPAddress).
		Str("db", cfg.Storage.DB.DSN).
		Str("prefs", cfg.Prefs.Path).
		Str("device_api", cfg.Device.Address).
		Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	app, err := client.NewApp(ctx, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
