package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/handler"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/server"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("resto-sync-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Int("max_batch_size", cfg.Server.MaxBatchSize).
		Dur("token_duration", cfg.Server.TokenDuration).
		Msg("received configs")

	ctx := context.Background()
	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if cfg.Server.IssueTokenFor != "" {
		token, err := services.AuthService.CreateToken(ctx, cfg.Server.IssueTokenFor)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.SignedString)
		return
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
