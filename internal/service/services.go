package service

import (
	"github.com/MKhiriev/go-resto-sync/internal/config"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

type Services struct {
	AuthService      AuthService
	AppInfoService   AppInfoService
	BatchSyncService BatchSyncService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:      NewAuthService(cfg.Server, logger),
		AppInfoService:   appInfo,
		BatchSyncService: NewBatchSyncService(storages.SyncRepository, utils.NewUUIDGenerator(), cfg.Server.MaxBatchSize, logger),
	}, nil
}
