package service

import (
	"context"

	"github.com/MKhiriev/go-resto-sync/models"
)

// BatchSyncService applies device batches on the reference server.
type BatchSyncService interface {
	// Apply processes the operations in order and returns one result per
	// operation. A re-delivered operation id returns the stored result and
	// changes nothing.
	Apply(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error)

	// Fetch returns the current server copies of the referenced records,
	// tombstones included.
	Fetch(ctx context.Context, req models.FetchRecordsRequest) (models.FetchRecordsResponse, error)
}

type AuthService interface {
	CreateToken(ctx context.Context, accountID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
