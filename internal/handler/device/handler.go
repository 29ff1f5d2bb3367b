package device

import (
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/models"
)

const maxBodyBytes = 64 << 10

// NetworkReporter accepts connectivity observations pushed by the platform.
type NetworkReporter interface {
	Set(status models.NetworkStatus) bool
}

type Handler struct {
	services *service.ClientServices
	network  NetworkReporter

	logger *logger.Logger
}

func NewHandler(services *service.ClientServices, network NetworkReporter, logger *logger.Logger) *Handler {
	return &Handler{
		services: services,
		network:  network,
		logger:   logger.WithComponent("device-hook"),
	}
}
