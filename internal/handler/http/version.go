package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/utils"
)

type healthResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}

// getHealth is polled by the device connectivity monitor. It must stay cheap
// and unauthenticated.
func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, healthResponse{Status: "ok", ServerTime: time.Now().UTC()}, http.StatusOK)
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}
