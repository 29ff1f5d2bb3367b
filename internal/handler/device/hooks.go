package device

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-resto-sync/internal/app"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

type acceptedResponse struct {
	Accepted bool `json:"accepted"`
}

type networkResponse struct {
	Changed bool                 `json:"changed"`
	Status  models.NetworkStatus `json:"status"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errors.Join(errInvalidJSON, err)
	}
	return nil
}

// pushNotification hands a push payload to the notification bridge. Non
// order events are accepted and ignored.
func (h *Handler) pushNotification(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var n models.PushNotification
	if err := decodeBody(w, r, &n); err != nil {
		log.Err(err).Str("func", "*Handler.pushNotification").Send()
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.Notifications.HandleNotification(r.Context(), n); err != nil {
		log.Err(err).Str("func", "*Handler.pushNotification").Str("type", n.Type).Msg(app.MsgNotificationNotApplied)
		if errors.Is(err, service.ErrEmptyNotification) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteError(w, app.MsgNotificationNotApplied, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, acceptedResponse{Accepted: true}, http.StatusAccepted)
}

// reportNetwork records a connectivity change observed by the platform.
func (h *Handler) reportNetwork(w http.ResponseWriter, r *http.Request) {
	var status models.NetworkStatus
	if err := decodeBody(w, r, &status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.reportNetwork").Send()
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	changed := h.network.Set(status)
	utils.WriteJSON(w, networkResponse{Changed: changed, Status: status}, http.StatusOK)
}

func (h *Handler) changeLifecycle(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "state") {
	case "background":
		h.services.Manager.EnterBackground()
	case "foreground":
		h.services.Manager.EnterForeground()
	default:
		utils.WriteError(w, errUnknownLifecycleState.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, acceptedResponse{Accepted: true}, http.StatusAccepted)
}
