package device

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-resto-sync/internal/app"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/store"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
)

// syncNow requests a manual cycle. A gated request (offline, or wifi-only
// on another link) answers 409 with the current state unchanged.
func (h *Handler) syncNow(w http.ResponseWriter, r *http.Request) {
	if !h.services.Manager.RequestSync(service.TriggerManual) {
		utils.WriteError(w, service.ErrSyncGated.Error(), http.StatusConflict)
		return
	}
	utils.WriteJSON(w, acceptedResponse{Accepted: true}, http.StatusAccepted)
}

func (h *Handler) cancelSync(w http.ResponseWriter, r *http.Request) {
	h.services.Manager.Cancel()
	utils.WriteJSON(w, acceptedResponse{Accepted: true}, http.StatusAccepted)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Manager.Refresh(r.Context()), http.StatusOK)
}

func (h *Handler) listDeadLetters(w http.ResponseWriter, r *http.Request) {
	ops, err := h.services.Queue.DeadLetters(r.Context())
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.listDeadLetters").Send()
		utils.WriteError(w, app.MsgDeadLettersUnavailable, http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, ops, http.StatusOK)
}

// retryDeadLetter gives a dead letter a fresh retry budget and asks for a
// cycle.
func (h *Handler) retryDeadLetter(w http.ResponseWriter, r *http.Request) {
	op, err := h.services.Queue.RetryDeadLetter(r.Context(), chi.URLParam(r, "operationID"))
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.retryDeadLetter").Send()
		if errors.Is(err, store.ErrOperationNotFound) {
			utils.WriteError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteError(w, app.MsgRetryDeadLetterFailed, http.StatusInternalServerError)
		return
	}

	h.services.Manager.RequestSync(service.TriggerManual)
	utils.WriteJSON(w, op, http.StatusOK)
}
