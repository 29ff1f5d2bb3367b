package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-resto-sync/internal/app"
	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

// applyBatch handles POST /api/sync/batch. Per-operation failures are part
// of a 200 response; only a malformed batch as a whole is an HTTP error.
func (h *Handler) applyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.BatchSyncRequest
	if !decodeSyncBody(w, r, &req, "*Handler.applyBatch") {
		return
	}

	resp, err := h.services.BatchSyncService.Apply(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("error applying batch")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("error writing batch response")
	}
}

// fetchRecords handles POST /api/sync/records. Unknown records are listed
// in the response, not reported as an error.
func (h *Handler) fetchRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.FetchRecordsRequest
	if !decodeSyncBody(w, r, &req, "*Handler.fetchRecords") {
		return
	}

	resp, err := h.services.BatchSyncService.Fetch(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.fetchRecords").Msg("error fetching records")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.fetchRecords").Msg("error writing records response")
	}
}

// decodeSyncBody reads a size-limited JSON body into dst and writes the error
// response itself when that fails.
func decodeSyncBody(w http.ResponseWriter, r *http.Request, dst any, funcName string) bool {
	log := logger.FromRequest(r)

	body := http.MaxBytesReader(w, r.Body, maxBatchBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Err(err).Str("func", funcName).Msg(app.MsgBatchTooLarge)
			utils.WriteError(w, app.MsgBatchTooLarge, http.StatusRequestEntityTooLarge)
			return false
		}
		log.Err(err).Str("func", funcName).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return false
	}
	return true
}
