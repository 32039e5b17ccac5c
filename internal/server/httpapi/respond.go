package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

const (
	maxBodyBytes       = 1 << 20
	maxImportBodyBytes = 32 << 20
)

type errorResponse struct {
	Error  string             `json:"error"`
	Fields map[string]string  `json:"fields,omitempty"`
	Items  []common.ItemError `json:"items,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
}

// writeServiceError maps a service error onto a status code and body. Causes
// of 500 responses are logged, never returned.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var bulk *common.BulkValidationError
	var verr *common.ValidationError

	switch {
	case errors.As(err, &bulk):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: common.ErrorValidation.Error(), Items: bulk.Items})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: common.ErrorValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, common.ErrorInvalidID):
		writeError(w, http.StatusBadRequest, common.ErrorInvalidID.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeUnauthenticated(w)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, common.ErrorNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "export archive not configured")
	default:
		a.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}

// decodeJSON reads a single JSON value from the request body into dst.
// Anything but whitespace after it is rejected. On failure it writes a 400
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON")
		}
		return false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
