package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"banca/internal/core"
	applog "banca/internal/log"
	"banca/internal/middleware/trace"
	"banca/internal/services"
	"banca/internal/transfer"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// validationErrors are rejections of user input by the domain layer.
var validationErrors = []error{
	core.ErrInvalidOutcome,
	core.ErrInvalidCategory,
	core.ErrInvalidSide,
	core.ErrInvalidTier,
	core.ErrInvalidStake,
	core.ErrInvalidOdds,
	core.ErrInvalidHandicap,
	core.ErrEmptySide,
	core.ErrEmptyEvent,
	core.ErrEmptyGame,
	core.ErrMissingTimestamp,
	core.ErrDuplicateID,
	transfer.ErrMalformedPayload,
	transfer.ErrNotAList,
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrResetNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err. Server-side failures
// are logged and their detail is not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, op, nil)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg, RequestID: w.Header().Get(trace.HeaderRequestID)})
}
