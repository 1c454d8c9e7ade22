package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/wb"
)

// ErrBadRequest marks malformed or missing request parameters.
var ErrBadRequest = errors.New("bad request")

// ToHTTPStatus maps domain errors onto HTTP status codes.
func ToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInvalidEnum),
		errors.Is(err, wb.ErrInvalidLoading):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as plain text with its mapped status.
// Internal errors are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	code := ToHTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context(), log).Error(r.Context(), "request failed", logging.Err(err))
		msg = http.StatusText(code)
	} else {
		logging.FromContext(r.Context(), log).Info(r.Context(), "request rejected",
			logging.Int("status", code), logging.Err(err))
	}
	http.Error(w, msg, code)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	code := ToHTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context(), log).Error(r.Context(), "request failed", logging.Err(err))
		msg = http.StatusText(code)
	}
	writeJSON(w, r, log, code, map[string]string{"error": msg})
}

// writeJSON encodes v before committing the status so an unencodable value
// turns into a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, r *http.Request, log logging.Logger, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context(), log).Error(r.Context(), "encode response", logging.Err(err))
		code = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": http.StatusText(code)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
