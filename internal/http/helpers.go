package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"buste/internal/core"
	"buste/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	// Hint names the follow-up the client should offer: "confirm" to retry
	// with confirmed=true, "move-funds" to redirect into the transfer flow.
	Hint string `json:"hint,omitempty"`
}

// writeError maps domain sentinels to HTTP statuses. Overspend needing
// confirmation is 409; a hard envelope block is 422 and points the client
// at the fund-transfer flow.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var body errorBody
	body.Error = err.Error()

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrConfirmRequired):
		status = http.StatusConflict
		body.Hint = "confirm"
	case errors.Is(err, core.ErrEnvelopeBlocked):
		status = http.StatusUnprocessableEntity
		body.Hint = "move-funds"
	case errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrSameCategory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidFreq),
		errors.Is(err, services.ErrInsecureURL):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownAccount):
		status = http.StatusNotFound
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}
