package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codecity/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError classifies err and writes it with the matching status.
// Server-side failures are logged; their message is not exposed.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := errors.CodeOf(err)
	status := errors.HTTPStatus(code)
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	if status >= http.StatusInternalServerError && code == errors.ErrCodeInternal {
		logger.Error("internal error", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
