package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"afaq/afaq/controllers"
	"afaq/afaq/types"
	"afaq/afaq/utils/logging"

	"go.uber.org/zap"
)

var (
	errNoSession      = errors.New("No session")
	errNoSessionFound = errors.New("No session found")
)

// generic wrapper to reduce boilerplate
func handleJSON(handler func(w http.ResponseWriter, r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(w, r)
		if err != nil {
			if status >= http.StatusInternalServerError {
				logging.ErrorLogger.Error("request failed",
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Error(err),
				)
			}
			writeJSON(w, status, types.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps controller errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, controllers.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrChatNotFound):
		return http.StatusNotFound
	case errors.Is(err, controllers.ErrAssistantUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
