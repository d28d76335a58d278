package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// ErrorResponse is the JSON body of an error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError maps a service error onto an HTTP status and writes the JSON
// error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPhaseState):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotDetected),
		errors.Is(err, service.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrDependency):
		status = http.StatusBadGateway
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	}

	requestID := chimiddleware.GetReqID(r.Context())
	if logger != nil {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: requestID})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
