package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mockprep/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service errors to a status code and a
// human-readable message
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr  *service.ValidationError
		workflowErr    *service.WorkflowError
		persistenceErr *service.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.UserMessage(), Field: validationErr.Field})
		return
	case errors.As(err, &workflowErr):
		writeError(w, http.StatusBadGateway, workflowErr.UserMessage())
		return
	case errors.As(err, &persistenceErr):
		logger.Error("persistence failure", "op", persistenceErr.Op, "error", persistenceErr.Err)
		writeError(w, http.StatusServiceUnavailable, persistenceErr.UserMessage())
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrInterviewNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStaleSession):
		status = http.StatusConflict
	default:
		logger.Error("unhandled error", "error", err)
	}
	writeError(w, status, service.UserMessage(err))
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
