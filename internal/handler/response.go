package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bank-records-api/internal/model"
	"bank-records-api/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent, so an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, model.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var serviceErr *service.ServiceError
	if errors.As(err, &serviceErr) {
		status := http.StatusInternalServerError
		switch serviceErr.Code {
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeValidation, model.ErrCodeInvalidInput:
			status = http.StatusBadRequest
		case model.ErrCodeConflict:
			status = http.StatusConflict
		case model.ErrCodeUnsupported:
			status = http.StatusUnprocessableEntity
		case model.ErrCodeNotConfirmed:
			status = http.StatusPreconditionRequired
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, model.ErrorResponse{
				Error: serviceErr.Message,
				Code:  serviceErr.Code,
				Field: serviceErr.Field,
			})
			return
		}
	}

	// Unknown error
	logger.Error("request failed", "error", err)
	writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", model.ErrCodeInternalError)
}

// decodeJSON decodes the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", model.ErrCodeInvalidInput)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", model.ErrCodeInvalidInput)
		return false
	}
	return true
}

// pathID extracts the {id} URL parameter, answering 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid ID format", model.ErrCodeInvalidInput)
		return 0, false
	}
	return id, true
}

// requestConfirmer answers yes when the caller passed confirm=true or an
// X-Confirm: yes header. Anything else declines.
func requestConfirmer(r *http.Request) service.Confirmer {
	return service.ConfirmFunc(func(string) bool {
		if v, err := strconv.ParseBool(r.URL.Query().Get("confirm")); err == nil && v {
			return true
		}
		return strings.EqualFold(r.Header.Get("X-Confirm"), "yes")
	})
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}
