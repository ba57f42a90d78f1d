package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

const (
	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"

	// IdempotencyHeader is the standard HTTP header for idempotency keys
	IdempotencyHeader = "Idempotency-Key"

	// IdempotencyHitHeader marks a response replayed from the idempotency store
	IdempotencyHitHeader = "X-Idempotency-Hit"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request id set by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID reuses the caller's X-Request-ID or assigns a fresh UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// Logging logs HTTP requests
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// CORS adds CORS headers
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key, X-Confirm, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Idempotency replays the stored response for a POST that repeats an
// Idempotency-Key. A key reused on a different URI or with a different body
// is rejected, as is a key whose first request is still in flight.
func Idempotency(repo *repository.IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	var inFlight sync.Map

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeErrorResponse(w, http.StatusBadRequest, "Failed to read request body", model.ErrCodeInvalidInput)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := repository.RequestFingerprint(r.Method, r.URL.RequestURI(), string(body))

			if _, busy := inFlight.LoadOrStore(key, struct{}{}); busy {
				writeErrorResponse(w, http.StatusConflict, "A request with this idempotency key is currently being processed", model.ErrCodeConflict)
				return
			}
			defer inFlight.Delete(key)

			record, err := repo.GetResponse(r.Context(), key)
			if err != nil {
				logger.Error("idempotency lookup failed", "error", err)
				writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", model.ErrCodeInternalError)
				return
			}

			if record != nil {
				if record.RequestHash != fingerprint {
					writeErrorResponse(w, http.StatusConflict, "Idempotency key reused with a different request", model.ErrCodeConflict)
					return
				}

				logger.Debug("idempotency hit", "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(IdempotencyHitHeader, "true")
				w.WriteHeader(record.ResponseStatus)
				_, _ = io.WriteString(w, record.ResponseBody)
				return
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK, capture: true}
			next.ServeHTTP(wrapped, r)

			// Cache successful responses only
			if wrapped.statusCode >= 200 && wrapped.statusCode < 300 {
				if err := repo.StoreResponse(r.Context(), key, fingerprint, wrapped.body.String(), wrapped.statusCode); err != nil {
					logger.Warn("failed to store idempotent response", "error", err)
				}
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	capture    bool
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.capture {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}
