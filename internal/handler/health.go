package handler

import (
	"context"
	"net/http"
	"time"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

type HealthHandler struct {
	store   kvstore.Store
	backend string
	version string
}

func NewHealthHandler(store kvstore.Store, backend, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		version: version,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := model.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Store:     h.checkStore(r.Context()),
	}

	// If the store is unhealthy, mark overall status as unhealthy
	status := http.StatusOK
	if response.Store.Status != "healthy" {
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func (h *HealthHandler) checkStore(ctx context.Context) model.StoreHealth {
	storeHealth := model.StoreHealth{
		Status:  "unhealthy",
		Backend: h.backend,
	}

	if h.store == nil {
		return storeHealth
	}

	// Check connectivity with timeout
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kvstore.Ping(ctx, h.store); err != nil {
		storeHealth.Error = err.Error()
		return storeHealth
	}

	storeHealth.Status = "healthy"
	return storeHealth
}
