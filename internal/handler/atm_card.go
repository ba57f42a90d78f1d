package handler

import (
	"log/slog"
	"net/http"

	"bank-records-api/internal/model"
	"bank-records-api/internal/service"
)

// ATMCardHandler handles ATM card HTTP requests
type ATMCardHandler struct {
	cardService *service.ATMCardService
	logger      *slog.Logger
}

func NewATMCardHandler(cardService *service.ATMCardService, logger *slog.Logger) *ATMCardHandler {
	return &ATMCardHandler{cardService: cardService, logger: logger}
}

// ListCards handles GET /v1/atm-cards
func (h *ATMCardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newListResponse(h.cardService.List(r.Context())))
}

// GetCard handles GET /v1/atm-cards/{id}
func (h *ATMCardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// CreateCard handles POST /v1/atm-cards
func (h *ATMCardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req model.ATMCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := h.cardService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard handles PUT /v1/atm-cards/{id}
func (h *ATMCardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.ATMCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := h.cardService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /v1/atm-cards/{id}
func (h *ATMCardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.cardService.Delete(r.Context(), id, requestConfirmer(r)); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
