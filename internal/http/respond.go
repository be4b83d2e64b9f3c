package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cppfool/jigoshop/internal/cart/repository"
	"github.com/cppfool/jigoshop/internal/customer"
	"github.com/cppfool/jigoshop/internal/domain"
	"github.com/cppfool/jigoshop/internal/orders"
	"github.com/cppfool/jigoshop/internal/product"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain sentinels to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		respondError(w, http.StatusBadRequest, "invalid_item", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		respondError(w, http.StatusConflict, "conflict", "cart was modified by another request, reload and retry")
	case errors.Is(err, customer.ErrNotCustomer):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, customer.ErrNotSupported):
		respondError(w, http.StatusNotImplemented, "not_supported", err.Error())
	case errors.Is(err, product.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
