package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cppfool/jigoshop/internal/domain"
	"github.com/cppfool/jigoshop/internal/orders"
)

// CustomerService is the slice of the customer layer the handlers use.
type CustomerService interface {
	Current(ctx context.Context) (*domain.Customer, error)
	Save(ctx context.Context, entity domain.Entity) error
	ShippingFor(ctx context.Context, order *domain.Order) (domain.Addressed, error)
	TaxFor(ctx context.Context, order *domain.Order) (domain.Addressed, error)
}

type CustomerHandler struct {
	service CustomerService
	orders  orders.Provider
	timeout time.Duration
}

func NewCustomerHandler(service CustomerService, orders orders.Provider, timeout time.Duration) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		orders:  orders,
		timeout: timeout,
	}
}

type UpdateAddressRequestDTO struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type OrderAddressesResponseDTO struct {
	Shipping domain.Address `json:"shipping"`
	Tax      domain.Address `json:"tax"`
}

func (h *CustomerHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.service.Current(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// UpdateAddress mutates the session customer's address and saves. Only
// the fields that actually changed reach the attribute store; identity
// fields never do.
func (h *CustomerHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.service.Current(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	c.Address.Country = req.Country
	c.Address.State = req.State
	c.Address.Postcode = req.Postcode

	if err := h.service.Save(ctx, c); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// GetOrderAddresses reports which addresses shipping and tax would use
// for the given order under the current configuration.
func (h *CustomerHandler) GetOrderAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderIDStr := chi.URLParam(r, "order_id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	order, err := h.orders.Find(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	shipping, err := h.service.ShippingFor(ctx, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	tax, err := h.service.TaxFor(ctx, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, OrderAddressesResponseDTO{
		Shipping: shipping.Location(),
		Tax:      tax.Location(),
	})
}
