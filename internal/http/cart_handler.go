package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cppfool/jigoshop/internal/cart"
	"github.com/cppfool/jigoshop/internal/domain"
	"github.com/cppfool/jigoshop/internal/messages"
	"github.com/cppfool/jigoshop/internal/product"
	"github.com/cppfool/jigoshop/internal/users"
)

// CartService is what the handler needs from the cart layer; the
// consumer defines it so tests can swap in a mock.
type CartService interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	ApplyUpdates(ctx context.Context, userID int64, updates []cart.QuantityUpdate) (*cart.BatchResult, error)
	AddItem(ctx context.Context, userID int64, item domain.CartItem) (*domain.Cart, error)
	Remove(ctx context.Context, userID int64, productID int64) (*domain.Cart, error)
}

type CartHandler struct {
	service CartService
	catalog product.Catalog
	timeout time.Duration
}

func NewCartHandler(service CartService, catalog product.Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		service: service,
		catalog: catalog,
		timeout: timeout,
	}
}

type UpdateCartRequestDTO struct {
	Cart []cart.QuantityUpdate `json:"cart"`
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartResponseDTO carries the persisted cart plus the user-facing
// messages accumulated while handling the request.
type CartResponseDTO struct {
	Cart    *domain.Cart `json:"cart"`
	Notices []string     `json:"notices"`
	Errors  []string     `json:"errors"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := sessionUserID(r.Context())

	c, err := h.service.Get(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// UpdateCart handles the cart page form post: a batch of quantity
// updates in submission order, optionally followed by a single-item
// remove directive (?action=remove-item&item=N). Per-item failures
// become error messages; the rest of the batch still applies.
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := sessionUserID(r.Context())
	msgs := messages.New()

	var req UpdateCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var current *domain.Cart

	if len(req.Cart) > 0 {
		result, err := h.service.ApplyUpdates(ctx, userID, req.Cart)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		current = result.Cart

		if len(result.Failures) == 0 {
			msgs.AddNotice("Successfully updated the cart.")
		} else {
			for _, failure := range result.Failures {
				msgs.AddError(fmt.Sprintf("Error occurred while updating cart item %d: %s",
					failure.ProductID, failure.Err.Error()))
			}
		}
	}

	if productID, ok := removeDirective(r); ok {
		c, err := h.service.Remove(ctx, userID, productID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		current = c
		msgs.AddNotice("Successfully removed item from cart.")
	}

	if current == nil {
		c, err := h.service.Get(ctx, userID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		current = c
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Cart:    current,
		Notices: msgs.Notices(),
		Errors:  msgs.Errors(),
	})
}

// AddItem puts a product into the cart after checking it exists in the
// catalog (the product page posts here).
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := sessionUserID(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if _, err := h.catalog.GetProduct(ctx, req.ProductID); err != nil {
		handleServiceError(w, err)
		return
	}

	c, err := h.service.AddItem(ctx, userID, domain.CartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		AddedAt:   time.Now(),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := sessionUserID(r.Context())

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	c, err := h.service.Remove(ctx, userID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// removeDirective parses the original storefront remove contract:
// ?action=remove-item&item=<numeric id>.
func removeDirective(r *http.Request) (int64, bool) {
	if r.URL.Query().Get("action") != "remove-item" {
		return 0, false
	}
	item, err := strconv.ParseInt(r.URL.Query().Get("item"), 10, 64)
	if err != nil || item <= 0 {
		return 0, false
	}
	return item, true
}

// sessionUserID falls back to the guest id so anonymous shoppers still
// get a cart.
func sessionUserID(ctx context.Context) int64 {
	if id, ok := users.FromContext(ctx); ok {
		return id
	}
	return domain.GuestID
}
