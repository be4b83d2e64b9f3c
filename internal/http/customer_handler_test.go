package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppfool/jigoshop/internal/config"
	"github.com/cppfool/jigoshop/internal/customer"
	"github.com/cppfool/jigoshop/internal/customer/attribute"
	"github.com/cppfool/jigoshop/internal/domain"
	"github.com/cppfool/jigoshop/internal/orders"
	"github.com/cppfool/jigoshop/internal/users"
)

// The customer handler is wired against the real service with in-memory
// collaborators; the service itself is cheap enough not to mock.
func setupCustomerRouter(t *testing.T) (*chi.Mux, *attribute.MemoryStore, *config.Options) {
	t.Helper()

	directory := users.NewMemoryDirectory(
		users.User{ID: 42, Login: "jdoe", Name: "John Doe", Email: "jdoe@example.com"},
	)
	attrs := attribute.NewMemoryStore()
	opts, err := config.Load("", zerolog.Nop())
	require.NoError(t, err)

	service := customer.NewService(directory, attrs, opts, zerolog.Nop())
	provider := orders.NewMemoryProvider(domain.Order{
		ID:              17,
		BillingAddress:  domain.Address{Country: "US", State: "CA", Postcode: "90001"},
		ShippingAddress: domain.Address{Country: "CA", State: "ON", Postcode: "K1A0B1"},
	})

	h := NewCustomerHandler(service, provider, 5*time.Second)
	r := chi.NewRouter()
	r.Get("/customer", h.GetCurrent)
	r.Put("/customer/address", h.UpdateAddress)
	r.Get("/orders/{order_id}/addresses", h.GetOrderAddresses)
	return r, attrs, opts
}

func TestGetCurrent_Authenticated(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	recorder := httptest.NewRecorder()
	request := authed(httptest.NewRequest("GET", "/customer", nil), 42)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response domain.Customer
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "jdoe", response.Login)
}

func TestGetCurrent_Guest(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/customer", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response domain.Customer
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, domain.GuestID, response.ID)
}

func TestUpdateAddress_PersistsOnlyChangedFields(t *testing.T) {
	router, attrs, _ := setupCustomerRouter(t)

	body := bytes.NewBufferString(`{"country":"US","state":"NY","postcode":"10001"}`)
	recorder := httptest.NewRecorder()
	request := authed(httptest.NewRequest("PUT", "/customer/address", body), 42)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	stored, err := attrs.GetAll(request.Context(), 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		domain.FieldCountry:  "US",
		domain.FieldState:    "NY",
		domain.FieldPostcode: "10001",
	}, stored)
	assert.NotContains(t, stored, domain.FieldEmail)
	assert.NotContains(t, stored, domain.FieldID)
}

func TestGetOrderAddresses_DefaultFlags(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	recorder := httptest.NewRecorder()
	request := authed(httptest.NewRequest("GET", "/orders/17/addresses", nil), 42)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderAddressesResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	// defaults: shipping follows the shipping address, tax follows billing
	assert.Equal(t, "K1A0B1", response.Shipping.Postcode)
	assert.Equal(t, "90001", response.Tax.Postcode)
}

func TestGetOrderAddresses_FlagsFlipSelection(t *testing.T) {
	router, _, opts := setupCustomerRouter(t)
	opts.Set("shipping.only_to_billing", true)
	opts.Set("tax.shipping", true)

	recorder := httptest.NewRecorder()
	request := authed(httptest.NewRequest("GET", "/orders/17/addresses", nil), 42)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderAddressesResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "90001", response.Shipping.Postcode)
	assert.Equal(t, "K1A0B1", response.Tax.Postcode)
}

func TestGetOrderAddresses_UnknownOrder(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	recorder := httptest.NewRecorder()
	request := authed(httptest.NewRequest("GET", "/orders/999/addresses", nil), 42)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
