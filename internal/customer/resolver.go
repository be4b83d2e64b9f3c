package customer

import (
	"context"

	"github.com/cppfool/jigoshop/internal/domain"
)

// CurrentSource yields the session's customer when no order scopes the
// resolution.
type CurrentSource interface {
	Current(ctx context.Context) (*domain.Customer, error)
}

// Resolver decides which customer context feeds a shipping or tax
// calculation. Both flags come in as explicit arguments so resolution
// stays deterministic; callers read them from live configuration on
// every call.
type Resolver struct {
	current CurrentSource
}

func NewResolver(current CurrentSource) *Resolver {
	return &Resolver{current: current}
}

// ForShipping resolves the customer whose address a shipping
// calculation uses. Without an order the session customer applies
// unchanged. With an order, a throwaway address-only customer is built
// from the billing address when onlyToBilling is set, else from the
// shipping address.
func (r *Resolver) ForShipping(ctx context.Context, order *domain.Order, onlyToBilling bool) (domain.Addressed, error) {
	if order == nil {
		return r.current.Current(ctx)
	}
	address := order.ShippingAddress
	if onlyToBilling {
		address = order.BillingAddress
	}
	return derive(address), nil
}

// ForTax resolves the customer whose address a tax calculation uses.
// The flag direction is the opposite of shipping: taxFromShipping picks
// the order's shipping address, otherwise billing applies.
func (r *Resolver) ForTax(ctx context.Context, order *domain.Order, taxFromShipping bool) (domain.Addressed, error) {
	if order == nil {
		return r.current.Current(ctx)
	}
	address := order.BillingAddress
	if taxFromShipping {
		address = order.ShippingAddress
	}
	return derive(address), nil
}

// derive copies only the fields resolution cares about; street and city
// never feed a calculation. No validation happens here, empty strings
// pass through.
func derive(address domain.Address) domain.DerivedCustomer {
	return domain.DerivedCustomer{Address: domain.Address{
		Country:  address.Country,
		State:    address.State,
		Postcode: address.Postcode,
	}}
}
