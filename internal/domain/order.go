package domain

// Order is a read-only snapshot of an order as far as this service is
// concerned: the two addresses the resolver picks from. The full order
// lives in the orders system.
type Order struct {
	ID              int64   `json:"id"`
	BillingAddress  Address `json:"billing_address"`
	ShippingAddress Address `json:"shipping_address"`
}
