package domain

import "strconv"

// GuestID is the sentinel id for a shopper without an account. It is a
// valid key for the attribute store, never for the user directory.
const GuestID int64 = 0

// Address field names as stored in the attribute store.
const (
	FieldID       = "id"
	FieldLogin    = "login"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldCountry  = "country"
	FieldState    = "state"
	FieldPostcode = "postcode"
)

type Address struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
}

// Addressed is the read-only view shared by persisted customers and
// address-only contexts derived from an order. Shipping and tax
// calculations depend on nothing else.
type Addressed interface {
	Location() Address
}

// Entity is the shape the customer service persists. Only *Customer
// satisfies it meaningfully; the save path type-checks the concrete
// kind and rejects anything else.
type Entity interface {
	EntityID() int64
	StateToSave() map[string]string
}

// Customer is a persisted shopper, registered or guest.
type Customer struct {
	ID       int64   `json:"id"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	loadedAt map[string]string
}

func (c *Customer) EntityID() int64 {
	return c.ID
}

func (c *Customer) Location() Address {
	return c.Address
}

func (c *Customer) IsGuest() bool {
	return c.ID == GuestID
}

func (c *Customer) fields() map[string]string {
	return map[string]string{
		FieldID:       strconv.FormatInt(c.ID, 10),
		FieldLogin:    c.Login,
		FieldName:     c.Name,
		FieldEmail:    c.Email,
		FieldCountry:  c.Address.Country,
		FieldState:    c.Address.State,
		FieldPostcode: c.Address.Postcode,
	}
}

// MarkLoaded snapshots the current field values. StateToSave later
// reports only fields that differ from this snapshot.
func (c *Customer) MarkLoaded() {
	c.loadedAt = c.fields()
}

// StateToSave returns the fields changed since MarkLoaded. A customer
// that was never marked reports every field as changed.
func (c *Customer) StateToSave() map[string]string {
	changed := make(map[string]string)
	for field, value := range c.fields() {
		if c.loadedAt == nil || c.loadedAt[field] != value {
			changed[field] = value
		}
	}
	return changed
}

// DerivedCustomer carries only an address copied from an order, built
// for one shipping or tax resolution and discarded. It deliberately
// does not implement Entity, so the persistence path cannot accept it.
type DerivedCustomer struct {
	Address Address `json:"address"`
}

func (d DerivedCustomer) Location() Address {
	return d.Address
}
