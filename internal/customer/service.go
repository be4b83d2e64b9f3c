package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cppfool/jigoshop/internal/config"
	"github.com/cppfool/jigoshop/internal/customer/attribute"
	"github.com/cppfool/jigoshop/internal/domain"
	"github.com/cppfool/jigoshop/internal/users"
)

var (
	// ErrNotCustomer guards the save path against the wrong entity kind.
	ErrNotCustomer = errors.New("entity is not a customer")
	// ErrNotSupported marks lookup styles this entity kind has no
	// representation for.
	ErrNotSupported = errors.New("operation not supported for customers")
)

// Service resolves, loads and saves customers. Identity data comes from
// the host's user directory; shop-specific fields live in the attribute
// store.
type Service struct {
	directory users.Directory
	attrs     attribute.Store
	opts      *config.Options
	resolver  *Resolver
	log       zerolog.Logger
}

func NewService(directory users.Directory, attrs attribute.Store, opts *config.Options, log zerolog.Logger) *Service {
	s := &Service{
		directory: directory,
		attrs:     attrs,
		opts:      opts,
		log:       log,
	}
	s.resolver = NewResolver(s)
	return s
}

// Current returns the session's customer: the authenticated user's
// record, or the guest customer when the request carries no identity.
func (s *Service) Current(ctx context.Context) (*domain.Customer, error) {
	id, ok := users.FromContext(ctx)
	if !ok || id == domain.GuestID {
		return s.guest(ctx)
	}
	return s.Find(ctx, id)
}

// Find loads the customer with the given id, merging directory identity
// with stored attributes.
func (s *Service) Find(ctx context.Context, id int64) (*domain.Customer, error) {
	if id == domain.GuestID {
		return s.guest(ctx)
	}

	user, err := s.directory.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", id, err)
	}
	return s.fetch(ctx, user)
}

// FindAll returns every resolvable customer keyed by id. The guest
// entry is always present: it stands for the possibility of guest
// checkout, not a live session.
func (s *Service) FindAll(ctx context.Context) (map[int64]*domain.Customer, error) {
	guest, err := s.guest(ctx)
	if err != nil {
		return nil, err
	}
	customers := map[int64]*domain.Customer{
		domain.GuestID: guest,
	}

	list, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, user := range list {
		c, errFetch := s.fetch(ctx, user)
		if errFetch != nil {
			return nil, errFetch
		}
		customers[user.ID] = c
	}

	return customers, nil
}

// Save persists the fields changed since the customer was loaded, one
// attribute write per field. Identity fields (id, name, email, login)
// are never written through this path: the user directory owns them.
// An empty changed set writes nothing.
func (s *Service) Save(ctx context.Context, entity domain.Entity) error {
	c, ok := entity.(*domain.Customer)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrNotCustomer, entity)
	}

	fields := c.StateToSave()

	_, hasID := fields[domain.FieldID]
	_, hasName := fields[domain.FieldName]
	_, hasEmail := fields[domain.FieldEmail]
	_, hasLogin := fields[domain.FieldLogin]
	if hasID || hasName || hasEmail || hasLogin {
		delete(fields, domain.FieldID)
		delete(fields, domain.FieldName)
		delete(fields, domain.FieldEmail)
		delete(fields, domain.FieldLogin)
	}

	if len(fields) == 0 {
		return nil
	}

	// Field writes are independent; a crash mid-loop leaves the already
	// written fields in place, which every write tolerates on retry.
	for field, value := range fields {
		if err := s.attrs.Set(ctx, c.ID, field, value); err != nil {
			return fmt.Errorf("failed to save customer field %s: %w", field, err)
		}
	}

	s.log.Debug().Int64("customer_id", c.ID).Int("fields", len(fields)).Msg("customer saved")
	c.MarkLoaded()
	return nil
}

// FindForPost always fails: customers are not stored as content items.
func (s *Service) FindForPost(_ context.Context, _ int64) (domain.Entity, error) {
	return nil, fmt.Errorf("%w: customers are not stored as posts", ErrNotSupported)
}

// FindByQuery always fails: customers cannot be looked up like content.
func (s *Service) FindByQuery(_ context.Context, _ string) ([]domain.Entity, error) {
	return nil, fmt.Errorf("%w: customers cannot be queried like posts", ErrNotSupported)
}

// ShippingFor resolves the customer context for a shipping calculation,
// reading the shipping.only_to_billing option at call time.
func (s *Service) ShippingFor(ctx context.Context, order *domain.Order) (domain.Addressed, error) {
	return s.resolver.ForShipping(ctx, order, s.opts.ShippingOnlyToBilling())
}

// TaxFor resolves the customer context for a tax calculation, reading
// the tax.shipping option at call time.
func (s *Service) TaxFor(ctx context.Context, order *domain.Order) (domain.Addressed, error) {
	return s.resolver.ForTax(ctx, order, s.opts.TaxFromShippingAddress())
}

func (s *Service) guest(ctx context.Context) (*domain.Customer, error) {
	guest := &domain.Customer{ID: domain.GuestID}
	if err := s.applyAttributes(ctx, guest); err != nil {
		return nil, err
	}
	guest.MarkLoaded()
	return guest, nil
}

func (s *Service) fetch(ctx context.Context, user *users.User) (*domain.Customer, error) {
	c := &domain.Customer{
		ID:    user.ID,
		Login: user.Login,
		Name:  user.Name,
		Email: user.Email,
	}
	if err := s.applyAttributes(ctx, c); err != nil {
		return nil, err
	}
	c.MarkLoaded()
	return c, nil
}

func (s *Service) applyAttributes(ctx context.Context, c *domain.Customer) error {
	attrs, err := s.attrs.GetAll(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load attributes for customer %d: %w", c.ID, err)
	}
	c.Address.Country = attrs[domain.FieldCountry]
	c.Address.State = attrs[domain.FieldState]
	c.Address.Postcode = attrs[domain.FieldPostcode]
	return nil
}
