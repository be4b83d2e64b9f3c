// Package attribute is the key/value user-attribute store the customer
// service persists changed fields into. Writes are field-by-field and
// individually idempotent; there is no transaction across fields, so a
// crash mid-save can leave a partially updated set. Callers tolerate
// that: every field write is a plain last-write-wins upsert.
package attribute

import (
	"context"
	"errors"
)

var ErrAttributeNotFound = errors.New("attribute not found")

type Store interface {
	Get(ctx context.Context, customerID int64, field string) (string, error)
	GetAll(ctx context.Context, customerID int64) (map[string]string, error)
	Set(ctx context.Context, customerID int64, field, value string) error
}
