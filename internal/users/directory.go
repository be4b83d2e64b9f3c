// Package users fronts the host's user-account store. The shop only
// reads identity data from it; account management stays with the host.
package users

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID    int64
	Login string
	Name  string
	Email string
}

// Directory is defined here, consumer-side; the host system provides
// the implementation.
type Directory interface {
	Find(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
