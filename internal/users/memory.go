package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryDirectory is a stand-in for the host's account store, used in
// tests and local runs.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[int64]User
}

func NewMemoryDirectory(seed ...User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[int64]User)}
	for _, u := range seed {
		d.users[u.ID] = u
	}
	return d
}

func (d *MemoryDirectory) Find(_ context.Context, id int64) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (d *MemoryDirectory) List(_ context.Context) ([]*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*User, 0, len(d.users))
	for _, u := range d.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
