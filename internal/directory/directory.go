// Package directory keeps a client-side mirror of the user store and routes
// every mutation through the store so the two stay in step.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

// Directory is a cached copy of Store.List. The mirror is only refreshed by
// its own mutators and by Reload; writes made to the store through another
// path are not observed.
type Directory struct {
	store db.UserRepository

	mu    sync.RWMutex
	users []*models.User
}

// New loads the mirror once from the store.
func New(ctx context.Context, store db.UserRepository) (*Directory, error) {
	d := &Directory{store: store}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload replaces the mirror with a fresh Store.List.
func (d *Directory) Reload(ctx context.Context) error {
	users, err := d.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	return nil
}

// Users returns a copy of the mirror in store order.
func (d *Directory) Users() []*models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*models.User, len(d.users))
	for i, u := range d.users {
		c := *u
		out[i] = &c
	}
	return out
}

// Find returns the mirrored user with the given id.
func (d *Directory) Find(id int64) (*models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			c := *u
			return &c, true
		}
	}
	return nil, false
}

// AddUser creates the user in the store and appends the stored record.
func (d *Directory) AddUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	created, err := d.store.Create(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	d.mu.Lock()
	d.users = append(d.users, created)
	d.mu.Unlock()
	return copyOf(created), nil
}

// UpdateUser updates the store and replaces the mirrored entry in place.
// db.ErrNotFound is returned unchanged in the chain and leaves the mirror as is.
func (d *Directory) UpdateUser(ctx context.Context, id int64, fields models.UserFields) (*models.User, error) {
	updated, err := d.store.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	d.mu.Lock()
	for i, u := range d.users {
		if u.ID == id {
			d.users[i] = updated
			break
		}
	}
	d.mu.Unlock()
	return copyOf(updated), nil
}

// DeleteUser removes the user from the store and then from the mirror.
func (d *Directory) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	removed, err := d.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}

	d.mu.Lock()
	kept := d.users[:0]
	for _, u := range d.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	d.users = kept
	d.mu.Unlock()
	return copyOf(removed), nil
}

func copyOf(u *models.User) *models.User {
	c := *u
	return &c
}
