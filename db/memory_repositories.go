package db

import (
	"context"
	"sync"
	"time"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

// MemoryUserRepository keeps users in a slice in insertion order.
// Lookups are linear scans; the collection is expected to stay small.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  []models.User
	lastID int64
	now    func() time.Time
}

// NewMemoryUserRepository creates a repository holding copies of seed.
func NewMemoryUserRepository(seed ...models.User) *MemoryUserRepository {
	r := &MemoryUserRepository{
		users: make([]models.User, 0, len(seed)),
		now:   time.Now,
	}
	for _, u := range seed {
		r.users = append(r.users, u)
		if u.ID > r.lastID {
			r.lastID = u.ID
		}
	}
	return r
}

func (r *MemoryUserRepository) Close() error {
	return nil
}

// Authenticate returns the user whose username and password both match.
// Users without a password can never authenticate.
func (r *MemoryUserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Password != "" && u.Username == username && u.Password == password {
			return u.Sanitized(), nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Sanitized())
	}
	return users, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, fields models.UserFields) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var u models.User
	fields.Apply(&u)
	u.ID = r.nextID()

	r.users = append(r.users, u)
	return u.Sanitized(), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id int64, fields models.UserFields) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	fields.Apply(&r.users[i])
	return r.users[i].Sanitized(), nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	removed := r.users[i]
	r.users = append(r.users[:i], r.users[i+1:]...)
	return removed.Sanitized(), nil
}

func (r *MemoryUserRepository) indexOf(id int64) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the wall clock in milliseconds, bumped past the
// last issued id so ids stay unique when several users are created within
// the same millisecond. Caller holds the write lock.
func (r *MemoryUserRepository) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}
