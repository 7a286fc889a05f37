package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// UserRepository is the authoritative user collection. Every returned user
// has its password stripped; only implementations ever compare passwords.
type UserRepository interface {
	Repository
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, fields models.UserFields) (*models.User, error)
	Update(ctx context.Context, id int64, fields models.UserFields) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// RepositoryFactory creates repositories based on the configured backend.
// A nil SQLiteDB selects the in-memory implementation.
type RepositoryFactory struct {
	SQLiteDB *sql.DB
	Manager  *DBManager
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB) *RepositoryFactory {
	f := &RepositoryFactory{SQLiteDB: sqliteDB}
	if sqliteDB != nil {
		f.Manager = NewDBManager()
	}
	return f
}

// NewUserRepository creates the user repository and loads the given seed
// users into it with their ids preserved.
func (f *RepositoryFactory) NewUserRepository(ctx context.Context, seed []models.User) (UserRepository, error) {
	if f.SQLiteDB == nil {
		return NewMemoryUserRepository(seed...), nil
	}

	repo := NewSQLiteUserRepository(f.SQLiteDB, f.Manager)
	if err := repo.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return repo, nil
}

// Close stops the write serializer, if any. The SQLite handle is owned by
// the caller that opened it.
func (f *RepositoryFactory) Close() {
	if f.Manager != nil {
		f.Manager.Stop()
	}
}

// ErrManagerStopped is returned for writes submitted after shutdown.
var ErrManagerStopped = errors.New("database manager stopped")
