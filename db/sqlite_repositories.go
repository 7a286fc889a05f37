package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/util"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

const (
	selectUsersSQL          = `SELECT id, username, email, role FROM users ORDER BY id`
	selectUserByIDSQL       = `SELECT id, username, email, password_hash, role FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT id, username, email, password_hash, role FROM users WHERE username = ? ORDER BY id`
	insertUserSQL           = `INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)`
	insertUserWithIDSQL     = `INSERT INTO users (id, username, email, password_hash, role) VALUES (?, ?, ?, ?, ?)`
	updateUserSQL           = `UPDATE users SET username = ?, email = ?, password_hash = ?, role = ? WHERE id = ?`
	deleteUserSQL           = `DELETE FROM users WHERE id = ?`
	countUsersSQL           = `SELECT COUNT(*) FROM users`
)

// SQLiteUserRepository implements the UserRepository interface for SQLite.
// Passwords are stored as bcrypt hashes; the Password field of a models.User
// read from here is never populated.
type SQLiteUserRepository struct {
	db      *sql.DB
	manager *DBManager
}

// Ensure implementation of UserRepository interface at compile time.
var _ UserRepository = (*SQLiteUserRepository)(nil)

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB, manager *DBManager) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db, manager: manager}
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	return r.db.Close()
}

// Seed inserts users with their ids when the table is empty.
func (r *SQLiteUserRepository) Seed(ctx context.Context, users []models.User) error {
	var count int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range users {
		hash, err := hashPassword(u.Password)
		if err != nil {
			return err
		}
		err = util.RetryOnLock(ctx, func() error {
			_, err := r.db.ExecContext(ctx, insertUserWithIDSQL, u.ID, u.Username, u.Email, hash, u.Role)
			return err
		})
		if err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}
	return nil
}

// Authenticate checks the password against every user with that username
// and returns the first match.
func (r *SQLiteUserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserByUsernameSQL, username)
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	defer rows.Close()

	var candidates []storedUser
	for rows.Next() {
		var s storedUser
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.hash, &s.Role); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		candidates = append(candidates, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	for _, s := range candidates {
		if s.hash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)) == nil {
			return s.User.Sanitized(), nil
		}
	}
	return nil, ErrInvalidCredentials
}

// List returns all users ordered by id, which matches insertion order.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepository) Create(ctx context.Context, fields models.UserFields) (*models.User, error) {
	var u models.User
	fields.Apply(&u)

	hash, err := hashPassword(u.Password)
	if err != nil {
		return nil, err
	}

	result, err := r.write(ctx, func() (interface{}, error) {
		res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Email, hash, u.Role)
		if err != nil {
			return nil, fmt.Errorf("insert user %q: %w", u.Username, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
		}
		u.ID = id
		return u.Sanitized(), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (r *SQLiteUserRepository) Update(ctx context.Context, id int64, fields models.UserFields) (*models.User, error) {
	var newHash *string
	if fields.Password != nil {
		hash, err := hashPassword(*fields.Password)
		if err != nil {
			return nil, err
		}
		newHash = &hash
	}

	result, err := r.write(ctx, func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin update: %w", err)
		}
		defer tx.Rollback()

		s, err := findStoredUser(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		fields.Apply(&s.User)
		if newHash != nil {
			s.hash = *newHash
		}

		if _, err := tx.ExecContext(ctx, updateUserSQL, s.Username, s.Email, s.hash, s.Role, id); err != nil {
			return nil, fmt.Errorf("update user %d: %w", id, err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit update: %w", err)
		}
		return s.User.Sanitized(), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (r *SQLiteUserRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	result, err := r.write(ctx, func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin delete: %w", err)
		}
		defer tx.Rollback()

		s, err := findStoredUser(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, deleteUserSQL, id); err != nil {
			return nil, fmt.Errorf("delete user %d: %w", id, err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit delete: %w", err)
		}
		return s.User.Sanitized(), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// write runs fn through the manager when one is configured.
func (r *SQLiteUserRepository) write(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if r.manager == nil {
		return fn()
	}
	return r.manager.Execute(ctx, fn)
}

type storedUser struct {
	models.User
	hash string
}

func findStoredUser(ctx context.Context, tx *sql.Tx, id int64) (*storedUser, error) {
	var s storedUser
	err := tx.QueryRowContext(ctx, selectUserByIDSQL, id).Scan(&s.ID, &s.Username, &s.Email, &s.hash, &s.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return &s, nil
}

// hashPassword returns "" for an empty password so that the account cannot
// be used to sign in.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
