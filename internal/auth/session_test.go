package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingAuthenticator struct{}

func (failingAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return nil, errors.New("store unavailable")
}

func TestSession_Login(t *testing.T) {
	store := db.NewMemoryUserRepository(db.DefaultUsers()...)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := NewSession(store)
		require.True(t, s.Login(ctx, "admin", "password"))
		require.True(t, s.IsAuthenticated())

		u := s.CurrentUser()
		assert.Equal(t, "admin", u.Username)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.Empty(t, u.Password)
	})

	t.Run("FailureLeavesStateUnset", func(t *testing.T) {
		s := NewSession(store)
		assert.False(t, s.Login(ctx, "user", "wrong"))
		assert.False(t, s.IsAuthenticated())
		assert.Nil(t, s.CurrentUser())
	})

	t.Run("FailureKeepsExistingUser", func(t *testing.T) {
		s := NewSession(store)
		require.True(t, s.Login(ctx, "user", "password"))
		assert.False(t, s.Login(ctx, "admin", "nope"))
		assert.Equal(t, "user", s.CurrentUser().Username)
	})

	t.Run("StoreError", func(t *testing.T) {
		s := NewSession(failingAuthenticator{})
		assert.False(t, s.Login(ctx, "admin", "password"))
		assert.False(t, s.IsAuthenticated())
	})
}

func TestSession_LogoutAndRestore(t *testing.T) {
	s := NewSession(db.NewMemoryUserRepository())

	s.Restore(&models.User{ID: 9, Username: "kamal", Password: "leak", Role: "user"})
	require.True(t, s.IsAuthenticated())
	assert.Empty(t, s.CurrentUser().Password)

	s.Logout()
	assert.False(t, s.IsAuthenticated())

	// Logout is unconditional.
	s.Logout()
	assert.Nil(t, s.CurrentUser())

	s.Restore(nil)
	assert.False(t, s.IsAuthenticated())
}
