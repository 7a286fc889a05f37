package auth

import (
	"context"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

// Authenticator is the part of the user store a Session needs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// Session holds the currently authenticated user, if any.
type Session struct {
	store   Authenticator
	current *models.User
}

func NewSession(store Authenticator) *Session {
	return &Session{store: store}
}

// Login authenticates against the store. On failure the session is left
// exactly as it was and false is returned; the caller shows the message.
func (s *Session) Login(ctx context.Context, username, password string) bool {
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil || user == nil {
		return false
	}
	s.current = user.Sanitized()
	return true
}

func (s *Session) Logout() {
	s.current = nil
}

// Restore sets the current user from a previously saved snapshot.
func (s *Session) Restore(user *models.User) {
	if user == nil {
		s.current = nil
		return
	}
	s.current = user.Sanitized()
}

func (s *Session) CurrentUser() *models.User {
	return s.current
}

func (s *Session) IsAuthenticated() bool {
	return s.current != nil
}
