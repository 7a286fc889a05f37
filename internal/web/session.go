package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

const sessionName = "usermgmt-session"

// Flash kinds double as Bootstrap alert classes.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

var flashKinds = []string{FlashSuccess, FlashWarning, FlashDanger}

func init() {
	// Flashes are stored as []interface{} inside the gob-encoded cookie.
	gob.Register([]interface{}{})
}

type Flash struct {
	Kind    string
	Message string
}

func (h *WebHandler) cookieSession(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh, empty session.
	session, _ := h.sessionStore.Get(r, sessionName)
	return session
}

// authSession rebuilds the Auth Session from the cookie snapshot.
func (h *WebHandler) authSession(session *sessions.Session) *auth.Session {
	s := auth.NewSession(h.store)
	s.Restore(userFromSession(session))
	return s
}

func userFromSession(session *sessions.Session) *models.User {
	id, ok := session.Values["user_id"].(int64)
	if !ok {
		return nil
	}
	username, _ := session.Values["username"].(string)
	email, _ := session.Values["email"].(string)
	role, _ := session.Values["role"].(string)
	return &models.User{ID: id, Username: username, Email: email, Role: role}
}

// storeUser writes the current user snapshot into the cookie, or clears it
// when user is nil.
func storeUser(session *sessions.Session, user *models.User) {
	if user == nil {
		for _, key := range []string{"user_id", "username", "email", "role"} {
			delete(session.Values, key)
		}
		return
	}
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Values["email"] = user.Email
	session.Values["role"] = user.Role
}

func addFlash(session *sessions.Session, kind, msg string) {
	session.AddFlash(msg, "flash_"+kind)
}

// popFlashes removes and returns all pending flashes. The session must be
// saved afterwards for the removal to stick.
func popFlashes(session *sessions.Session) []Flash {
	var out []Flash
	for _, kind := range flashKinds {
		for _, f := range session.Flashes("flash_" + kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	return out
}
