// Package guard decides whether a protected view may be rendered for the
// current session.
package guard

import "github.com/Praveenjayasiri/Simple-User-Management-System/models"

// State is the guard's view of the current request.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoRole
	AuthenticatedWithRequiredRole
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoRole:
		return "authenticated"
	case AuthenticatedWithRequiredRole:
		return "authenticated-with-role"
	default:
		return "unknown"
	}
}

// Decision is what the router does with the request.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// hiddenNavbarPaths never show the navbar, whoever is logged in.
var hiddenNavbarPaths = []string{LoginPath}

// Classify maps a user and an optional required role to a guard state.
func Classify(user *models.User, requiredRole string) State {
	switch {
	case user == nil:
		return Unauthenticated
	case requiredRole == "":
		return AuthenticatedNoRole
	default:
		return AuthenticatedWithRequiredRole
	}
}

// Decide returns Allow when the view may render. A role mismatch is
// Forbidden rather than a silent empty page.
func Decide(user *models.User, requiredRole string) Decision {
	switch Classify(user, requiredRole) {
	case Unauthenticated:
		return RedirectLogin
	case AuthenticatedNoRole:
		return Allow
	default:
		if user.Role == requiredRole {
			return Allow
		}
		return Forbidden
	}
}

// HideNavbar reports whether path is rendered without the navbar.
func HideNavbar(path string) bool {
	for _, p := range hiddenNavbarPaths {
		if p == path {
			return true
		}
	}
	return false
}
