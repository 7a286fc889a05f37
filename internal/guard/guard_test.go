package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

func TestDecide(t *testing.T) {
	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	member := &models.User{ID: 2, Username: "user", Role: "user"}

	tests := []struct {
		name      string
		user      *models.User
		role      string
		wantState State
		want      Decision
	}{
		{name: "anonymous dashboard", user: nil, role: "", wantState: Unauthenticated, want: RedirectLogin},
		{name: "anonymous admin", user: nil, role: models.RoleAdmin, wantState: Unauthenticated, want: RedirectLogin},
		{name: "member dashboard", user: member, role: "", wantState: AuthenticatedNoRole, want: Allow},
		{name: "admin dashboard", user: admin, role: "", wantState: AuthenticatedNoRole, want: Allow},
		{name: "admin admin", user: admin, role: models.RoleAdmin, wantState: AuthenticatedWithRequiredRole, want: Allow},
		{name: "member admin", user: member, role: models.RoleAdmin, wantState: AuthenticatedWithRequiredRole, want: Forbidden},
		{name: "role compare is exact", user: &models.User{Role: "Admin"}, role: models.RoleAdmin, wantState: AuthenticatedWithRequiredRole, want: Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantState, Classify(tt.user, tt.role))
			assert.Equal(t, tt.want, Decide(tt.user, tt.role))
		})
	}
}

func TestHideNavbar(t *testing.T) {
	assert.True(t, HideNavbar("/login"))
	assert.False(t, HideNavbar("/dashboard"))
	assert.False(t, HideNavbar("/admin"))
	assert.False(t, HideNavbar("/login/extra"))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}
