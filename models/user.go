package models

// RoleAdmin is the only role the console treats specially.
const RoleAdmin = "admin"

// User represents a user in the system
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // Never serialize password
	Role     string `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Sanitized returns a copy of the user with the password cleared.
func (u User) Sanitized() *User {
	u.Password = ""
	return &u
}

// UserFields is a partial user. Nil fields are left untouched when applied.
type UserFields struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Apply overwrites the fields of u that are set in f.
func (f UserFields) Apply(u *User) {
	if f.Username != nil {
		u.Username = *f.Username
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.Password != nil {
		u.Password = *f.Password
	}
	if f.Role != nil {
		u.Role = *f.Role
	}
}

// FieldsOf returns the visible fields of u as a UserFields. The password is
// only included when it is non-empty.
func FieldsOf(u User) UserFields {
	f := UserFields{
		Username: StringPtr(u.Username),
		Email:    StringPtr(u.Email),
		Role:     StringPtr(u.Role),
	}
	if u.Password != "" {
		f.Password = StringPtr(u.Password)
	}
	return f
}

func StringPtr(s string) *string {
	return &s
}
