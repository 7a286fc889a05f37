package db

import "github.com/Praveenjayasiri/Simple-User-Management-System/models"

// DefaultUsers is the initial user set the console starts with.
func DefaultUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", Password: "password", Role: models.RoleAdmin},
		{ID: 2, Username: "user", Email: "user@example.com", Password: "password", Role: "user"},
		{ID: 3, Username: "saman", Email: "saman@example.com", Password: "password", Role: "Software Engineer"},
		{ID: 4, Username: "praveen", Email: "praveen@example.com", Password: "password", Role: "Recruiter"},
		{ID: 5, Username: "ajith", Email: "ajith@example.com", Password: "password", Role: "user"},
		{ID: 6, Username: "polan", Email: "polan@example.com", Password: "password", Role: "user"},
	}
}
