package testutils

import (
	"fmt"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

func CreateTestUserFields(username string) models.UserFields {
	return models.UserFields{
		Username: models.StringPtr(username),
		Email:    models.StringPtr(username + "@example.com"),
		Password: models.StringPtr("password"),
		Role:     models.StringPtr("user"),
	}
}

// CreateTestUsers returns n users with ids 1..n and distinct names.
func CreateTestUsers(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("member%02d", i)
		users = append(users, models.User{
			ID:       int64(i),
			Username: name,
			Email:    name + "@example.com",
			Password: "password",
			Role:     "user",
		})
	}
	return users
}

func SanitizedPointers(users []models.User) []*models.User {
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out
}
