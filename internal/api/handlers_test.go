package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/api"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/directory"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/metrics"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
	"github.com/Praveenjayasiri/Simple-User-Management-System/tests/testutils"
)

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func setupAPI(t *testing.T) (*testutils.TestServer, *directory.Directory) {
	t.Helper()
	store := db.NewMemoryUserRepository(db.DefaultUsers()...)
	dir, err := directory.New(context.Background(), store)
	require.NoError(t, err)

	tokens := auth.NewTokenIssuer([]byte("api-test-key"), time.Hour)
	h := api.NewHandler(store, dir, tokens, logger.Nop(), metrics.New())

	r := mux.NewRouter()
	h.RegisterRoutes(r, []string{"*"})
	server := testutils.NewTestServer(t, r)
	t.Cleanup(server.Close)
	return server, dir
}

func login(t *testing.T, server *testutils.TestServer, username string) string {
	t.Helper()
	var resp loginResponse
	testutils.AssertJSONResponse(t,
		server.POST("/api/auth/login", map[string]string{"username": username, "password": "password"}, ""),
		http.StatusOK, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLogin(t *testing.T) {
	server, _ := setupAPI(t)

	t.Run("Success", func(t *testing.T) {
		var resp loginResponse
		testutils.AssertJSONResponse(t,
			server.POST("/api/auth/login", map[string]string{"username": "admin", "password": "password"}, ""),
			http.StatusOK, &resp)

		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, int64(1), resp.User.ID)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
	})

	t.Run("ResponseHasNoPassword", func(t *testing.T) {
		body := testutils.ReadBody(t,
			server.POST("/api/auth/login", map[string]string{"username": "admin", "password": "password"}, ""))
		assert.NotContains(t, body, "password")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		testutils.AssertErrorResponse(t,
			server.POST("/api/auth/login", map[string]string{"username": "user", "password": "wrong"}, ""),
			http.StatusUnauthorized, "invalid username or password")
	})

	t.Run("MissingFields", func(t *testing.T) {
		testutils.AssertErrorResponse(t,
			server.POST("/api/auth/login", map[string]string{"username": "user"}, ""),
			http.StatusBadRequest, "required")
	})
}

func TestListUsers(t *testing.T) {
	server, _ := setupAPI(t)

	t.Run("RequiresToken", func(t *testing.T) {
		resp := server.GET("/api/users")
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AnyAuthenticatedUser", func(t *testing.T) {
		token := login(t, server, "user")

		var users []models.User
		testutils.AssertJSONResponse(t,
			server.Do(http.MethodGet, "/api/users", nil, "", token), http.StatusOK, &users)

		require.Len(t, users, 6)
		assert.Equal(t, "admin", users[0].Username)
		for _, u := range users {
			assert.Empty(t, u.Password)
		}
	})
}

func TestCreateUser(t *testing.T) {
	server, dir := setupAPI(t)
	adminToken := login(t, server, "admin")

	t.Run("Created", func(t *testing.T) {
		var created models.User
		testutils.AssertJSONResponse(t,
			server.POST("/api/users", map[string]string{
				"username": "nimal", "email": "nimal@example.com", "role": "user", "password": "pw",
			}, adminToken),
			http.StatusCreated, &created)

		assert.Equal(t, "nimal", created.Username)
		assert.NotZero(t, created.ID)
		assert.Len(t, dir.Users(), 7)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		testutils.AssertErrorResponse(t,
			server.POST("/api/users", map[string]string{"username": "x", "role": "user"}, adminToken),
			http.StatusBadRequest, "All fields are required")
		assert.Len(t, dir.Users(), 7)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		userToken := login(t, server, "user")
		testutils.AssertErrorResponse(t,
			server.POST("/api/users", map[string]string{"username": "y", "email": "y@x", "role": "user"}, userToken),
			http.StatusForbidden, "access denied")
	})
}

func TestUpdateUser(t *testing.T) {
	server, dir := setupAPI(t)
	adminToken := login(t, server, "admin")

	t.Run("PartialMerge", func(t *testing.T) {
		var updated models.User
		testutils.AssertJSONResponse(t,
			server.PUT("/api/users/5", map[string]string{"role": "Manager"}, adminToken),
			http.StatusOK, &updated)

		assert.Equal(t, "ajith", updated.Username)
		assert.Equal(t, "ajith@example.com", updated.Email)
		assert.Equal(t, "Manager", updated.Role)

		got, _ := dir.Find(5)
		assert.Equal(t, "Manager", got.Role)
	})

	t.Run("EmptyFieldRejected", func(t *testing.T) {
		testutils.AssertErrorResponse(t,
			server.PUT("/api/users/5", map[string]string{"email": ""}, adminToken),
			http.StatusBadRequest, "All fields are required")
	})

	t.Run("NotFound", func(t *testing.T) {
		testutils.AssertErrorResponse(t,
			server.PUT("/api/users/999", map[string]string{"role": "x"}, adminToken),
			http.StatusNotFound, "user not found")
	})

	t.Run("PasswordChangeIsUsable", func(t *testing.T) {
		resp := server.PUT("/api/users/6", map[string]string{"password": "newpass"}, adminToken)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		ok := server.POST("/api/auth/login", map[string]string{"username": "polan", "password": "newpass"}, "")
		ok.Body.Close()
		assert.Equal(t, http.StatusOK, ok.StatusCode)
	})
}

func TestDeleteUser(t *testing.T) {
	server, dir := setupAPI(t)
	adminToken := login(t, server, "admin")

	var removed models.User
	testutils.AssertJSONResponse(t, server.DELETE("/api/users/4", adminToken), http.StatusOK, &removed)
	assert.Equal(t, "praveen", removed.Username)
	assert.Len(t, dir.Users(), 5)

	testutils.AssertErrorResponse(t, server.DELETE("/api/users/4", adminToken), http.StatusNotFound, "user not found")
	assert.Len(t, dir.Users(), 5)
}

func TestCORSPreflight(t *testing.T) {
	server, _ := setupAPI(t)

	resp := server.Do(http.MethodOptions, "/api/users", nil, "", "")
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
