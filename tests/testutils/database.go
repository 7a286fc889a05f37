package testutils

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/config"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	testDB, err := db.ConnectToSQLite(dbPath)
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	t.Helper()
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB)
	return factory, func() {
		factory.Close()
		cleanup()
	}
}

// SetupSQLiteUserRepository returns a SQLite-backed repository loaded with
// the default users.
func SetupSQLiteUserRepository(t *testing.T) (db.UserRepository, func()) {
	t.Helper()
	factory, cleanup := SetupTestRepositoryFactory(t)
	repo, err := factory.NewUserRepository(context.Background(), db.DefaultUsers())
	require.NoError(t, err)
	return repo, cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Env:           config.EnvLocal,
		Port:          "0",
		LogLevel:      "error",
		SessionSecret: "test_session_secret_for_testing_only",
		SessionMaxAge: config.DefaultSessionMaxAge,
		JWTSecretKey:  "test_jwt_secret_key_for_testing_only",
		JWTTTL:        config.DefaultJWTTTL,
		StoreBackend:  config.BackendMemory,
		SeedUsers:     true,

		CORSAllowedOrigins: []string{"*"},
	}
}
