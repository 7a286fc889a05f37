package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"ENV", "PORT", "LOG_LEVEL", "SESSION_SECRET", "SESSION_MAX_AGE",
	"JWT_SECRET_KEY", "JWT_TTL", "STORE_BACKEND", "SQLITE_PATH", "SEED_USERS", "CORS_ALLOWED_ORIGINS",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if old, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.SeedUsers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, devJWTSecret, cfg.JWTSecretKey)
	assert.True(t, cfg.IsLocal())
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	clearEnv(t)
	t.Cleanup(func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "ENV=prod\nPORT=9090\nSESSION_SECRET=s3cret\nJWT_SECRET_KEY=jwt\nSTORE_BACKEND=sqlite\nSQLITE_PATH=/tmp/users.db\nSEED_USERS=false\nJWT_TTL=30m\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/users.db", cfg.SQLitePath)
	assert.False(t, cfg.SeedUsers)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Env:           EnvProd,
			Port:          "8080",
			SessionSecret: "s",
			SessionMaxAge: time.Hour,
			JWTSecretKey:  "j",
			JWTTTL:        time.Hour,
			StoreBackend:  BackendMemory,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.StoreBackend = "mongodb" }, wantErr: "STORE_BACKEND"},
		{name: "missing session secret in prod", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: "SESSION_SECRET"},
		{name: "missing jwt secret in prod", mutate: func(c *Config) { c.JWTSecretKey = "" }, wantErr: "JWT_SECRET_KEY"},
		{name: "zero session age", mutate: func(c *Config) { c.SessionMaxAge = 0 }, wantErr: "SESSION_MAX_AGE"},
		{name: "zero jwt ttl", mutate: func(c *Config) { c.JWTTTL = 0 }, wantErr: "JWT_TTL"},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
