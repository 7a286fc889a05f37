package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendSQLite StoreBackend = "sqlite"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"

	DefaultSessionMaxAge = 24 * time.Hour
	DefaultJWTTTL        = time.Hour
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" env-default:"24h"`

	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTTTL       time.Duration `env:"JWT_TTL" env-default:"1h"`

	StoreBackend StoreBackend `env:"STORE_BACKEND" env-default:"memory"`
	// SQLitePath defaults to a shared in-memory database.
	SQLitePath string `env:"SQLITE_PATH"`
	SeedUsers  bool   `env:"SEED_USERS" env-default:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// Local development fallbacks. Outside EnvLocal the secrets must be set.
const (
	devSessionSecret = "dev-session-secret-change-me"
	devJWTSecret     = "dev-jwt-secret-change-me"
)

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and fills local-only defaults.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}

	switch c.StoreBackend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s", c.StoreBackend)
	}

	if c.SessionSecret == "" {
		if c.Env != EnvLocal {
			return fmt.Errorf("SESSION_SECRET is not set")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.JWTSecretKey == "" {
		if c.Env != EnvLocal {
			return fmt.Errorf("JWT_SECRET_KEY is not set")
		}
		c.JWTSecretKey = devJWTSecret
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", c.SessionMaxAge)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsLocal reports whether the console runs in local development mode.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
