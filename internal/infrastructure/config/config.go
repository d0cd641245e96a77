package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AssetBaseURL prefixes server-hosted uploads (proofs, KYC documents, logos).
	AssetBaseURL string `env:"ASSET_BASE_URL, default=http://localhost:9000"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Audit   AuditConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:9000/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	// Store selects the session store: "redis" or "memory".
	Store        string        `env:"SESSION_STORE,         default=redis"`
	Secret       string        `env:"SESSION_SECRET"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=bo_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL,      default=168h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice_portal"`
}

type AuditConfig struct {
	Enabled   bool          `env:"AUDIT_ENABLED,   default=true"`
	Workers   int           `env:"AUDIT_WORKERS,   default=4"`
	Retention time.Duration `env:"AUDIT_RETENTION, default=2160h"`
}

// IsDevelopment reports whether pretty logging and relaxed defaults apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a local .env file when present, then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("SESSION_SECRET is required outside development")
		}
		c.Session.Secret = "dev-only-session-secret"
	}
	if len(c.Session.Secret) < 16 && !c.IsDevelopment() {
		return fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	switch c.Session.Store {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.Session.Store)
	}
	return nil
}
