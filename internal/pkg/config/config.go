package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Dev     DevAuthorityConfig
}

// APIConfig points at the remote authority.
type APIConfig struct {
	BaseURL       string        `env:"API_BASE_URL,   default=http://localhost:3001"`
	Prefix        string        `env:"API_PREFIX,     default=/api/v1"`
	Timeout       time.Duration `env:"API_TIMEOUT,    default=15s"`
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	Backend   string `env:"SESSION_BACKEND,    default=file"`
	File      string `env:"SESSION_FILE,       default=.console/session.json"`
	KeyPrefix string `env:"SESSION_KEY_PREFIX, default=console:session:"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=admin_console"`
	Collection string `env:"MONGO_COLLECTION, default=console_session"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// DevAuthorityConfig is read only by cmd/devauthority.
type DevAuthorityConfig struct {
	Port      string        `env:"DEV_AUTHORITY_PORT, default=3001"`
	JWTSecret string        `env:"JWT_SECRET,         default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,          default=24h"`
}

// IsDevelopment reports whether the console runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.Backend == BackendFile && c.Session.File == "" {
		return fmt.Errorf("config: SESSION_FILE is required for the file backend")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL is required")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
