package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token     TokenConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Forex     ForexConfig
	Scheduler SchedulerConfig

	// CORSAllowedOrigins replaces the built-in localhost policy when set.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

type TokenConfig struct {
	Secret string `env:"TOKEN_SECRET"`
	// Signed selects the JWT codec; false falls back to plain "<ms>:<email>" tokens.
	Signed   bool  `env:"TOKEN_SIGNED,   default=true"`
	ExpiryMS int64 `env:"EXPIRY_TIME_MS, default=3600000"`
}

// Expiry returns the token validity window.
func (t TokenConfig) Expiry() time.Duration {
	return time.Duration(t.ExpiryMS) * time.Millisecond
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kursownik"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=3s"`
}

type ForexConfig struct {
	BaseURL    string        `env:"NBP_BASE_URL,     default=https://api.nbp.pl/api/exchangerates"`
	Timeout    time.Duration `env:"NBP_TIMEOUT,      default=10s"`
	Currencies []string      `env:"FOREX_CURRENCIES, default=USD,EUR,GBP"`
	CacheTTL   time.Duration `env:"RATE_CACHE_TTL,   default=1h"`
}

type SchedulerConfig struct {
	Enabled   bool          `env:"SCHEDULER_ENABLED,   default=true"`
	Timezone  string        `env:"SCHEDULER_TIMEZONE,  default=Europe/Warsaw"`
	Retention time.Duration `env:"RATE_RETENTION,      default=2160h"`
}

var ErrMissingSecret = errors.New("TOKEN_SECRET is required when TOKEN_SIGNED is true")

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.Token.Signed && c.Token.Secret == "" {
		return ErrMissingSecret
	}
	if c.Token.ExpiryMS <= 0 {
		return fmt.Errorf("EXPIRY_TIME_MS must be positive, got %d", c.Token.ExpiryMS)
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must not be negative, got %d", c.Redis.PoolSize)
	}
	if len(c.Forex.Currencies) == 0 {
		return errors.New("FOREX_CURRENCIES must list at least one currency")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
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
