// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DBConfig selects the PostgreSQL connection. When Url is empty, the server
// falls back to the in-memory store.
type DBConfig struct {
	Url string `envconfig:"URL"`
}

// LogConfig controls the terminal logger.
type LogConfig struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"bankledger"`
}

// JwtConfig configures token signing and lifetime.
type JwtConfig struct {
	Secret string        `envconfig:"SECRET_KEY" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

// LedgerConfig tunes the optimistic concurrency loop.
type LedgerConfig struct {
	// MaxRetries bounds how many version conflicts one mutation absorbs
	// before it gives up with a contention error.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`
}

// KafkaConfig configures the optional event publisher.
type KafkaConfig struct {
	Brokers     string `envconfig:"BROKERS"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"ledger.events"`
}

// RateLimitConfig caps request rates at the HTTP boundary.
type RateLimitConfig struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// AppConfig is the root configuration for the ledger server.
type AppConfig struct {
	Env       string          `envconfig:"APP_ENV" default:"development"`
	Scheme    string          `envconfig:"APP_SCHEME" default:"https"`
	Host      string          `envconfig:"APP_HOST" default:"localhost"`
	Port      int             `envconfig:"APP_PORT" default:"3000"`
	Log       LogConfig       `envconfig:"LOG"`
	DB        DBConfig        `envconfig:"DATABASE"`
	Jwt       JwtConfig       `envconfig:"JWT"`
	Ledger    LedgerConfig    `envconfig:"LEDGER"`
	Kafka     KafkaConfig     `envconfig:"KAFKA"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
}

func maskSecret(secret string) string {
	if len(secret) <= 6 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-4:]
}

// LoadAppConfig reads the optional .env file and processes the environment
// into an AppConfig.
func LoadAppConfig(logger *slog.Logger, envFilePath ...string) (*AppConfig, error) {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		logger.Warn("No .env file found or specified, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", cfg.DB.Url != "",
		"jwt_secret", maskSecret(cfg.Jwt.Secret),
		"jwt_expiry", cfg.Jwt.Expiry,
		"ledger_max_retries", cfg.Ledger.MaxRetries,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}
