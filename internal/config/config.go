package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration, populated from the environment.
type Config struct {
	AppPort          string        `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL      string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret        string        `envconfig:"JWT_SECRET" required:"true"`
	MigrationsDir    string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
	FeedMinReconnect time.Duration `envconfig:"FEED_MIN_RECONNECT" default:"10s"`
	FeedMaxReconnect time.Duration `envconfig:"FEED_MAX_RECONNECT" default:"1m"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}
