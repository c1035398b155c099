package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	DBConn    string `envconfig:"DB_CONN"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	CBRURL    string `envconfig:"CBR_URL" default:"https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"`

	// Empty RedisAddr selects the in-process cache
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// Cron spec of the liquidity alert scan; empty disables it
	AlertSchedule string `envconfig:"ALERT_SCHEDULE" default:"0 8 * * *"`
	SMTPHost      string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort      string `envconfig:"SMTP_PORT" default:"25"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
	SenderEmail   string `envconfig:"SENDER_EMAIL" default:"alerts@localhost"`
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative")
	}

	return cfg, nil
}
