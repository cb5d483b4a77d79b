package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort               = "3000"
	defaultBootstrapHREmail   = "hr@bk.ru"
	defaultBootstrapHRPass    = "123456"
	defaultOutboxPollInterval = 3 * time.Second
)

type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN returns the keyword/value form accepted by the postgres driver.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type Config struct {
	Env                 string
	Port                string
	Database            Database
	RedisAddr           string
	KafkaBroker         string
	JWTSecret           string
	Location            *time.Location
	BootstrapHREmail    string
	BootstrapHRPassword string
	OutboxPollInterval  time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the process environment. Every missing or malformed key is reported in one error.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var missing, invalid []string

	required := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	optional := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Env:  optional("APP_ENV", "development"),
		Port: optional("PORT", defaultPort),
		Database: Database{
			Host:     required("DB_HOST"),
			User:     required("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Name:     required("DB_NAME"),
			Port:     optional("DB_PORT", "5432"),
			SSLMode:  optional("DB_SSLMODE", "disable"),
		},
		RedisAddr:           required("REDIS_ADDR"),
		KafkaBroker:         optional("KAFKA_BROKER", ""),
		JWTSecret:           required("JWT_SECRET"),
		BootstrapHREmail:    strings.ToLower(optional("BOOTSTRAP_HR_EMAIL", defaultBootstrapHREmail)),
		BootstrapHRPassword: optional("BOOTSTRAP_HR_PASSWORD", defaultBootstrapHRPass),
		OutboxPollInterval:  defaultOutboxPollInterval,
	}

	loc, err := time.LoadLocation(optional("APP_TIMEZONE", "Local"))
	if err != nil {
		invalid = append(invalid, "APP_TIMEZONE")
		loc = time.Local
	}
	cfg.Location = loc

	if raw := getenv("OUTBOX_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			invalid = append(invalid, "OUTBOX_POLL_INTERVAL")
		} else {
			cfg.OutboxPollInterval = d
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required env: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid env: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
