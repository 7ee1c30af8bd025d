package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string        // dev, prod
	DataDir       string        // directory holding the backing files, created if absent
	LogLevel      string        // debug, info, warn, error
	NotifyTimeout time.Duration // upper bound for one email delivery

	SendGridAPIKey    string // optional, enables real email delivery
	SendGridFromEmail string
	SendGridFromName  string

	SeedPatients       int // cmd/seed only
	SeedDoctors        int
	SeedSlotsPerDoctor int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		DataDir:            strings.TrimSpace(getEnv("CLINIC_DATA_DIR", "data")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		NotifyTimeout:      getDuration("NOTIFY_TIMEOUT", 10*time.Second),
		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:  os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:   getEnv("SENDGRID_FROM_NAME", "Clinic Scheduling"),
		SeedPatients:       getInt("SEED_PATIENTS", 50),
		SeedDoctors:        getInt("SEED_DOCTORS", 5),
		SeedSlotsPerDoctor: getInt("SEED_SLOTS_PER_DOCTOR", 8),
	}

	if cfg.DataDir == "" {
		return Config{}, errors.New("CLINIC_DATA_DIR must not be blank")
	}
	if cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail == "" {
		return Config{}, errors.New("SENDGRID_FROM_EMAIL is required when SENDGRID_API_KEY is set")
	}

	return cfg, nil
}

// EmailEnabled reports whether outbound email should go through SendGrid.
func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
