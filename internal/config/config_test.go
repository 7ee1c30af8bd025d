package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "CLINIC_DATA_DIR", "LOG_LEVEL", "NOTIFY_TIMEOUT",
		"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME",
		"SEED_PATIENTS", "SEED_DOCTORS", "SEED_SLOTS_PER_DOCTOR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.False(t, cfg.EmailEnabled())
	assert.Equal(t, 50, cfg.SeedPatients)
	assert.Equal(t, 5, cfg.SeedDoctors)
	assert.Equal(t, 8, cfg.SeedSlotsPerDoctor)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CLINIC_DATA_DIR", "/var/lib/clinic")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NOTIFY_TIMEOUT", "3")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("SENDGRID_FROM_EMAIL", "noreply@clinic.test")
	t.Setenv("SEED_PATIENTS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/var/lib/clinic", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.True(t, cfg.EmailEnabled())
	assert.Equal(t, "noreply@clinic.test", cfg.SendGridFromEmail)
	assert.Equal(t, "Clinic Scheduling", cfg.SendGridFromName)
	assert.Equal(t, 7, cfg.SeedPatients)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFY_TIMEOUT", "soon")
	t.Setenv("SEED_DOCTORS", "-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 5, cfg.SeedDoctors)
}

func TestLoadRejectsBlankDataDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLINIC_DATA_DIR", "   ")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresSenderWithAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENDGRID_API_KEY", "SG.key")

	_, err := Load()
	assert.ErrorContains(t, err, "SENDGRID_FROM_EMAIL")
}
