package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "courts"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, 30, cfg.Booking.MinBookingNoticeMinutes)
	assert.Equal(t, 0, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, "court-booking", cfg.Redis.ChannelPrefix)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_PASSWORD", "r3dis")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550000000")

	path := writeConfig(t, `
[database]
password = "from-file"

[sms]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, "AC123", cfg.SMS.AccountSID)
	assert.Equal(t, "+15550000000", cfg.SMS.FromNumber)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[server\n"))
	assert.Error(t, err)

	t.Setenv("DB_PORT", "not-a-number")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"no db host", func(c *Config) { c.Database.Host = "" }},
		{"metrics without path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "" }},
		{"sms without credentials", func(c *Config) { c.SMS.Enabled = true }},
		{"negative notice", func(c *Config) { c.Booking.MinBookingNoticeMinutes = -1 }},
		{"advance too far", func(c *Config) { c.Booking.AdvanceBookingDays = 366 }},
		{"no retries", func(c *Config) { c.Booking.ReferenceCodeRetries = 0 }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", d.DSN())
}
