package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
user = "salon"
dbname = "salon"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "09:00", cfg.Availability.DefaultOpen)
	assert.Equal(t, "17:00", cfg.Availability.DefaultClose)
	assert.Equal(t, 30, cfg.Availability.StrideMinutes)
	assert.False(t, cfg.Availability.HonorClosedDays)
	require.NotNil(t, cfg.Tracing.SampleRatio)
	assert.Equal(t, 1.0, *cfg.Tracing.SampleRatio)
}

func TestLoad_Sections(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[availability]
default_open = "10:00"
default_close = "20:00"
stride_minutes = 15
timezone = "UTC"
honor_closed_days = true

[events]
enabled = true
brokers = ["kafka:9092"]
topic = "salon.bookings"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "10:00", cfg.Availability.DefaultOpen)
	assert.Equal(t, 15, cfg.Availability.StrideMinutes)
	assert.True(t, cfg.Availability.HonorClosedDays)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "salon.bookings", cfg.Events.Topic)

	loc, err := cfg.Availability.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_ZeroSampleRatioKept(t *testing.T) {
	path := writeConfig(t, `
[tracing]
enabled = true
sample_ratio = 0.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Tracing.SampleRatio)
	assert.Zero(t, *cfg.Tracing.SampleRatio)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DB_PASSWORD":           "db-secret",
		"STRIPE_SECRET_KEY":     "sk_test_123",
		"STRIPE_WEBHOOK_SECRET": "whsec_123",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Config{}
	cfg.RateLimit.RedisPassword = "from-file"
	cfg.applyEnv(lookup)

	assert.Equal(t, "db-secret", cfg.Database.Password)
	assert.Equal(t, "sk_test_123", cfg.Payments.SecretKey)
	assert.Equal(t, "whsec_123", cfg.Payments.WebhookSecret)
	assert.Equal(t, "from-file", cfg.RateLimit.RedisPassword)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "malformed open", mutate: func(c *Config) { c.Availability.DefaultOpen = "9am" }},
		{name: "open after close", mutate: func(c *Config) { c.Availability.DefaultOpen = "18:00" }},
		{name: "negative stride", mutate: func(c *Config) { c.Availability.StrideMinutes = -5 }},
		{name: "unknown timezone", mutate: func(c *Config) { c.Availability.Timezone = "Mars/Olympus" }},
		{name: "payments without keys", mutate: func(c *Config) { c.Payments.Enabled = true }},
		{name: "events without brokers", mutate: func(c *Config) { c.Events.Enabled = true }},
		{name: "malformed trusted proxy", mutate: func(c *Config) { c.RateLimit.TrustedProxies = []string{"10.0.0.0/40"} }},
		{name: "sample ratio above one", mutate: func(c *Config) { c.Tracing.SampleRatio = ptr.Ptr(2.0) }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
