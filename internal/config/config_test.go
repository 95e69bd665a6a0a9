package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AUTH_HMAC_SECRET", "")

	c := FromEnv()

	assert.Equal(t, ModeOffline, c.Mode)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, "@daily", c.BatchSchedule)
	assert.Equal(t, 30*time.Second, c.GeoTimeout)
	assert.Empty(t, c.AuthHMACSecret)
	assert.ErrorContains(t, c.Validate(), "AUTH_HMAC_SECRET")

	t.Setenv("AUTH_HMAC_SECRET", "dev-key")
	assert.NoError(t, FromEnv().Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greenscore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "online"
db_driver = "postgres"
geo_base_url = "http://geo.internal"
geo_rps = 2.5
news_sites = ["https://a.example", "https://b.example"]
batch_schedule = "0 3 * * *"
batch_on_start = true
auth_hmac_secret = "from-file"
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEO_BASE_URL", "http://override")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("GEO_TIMEOUT", "5s")
	t.Setenv("AUTH_HMAC_SECRET", "")

	c, err := Load()
	require.NoError(t, err)

	assert.True(t, c.Online())
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "http://override", c.GeoBaseURL)
	assert.Equal(t, 2.5, c.GeoRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.NewsSites)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, "0 3 * * *", c.BatchSchedule)
	assert.True(t, c.BatchOnStart)
	assert.Equal(t, 5*time.Second, c.GeoTimeout)
	assert.Equal(t, "from-file", c.AuthHMACSecret)
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"driver":   func(c *Config) { c.DBDriver = "mysql" },
		"mode":     func(c *Config) { c.Mode = "hybrid" },
		"variant":  func(c *Config) { c.ScoringVariant = "lottery" },
		"schedule": func(c *Config) { c.BatchSchedule = "every tuesday" },
		"rps":      func(c *Config) { c.GeoRPS = 0 },
		"secret":   func(c *Config) { c.AuthHMACSecret = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := defaults()
			c.AuthHMACSecret = "k"
			require.NoError(t, c.Validate())
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	_, err := Load()
	assert.Error(t, err)
}
