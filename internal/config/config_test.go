package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.parseEnv(map[string]string{
		"JWT_SECRET":   "s3cret",
		"JWT_EXPIRY":   "30m",
		"DB_HOST":      "db",
		"DB_USER":      "planner",
		"DB_PASS":      "pw",
		"DB_NAME":      "events",
		"DB_PORT":      "5432",
		"LISTEN_ADDR":  ":9090",
		"CORS_ORIGINS": "http://a.test,http://b.test",
		"LOG_FORMAT":   "json",
	})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	// untouched defaults survive
	assert.Equal(t, "eventplanner", cfg.JWT.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())

	assert.Equal(t,
		"host=db user=planner password=pw dbname=events port=5432 sslmode=disable TimeZone=UTC",
		cfg.DB.DSN())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, false},
		{"zero expiry", func(c *Config) { c.JWT.Expiry = 0 }, false},
		{"postgres parts", func(c *Config) {}, true},
		{"postgres missing host", func(c *Config) { c.DB.Host = "" }, false},
		{"postgres dsn", func(c *Config) { c.DB.Host = ""; c.DB.DataSource = "postgres://x" }, true},
		{"sqlite without source", func(c *Config) { c.DB.Driver = "sqlite" }, false},
		{"sqlite", func(c *Config) { c.DB.Driver = "sqlite"; c.DB.DataSource = "events.db" }, true},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.JWT.Secret = "s"
			cfg.DB.Host, cfg.DB.User, cfg.DB.Name, cfg.DB.Port = "h", "u", "n", "5432"
			c.mod(cfg)
			err := cfg.Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: planner-test
http:
  listen_addr: ":7070"
db:
  driver: sqlite
  data_source: planner.db
jwt:
  secret: from-file
  expiry: 3h
metrics:
  enabled: false
`), 0o600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.parseFile(path))
	assert.Equal(t, "planner-test", cfg.Name)
	assert.Equal(t, ":7070", cfg.HTTP.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "planner.db", cfg.DB.DSN())
	assert.Equal(t, 3*time.Hour, cfg.JWT.Expiry)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	// environment wins over the file
	require.NoError(t, cfg.parseEnv(map[string]string{"JWT_SECRET": "from-env"}))
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	require.NoError(t, cfg.Validate())
}

func TestParseFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.parseFile(filepath.Join(t.TempDir(), "nope.yaml")))
}
