package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "portal_sid", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "/tmp/portal.db")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/portal.db", cfg.DatabaseURL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigFileIsOverriddenByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: \"9000\"\nsession_cookie: from_file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.Equal(t, "from_file", cfg.SessionCookie)
}

func TestValidate(t *testing.T) {
	base := App{
		DBDriver:             "postgres",
		DatabaseURL:          "postgres://x",
		SessionBackend:       "memory",
		SessionSecret:        "secret",
		SessionTTL:           time.Hour,
		SessionSweepInterval: time.Minute,
		BcryptCost:           10,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(a *App){
		"driver":         func(a *App) { a.DBDriver = "oracle" },
		"backend":        func(a *App) { a.SessionBackend = "memcached" },
		"empty dsn":      func(a *App) { a.DatabaseURL = "" },
		"ttl":            func(a *App) { a.SessionTTL = 0 },
		"sweep":          func(a *App) { a.SessionSweepInterval = 0 },
		"bcrypt cost":    func(a *App) { a.BcryptCost = 1 },
		"empty secret":   func(a *App) { a.SessionSecret = "" },
		"default secret": func(a *App) { a.Env = "production"; a.SessionSecret = defaultSessionSecret },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a := base
			mutate(&a)
			assert.Error(t, a.Validate())
		})
	}
}
