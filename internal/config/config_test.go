package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("LISTEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_PAGE_SIZE", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("LISTEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_PAGE_SIZE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultMaxPageSize, cfg.MaxPageSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inlet.yaml")
	content := []byte("listen: \"127.0.0.1:9999\"\nlog_level: DEBUG\nmax_page_size: 25\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("LISTEN", "127.0.0.1:7777")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_PAGE_SIZE", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env wins over file; file wins over defaults.
	assert.Equal(t, "127.0.0.1:7777", cfg.Listen)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 25, cfg.MaxPageSize)
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [not, a, string\n"), 0o644))

	t.Setenv("WEBHOOK_SECRET", "s3cret")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabasePath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"sqlite url", "sqlite:///./data/inlet.db", "./data/inlet.db"},
		{"absolute sqlite url", "sqlite:////var/lib/inlet/inlet.db", "/var/lib/inlet/inlet.db"},
		{"plain path", "/tmp/inlet.db", "/tmp/inlet.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{DatabaseURL: tt.url}
			assert.Equal(t, tt.want, c.DatabasePath())
		})
	}
}
