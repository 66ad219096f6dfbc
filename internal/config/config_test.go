package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "data/mira.db", cfg.Database.Path)
	assert.Equal(t, "com.snupai.mira.encryption", cfg.Keyring.Service)
	assert.Equal(t, "masterKey", cfg.Keyring.Account)
	assert.Equal(t, "https://api.frankfurter.app", cfg.Rates.BaseURL)
	assert.Equal(t, time.Hour, cfg.Worker.OverdueCheckInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data:
  dir: /var/lib/mira
database:
  path: /var/lib/mira/store.db
logger:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/mira", cfg.Data.Dir)
	assert.Equal(t, "/var/lib/mira/store.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Untouched sections keep their defaults
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"valid", func(cfg *Config) {}, false},
		{"missing data dir", func(cfg *Config) { cfg.Data.Dir = "" }, true},
		{"missing backup dir", func(cfg *Config) { cfg.Data.BackupDir = "" }, true},
		{"missing database path", func(cfg *Config) { cfg.Database.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLegacyFilePath(t *testing.T) {
	cfg := &Config{Data: DataConfig{Dir: "data"}}
	assert.Equal(t, filepath.Join("data", "clients.json"), cfg.LegacyFilePath("clients.json"))
}
