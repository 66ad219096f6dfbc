package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Keyring  KeyringConfig  `mapstructure:"keyring"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// DataConfig holds locations of the legacy flat files and backups
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	BackupDir    string `mapstructure:"backup_dir"`
	SettingsFile string `mapstructure:"settings_file"`
}

// DatabaseConfig holds structured store configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// KeyringConfig holds master key storage configuration
type KeyringConfig struct {
	Service  string `mapstructure:"service"`
	Account  string `mapstructure:"account"`
	FilePath string `mapstructure:"file_path"` // fallback store when no OS keyring is available
}

// RatesConfig holds exchange rate lookup configuration
type RatesConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	OverdueCheckInterval time.Duration `mapstructure:"overdue_check_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MIRA")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.backup_dir", "data/Backup")
	v.SetDefault("data.settings_file", "data/settings.yaml")

	// Database defaults
	v.SetDefault("database.path", "data/mira.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Keyring defaults
	v.SetDefault("keyring.service", "com.snupai.mira.encryption")
	v.SetDefault("keyring.account", "masterKey")
	v.SetDefault("keyring.file_path", "")

	// Rates defaults
	v.SetDefault("rates.base_url", "https://api.frankfurter.app")
	v.SetDefault("rates.timeout", 10*time.Second)

	// Worker defaults
	v.SetDefault("worker.overdue_check_interval", time.Hour)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.BackupDir == "" {
		return fmt.Errorf("data.backup_dir is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

// LegacyFilePath returns the path of a legacy file inside the data directory
func (c *Config) LegacyFilePath(name string) string {
	return filepath.Join(c.Data.Dir, name)
}
