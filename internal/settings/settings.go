package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// MigrationStatus tracks the one-way legacy to structured store migration.
// The flag lives outside both stores and is the single source of truth
// for which store is authoritative.
type MigrationStatus string

const (
	MigrationNotStarted MigrationStatus = "not_started"
	MigrationInProgress MigrationStatus = "in_progress"
	MigrationCompleted  MigrationStatus = "completed"
	MigrationFailed     MigrationStatus = "failed"
)

// IsValid returns true if the status is a known value
func (s MigrationStatus) IsValid() bool {
	switch s {
	case MigrationNotStarted, MigrationInProgress, MigrationCompleted, MigrationFailed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s MigrationStatus) String() string {
	return string(s)
}

const (
	keyMigrationStatus   = "migration.status"
	keyDeleteLegacyFiles = "migration.delete_legacy_after_migration"
	keySyncMode          = "sync.mode"
)

// Store persists user-level settings to a small YAML file,
// separate from both the legacy files and the structured store.
type Store struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// NewStore loads settings from path, creating defaults if the file is absent
func NewStore(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault(keyMigrationStatus, string(MigrationNotStarted))
	v.SetDefault(keyDeleteLegacyFiles, false)
	v.SetDefault(keySyncMode, "local")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// MigrationStatus returns the current migration status flag
func (s *Store) MigrationStatus() MigrationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := MigrationStatus(s.v.GetString(keyMigrationStatus))
	if !status.IsValid() {
		return MigrationNotStarted
	}
	return status
}

// SetMigrationStatus durably updates the migration status flag
func (s *Store) SetMigrationStatus(status MigrationStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid migration status: %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keyMigrationStatus, string(status))
	return s.persist()
}

// DeleteLegacyAfterMigration reports whether the user opted into deleting
// legacy files instead of renaming them after a completed migration
func (s *Store) DeleteLegacyAfterMigration() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(keyDeleteLegacyFiles)
}

// SetDeleteLegacyAfterMigration records the legacy file retirement preference
func (s *Store) SetDeleteLegacyAfterMigration(del bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keyDeleteLegacyFiles, del)
	return s.persist()
}

// SyncMode returns the configured sync mode ("cloud" or "local")
func (s *Store) SyncMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keySyncMode)
}

// SetSyncMode records the sync mode chosen by the capability check
func (s *Store) SetSyncMode(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keySyncMode, mode)
	return s.persist()
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
