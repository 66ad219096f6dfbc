package migration

import (
	"errors"

	"github.com/snupai/mira/internal/backup"
)

var (
	// ErrNoBackupFound is returned by Rollback when no backup run exists
	ErrNoBackupFound = backup.ErrNoBackupFound

	// ErrMigrationFailed wraps any failure of the migration algorithm.
	// Callers present retry, skip and rollback choices to the user.
	ErrMigrationFailed = errors.New("migration failed")
)
