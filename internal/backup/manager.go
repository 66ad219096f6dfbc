package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoBackupFound is returned when a restore finds no backup run
var ErrNoBackupFound = errors.New("no backup found to restore from")

const dirPrefix = "backup_"

// Manager creates and restores verbatim copies of the legacy files.
// Each backup run gets its own subfolder named with an ISO-8601 timestamp;
// the lexicographically latest folder is the most recent run.
type Manager struct {
	dataDir   string
	backupDir string
	logger    *zap.Logger
}

// NewManager creates a backup manager for the given data and backup roots
func NewManager(dataDir, backupDir string, logger *zap.Logger) *Manager {
	return &Manager{
		dataDir:   dataDir,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Create copies the given legacy files into a new timestamped backup
// folder. Files that do not exist are skipped. Returns the folder path.
func (m *Manager) Create(files []string, now time.Time) (string, error) {
	timestamp := now.UTC().Format("2006-01-02T15-04-05Z")
	runDir := filepath.Join(m.backupDir, dirPrefix+timestamp)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, name := range files {
		src := filepath.Join(m.dataDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		if err := copyFile(src, filepath.Join(runDir, name)); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", name, err)
		}
		m.logger.Debug("Backed up legacy file", zap.String("file", name))
	}

	m.logger.Info("Backup completed", zap.String("dir", runDir))
	return runDir, nil
}

// Latest returns the path of the most recent backup run,
// or ErrNoBackupFound
func (m *Manager) Latest() (string, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoBackupFound
		}
		return "", fmt.Errorf("failed to read backup directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), dirPrefix) {
			runs = append(runs, entry.Name())
		}
	}
	if len(runs) == 0 {
		return "", ErrNoBackupFound
	}

	sort.Strings(runs)
	return filepath.Join(m.backupDir, runs[len(runs)-1]), nil
}

// Restore copies the given files from the most recent backup run back into
// the data directory, replacing whatever is there
func (m *Manager) Restore(files []string) error {
	runDir, err := m.Latest()
	if err != nil {
		return err
	}

	m.logger.Info("Restoring from backup", zap.String("dir", runDir))

	for _, name := range files {
		src := filepath.Join(runDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		dst := filepath.Join(m.dataDir, name)
		_ = os.Remove(dst)
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to restore %s: %w", name, err)
		}
		m.logger.Debug("Restored legacy file", zap.String("file", name))
	}

	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
