package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/backup"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/settings"
	"github.com/snupai/mira/internal/store/legacy"
	"github.com/snupai/mira/internal/store/structured"
)

// RetiredSuffix is appended to legacy files after a completed migration
const RetiredSuffix = ".migrated"

// Service performs the one-time migration from the legacy flat files to
// the structured store:
//
//	backup → load → transform+insert → commit → mark complete → retire
//
// Any failure before commit leaves the legacy files intact and the status
// flag short of completed, so the whole run is safely repeatable. Inserts
// are keyed by entity identifier, so replaying after a partially committed
// earlier attempt cannot create duplicates.
type Service struct {
	legacy     *legacy.Store
	structured *structured.Store
	backups    *backup.Manager
	settings   *settings.Store
	dataDir    string
	logger     *zap.Logger
}

// NewService creates a migration service
func NewService(
	legacyStore *legacy.Store,
	structuredStore *structured.Store,
	backups *backup.Manager,
	settingsStore *settings.Store,
	dataDir string,
	logger *zap.Logger,
) *Service {
	return &Service{
		legacy:     legacyStore,
		structured: structuredStore,
		backups:    backups,
		settings:   settingsStore,
		dataDir:    dataDir,
		logger:     logger,
	}
}

// Status returns the durable migration status flag
func (s *Service) Status() settings.MigrationStatus {
	return s.settings.MigrationStatus()
}

// NeedsMigration reports whether a legacy profile file exists and the
// migration has not completed yet
func (s *Service) NeedsMigration() bool {
	return s.legacy.ProfileExists() && s.settings.MigrationStatus() != settings.MigrationCompleted
}

// Migrate runs the full migration algorithm. It is sequential and not
// cancellable mid-run; recovery is retry from scratch or Rollback.
func (s *Service) Migrate(ctx context.Context) error {
	if !s.NeedsMigration() {
		s.logger.Info("No migration needed",
			zap.String("status", s.settings.MigrationStatus().String()))
		return nil
	}

	// Step 1: backup. A failure here aborts before any mutation; the
	// status flag stays untouched.
	s.logger.Info("Creating backup of legacy files")
	if _, err := s.backups.Create(legacy.Files(), time.Now()); err != nil {
		return fmt.Errorf("%w: backup: %v", ErrMigrationFailed, err)
	}

	if err := s.settings.SetMigrationStatus(settings.MigrationInProgress); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	// Step 2: load. Corrupt or missing files degrade to empty collections;
	// migration carries over whatever could be read.
	profile, _ := s.legacy.Profile(ctx)
	clients, _ := s.legacy.Clients(ctx)
	invoices, _ := s.legacy.Invoices(ctx)
	templates, _ := s.legacy.Templates(ctx)

	s.logger.Info("Loaded legacy data",
		zap.Bool("profile", profile != nil),
		zap.Int("clients", len(clients)),
		zap.Int("invoices", len(invoices)),
		zap.Int("templates", len(templates)))

	// Steps 3 and 4: transform and insert everything in one staged
	// transaction, committed atomically.
	err := s.structured.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.insertAll(txCtx, profile, clients, invoices, templates)
	})
	if err != nil {
		if stErr := s.settings.SetMigrationStatus(settings.MigrationFailed); stErr != nil {
			s.logger.Error("Failed to record failed migration status", zap.Error(stErr))
		}
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	// Step 5: mark complete. From here on the structured store is
	// authoritative.
	if err := s.settings.SetMigrationStatus(settings.MigrationCompleted); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	s.logger.Info("Migration completed")

	// Step 6: retire legacy files. Non-fatal; the data already moved.
	if err := s.retireLegacyFiles(); err != nil {
		s.logger.Warn("Failed to retire legacy files", zap.Error(err))
	}

	return nil
}

// insertAll converts and stages all legacy entities. Client references are
// resolved through an identifier map; unresolvable references fall back to
// a placeholder instead of aborting.
func (s *Service) insertAll(
	ctx context.Context,
	profile *entity.CompanyProfile,
	clients []*entity.Client,
	invoices []*entity.Invoice,
	templates []*entity.InvoiceTemplate,
) error {
	if profile != nil {
		if err := s.structured.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}

	knownClients := make(map[uuid.UUID]bool, len(clients))
	for _, client := range clients {
		if err := s.structured.SaveClient(ctx, client); err != nil {
			return err
		}
		knownClients[client.ID] = true
	}

	for _, invoice := range invoices {
		if invoice.ClientID != uuid.Nil && !knownClients[invoice.ClientID] {
			s.logger.Warn("Invoice references unknown client, using placeholder",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("client_id", invoice.ClientID.String()))
			invoice.ClientID = uuid.Nil
		}
		if err := s.structured.SaveInvoice(ctx, invoice); err != nil {
			return err
		}
	}

	for _, template := range templates {
		if template.DefaultClientID != nil && !knownClients[*template.DefaultClientID] {
			s.logger.Warn("Template references unknown client, dropping reference",
				zap.String("template_id", template.ID.String()),
				zap.String("client_id", template.DefaultClientID.String()))
			template.DefaultClientID = nil
		}
		if err := s.structured.SaveTemplate(ctx, template); err != nil {
			return err
		}
	}

	return nil
}

// retireLegacyFiles renames legacy files with the .migrated suffix, or
// deletes them when the user opted in
func (s *Service) retireLegacyFiles() error {
	if s.settings.DeleteLegacyAfterMigration() {
		return s.deleteLegacyFiles()
	}
	return s.renameLegacyFiles()
}

func (s *Service) renameLegacyFiles() error {
	for _, name := range legacy.Files() {
		src := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		dst := src + RetiredSuffix
		_ = os.Remove(dst)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("failed to rename %s: %w", name, err)
		}
		s.logger.Info("Retired legacy file",
			zap.String("file", name),
			zap.String("renamed_to", name+RetiredSuffix))
	}
	return nil
}

func (s *Service) deleteLegacyFiles() error {
	for _, name := range legacy.Files() {
		path := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
		s.logger.Info("Deleted legacy file", zap.String("file", name))
	}
	return nil
}

// Rollback restores the legacy files from the most recent backup and
// resets the status flag. It never touches the structured store's data.
func (s *Service) Rollback(ctx context.Context) error {
	if err := s.backups.Restore(legacy.Files()); err != nil {
		return err
	}

	if err := s.settings.SetMigrationStatus(settings.MigrationNotStarted); err != nil {
		return fmt.Errorf("failed to reset migration status: %w", err)
	}

	s.logger.Info("Rollback completed, legacy store is authoritative again")
	return nil
}

// Skip forces the status to completed without transferring any data.
// This is the explicit, user-accepted data-loss escape hatch.
func (s *Service) Skip() error {
	s.logger.Warn("Migration skipped by user, legacy data will not be transferred")
	return s.settings.SetMigrationStatus(settings.MigrationCompleted)
}
