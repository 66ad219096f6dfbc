package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/snupai/mira/internal/backup"
	"github.com/snupai/mira/internal/codec"
	"github.com/snupai/mira/internal/config"
	"github.com/snupai/mira/internal/crypto"
	"github.com/snupai/mira/internal/migration"
	"github.com/snupai/mira/internal/router"
	"github.com/snupai/mira/internal/settings"
	"github.com/snupai/mira/internal/store/legacy"
	"github.com/snupai/mira/internal/store/structured"
	"github.com/snupai/mira/internal/syncmode"
	"github.com/snupai/mira/pkg/database"
	"github.com/snupai/mira/pkg/logging"
)

// App wires all components together. Everything is constructed explicitly
// from configuration; there are no package-level singletons.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Settings   *settings.Store
	Crypto     *crypto.Service
	Legacy     *legacy.Store
	Structured *structured.Store
	Router     *router.CompatibilityRouter
	Backups    *backup.Manager
	Migration  *migration.Service
}

// NewApp builds the application from the config file at configPath
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	settingsStore, err := settings.NewStore(cfg.Data.SettingsFile)
	if err != nil {
		return nil, err
	}

	cryptoService := crypto.NewService(newKeyStore(cfg.Keyring), logger)
	entityCodec := codec.New(cryptoService, logger)

	legacyStore := legacy.NewStore(cfg.Data.Dir, settingsStore, logger)

	structuredStore, err := structured.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, entityCodec, logger)
	if err != nil {
		return nil, err
	}

	backups := backup.NewManager(cfg.Data.Dir, cfg.Data.BackupDir, logger)

	// Capability check; the persistence contract is the same either way
	mode := syncmode.Detect(syncmode.NoCloud, logger)
	if settingsStore.SyncMode() != mode.String() {
		if err := settingsStore.SetSyncMode(mode.String()); err != nil {
			logger.Warn("Failed to persist sync mode", zap.Error(err))
		}
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Settings:   settingsStore,
		Crypto:     cryptoService,
		Legacy:     legacyStore,
		Structured: structuredStore,
		Router:     router.New(legacyStore, structuredStore, settingsStore, logger),
		Backups:    backups,
		Migration: migration.NewService(
			legacyStore, structuredStore, backups, settingsStore, cfg.Data.Dir, logger),
	}, nil
}

// newKeyStore selects the file fallback when configured, the OS keyring
// otherwise
func newKeyStore(cfg config.KeyringConfig) crypto.KeyStore {
	if cfg.FilePath != "" {
		return crypto.NewFileKeyStore(cfg.FilePath)
	}
	return crypto.NewKeyringStore(cfg.Service, cfg.Account)
}

// Close releases the application's resources
func (a *App) Close() {
	if err := a.Structured.Close(); err != nil {
		a.Logger.Error("Failed to close database", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
