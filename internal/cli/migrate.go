package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snupai/mira/internal/migration"
)

var deleteLegacy bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy flat files into the structured store",
	Long: `Runs the one-time migration: backs up the legacy JSON files, loads
whatever can be read, transfers everything into the structured store in a
single transaction and retires the legacy files.

The migration is resumable: a failed or interrupted run can simply be
retried. Nothing is deleted before the transfer has committed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if deleteLegacy {
			if err := app.Settings.SetDeleteLegacyAfterMigration(true); err != nil {
				return err
			}
		}

		if !app.Migration.NeedsMigration() {
			fmt.Printf("Nothing to migrate (status: %s)\n", app.Migration.Status())
			return nil
		}

		if err := app.Migration.Migrate(cmd.Context()); err != nil {
			if errors.Is(err, migration.ErrMigrationFailed) {
				fmt.Println("Migration failed. Your legacy files are untouched;")
				fmt.Println("retry with 'mira migrate', or restore with 'mira rollback'.")
			}
			return err
		}

		fmt.Println("Migration completed. The structured store is now authoritative.")
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Mark the migration completed without transferring any data",
	Long: `Forces the migration status to completed. Legacy data is NOT
transferred and becomes invisible to the application. Only use this when
you deliberately want to start fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Migration.Skip(); err != nil {
			return err
		}
		fmt.Println("Migration skipped. Legacy data will not be transferred.")
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore legacy files from the latest backup",
	Long: `Restores the legacy JSON files from the most recent backup and
resets the migration status, making the legacy store authoritative again.
Data already in the structured store is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Migration.Rollback(cmd.Context()); err != nil {
			if errors.Is(err, migration.ErrNoBackupFound) {
				return fmt.Errorf("no backup found under %s", app.Config.Data.BackupDir)
			}
			return err
		}

		fmt.Println("Rollback completed. The legacy store is authoritative again.")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&deleteLegacy, "delete-legacy", false,
		"delete legacy files after a completed migration instead of renaming them")
	migrateCmd.AddCommand(skipCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rollbackCmd)
}
