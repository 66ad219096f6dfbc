package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration and store status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		activeStore := "legacy flat files"
		if app.Router.UsingStructured() {
			activeStore = "structured store"
		}

		fmt.Printf("Migration status:  %s\n", app.Migration.Status())
		fmt.Printf("Active store:      %s\n", activeStore)
		fmt.Printf("Legacy files:      %s\n", app.Config.Data.Dir)
		fmt.Printf("Database:          %s\n", app.Config.Database.Path)
		fmt.Printf("Sync mode:         %s\n", app.Settings.SyncMode())
		fmt.Printf("Encryption key:    ")
		if app.Crypto.HasKey() {
			fmt.Println("present")
		} else {
			fmt.Println("not yet created")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
