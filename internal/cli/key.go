package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the field encryption master key",
}

var keyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the master key as base64 for backup",
	Long: `Prints the master key in base64. Anyone holding this key can read
every encrypted field; store the backup accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		encoded, err := app.Crypto.ExportKey()
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	},
}

var keyImportCmd = &cobra.Command{
	Use:   "import <base64-key>",
	Short: "Replace the master key with a previously exported one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Crypto.ImportKey(args[0]); err != nil {
			return err
		}
		fmt.Println("Key imported.")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the master key",
	Long: `Deletes the master key. All previously encrypted fields become
permanently unrecoverable. Requires interactive confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("This makes all encrypted data unrecoverable. Type 'delete' to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "delete" {
			fmt.Println("Aborted.")
			return nil
		}

		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Crypto.DeleteKey(); err != nil {
			return err
		}
		fmt.Println("Key deleted.")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyExportCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}
