package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/snupai/mira/internal/worker"
)

var watchOverdue bool

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark sent invoices past their due date as overdue",
	Long: `Runs one overdue sweep over all invoices. With --watch the sweep
repeats at the configured interval until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		w := worker.NewOverdueWorker(worker.OverdueWorkerConfig{
			CheckInterval: app.Config.Worker.OverdueCheckInterval,
		}, app.Router, app.Logger)

		if !watchOverdue {
			return w.Sweep(cmd.Context())
		}

		manager := worker.NewManager(app.Logger)
		manager.Register(w)
		if err := manager.StartAll(cmd.Context()); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		manager.StopAll()
		fmt.Println("Stopped.")
		return nil
	},
}

func init() {
	overdueCmd.Flags().BoolVar(&watchOverdue, "watch", false, "keep sweeping at the configured interval")
	rootCmd.AddCommand(overdueCmd)
}
