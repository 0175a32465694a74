package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"logpose.GO/app"
	"logpose.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		deps := &cron.Deps{Config: a.Config, Updater: a.Updater, Log: a.Log}

		if jobName != "" {
			cmd.Println("Running cron job:", jobName)
			if err := cron.RunJob(ctx, jobName, deps, args...); err != nil {
				return err
			}
			cmd.Println(okf("Job %s finished", jobName))
			return nil
		}

		cmd.Println("Starting cron scheduler...")
		c, err := cron.StartCron(ctx, deps)
		if err != nil {
			return err
		}
		cmd.Println("Cron scheduler started. Press Ctrl+C to exit.")
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
