package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "logpose",
	Short:        "Log Pose bot maintenance commands",
	Long:         "Maintenance commands for the Log Pose bot: command registration, dataset scraping and the refresh scheduler.",
	SilenceUsage: true,
}

var (
	okf   = color.New(color.FgGreen).SprintfFunc()
	warnf = color.New(color.FgYellow).SprintfFunc()
	errf  = color.New(color.FgRed, color.Bold).SprintfFunc()
)

// Execute applies registered commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(errf("Error: %v", err))
		os.Exit(1)
	}
}
