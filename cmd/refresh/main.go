// Standalone command registration: go run ./cmd/refresh [-g] [-d]
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"logpose.GO/app"
	"logpose.GO/cmd"
)

func main() {
	var opts cmd.RefreshOptions
	root := &cobra.Command{
		Use:          "refresh",
		Short:        "Push the slash command definitions to Discord",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := context.Background()
			a, err := app.New(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			_, cmds := a.Hub()
			return cmd.RefreshCommands(ctx, cmds, a.Config.CommandsDir, a.Config.Token, opts)
		},
	}
	cmd.AddRefreshFlags(root, &opts)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
