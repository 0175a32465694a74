package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"logpose.GO/app"
	"logpose.GO/bot/command"
	_ "logpose.GO/bot/commands"
)

// RefreshOptions mirror the commands:refresh flags.
type RefreshOptions struct {
	Global bool
	DeReg  bool
}

var refreshOpts RefreshOptions

var commandsRefreshCmd = &cobra.Command{
	Use:   "commands:refresh",
	Short: "Push the slash command definitions to Discord",
	Long: "Loads the command extensions and replaces the remote command set with them. " +
		"Without --global the home guild's commands are replaced.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		_, cmds := a.Hub()
		if err := RefreshCommands(cmd.Context(), cmds, a.Config.CommandsDir, a.Config.Token, refreshOpts); err != nil {
			return err
		}
		cmd.Println(okf("Refreshed %d application (/) commands", len(cmds.Definitions())))
		return nil
	},
}

// RefreshCommands loads dir into cmds (unless de-registering) and pushes
// the result to the global or home guild scope.
func RefreshCommands(ctx context.Context, cmds *command.Registry, dir, token string, opts RefreshOptions) error {
	if token == "" {
		return errors.WithHint(errors.New("no login token"), "set CLIENT_LOGIN_TOKEN")
	}
	scope := command.Guild
	if opts.Global {
		scope = command.Global
	}
	if opts.DeReg {
		return cmds.Clear(ctx, token, scope)
	}
	cmds.LoadFolder(ctx, dir)
	return cmds.SyncRegistry(ctx, token, scope)
}

// AddRefreshFlags binds --global/-g and --de-reg/-d to opts.
func AddRefreshFlags(c *cobra.Command, opts *RefreshOptions) {
	c.Flags().BoolVarP(&opts.Global, "global", "g", false, "Register commands globally instead of in the home guild")
	c.Flags().BoolVarP(&opts.DeReg, "de-reg", "d", false, "Remove every registered command instead of pushing")
}

func init() {
	AddRefreshFlags(commandsRefreshCmd, &refreshOpts)
	rootCmd.AddCommand(commandsRefreshCmd)
}
