package cmd

import (
	"github.com/spf13/cobra"

	"logpose.GO/core/logger"
	"logpose.GO/core/registry"
)

// Register adds a maintenance command from an extension package's init().
// Names are unique; registering after Apply panics.
func Register(c *cobra.Command) {
	registry.Provide(registry.KeyRegistryCmd, c.Name(), c)
}

// Apply attaches the registered commands to the root command in name order
// and freezes the registry. A command shadowing a built-in one is skipped.
func Apply() {
	for _, name := range registry.SymbolNames[*cobra.Command](registry.KeyRegistryCmd) {
		c, _ := registry.Symbol[*cobra.Command](registry.KeyRegistryCmd, name)
		if existing, _, err := rootCmd.Find([]string{name}); err == nil && existing != rootCmd {
			logger.ComponentLogger("cmd").Warnw("extension command shadows a built-in one, skipped", "command", name)
			continue
		}
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
