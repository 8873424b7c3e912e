package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/till/internal/config"
	"github.com/example/till/internal/wire"
)

// RegisterGlobalFlags adds the configuration flags shared by every command.
// Set flags override the config file and environment.
func RegisterGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("variant", "", "Store variant (target, walmart)")
	flags.String("store", "", "Persistence backend (sqlite, file)")
	flags.String("db", "", "SQLite database path")
	flags.String("catalog", "", "Catalog file path or http(s) URL")
	flags.Bool("no-autosave", false, "Do not save after each change")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		wire.Override(flagOverrides(cmd))
	}
}

// flagOverrides returns a config change applying the flags the user set.
func flagOverrides(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(c *config.Config) {
		if flags.Changed("variant") {
			c.Variant, _ = flags.GetString("variant")
		}
		if flags.Changed("store") {
			c.Store, _ = flags.GetString("store")
		}
		if flags.Changed("db") {
			c.DBPath, _ = flags.GetString("db")
		}
		if flags.Changed("catalog") {
			c.Catalog, _ = flags.GetString("catalog")
		}
		if noAutosave, _ := flags.GetBool("no-autosave"); noAutosave {
			c.Autosave = false
		}
		if flags.Changed("log-level") {
			c.LogLevel, _ = flags.GetString("log-level")
		}
	}
}
