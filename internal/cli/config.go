package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/till/internal/config"
	"github.com/example/till/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the till configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (file, environment and flags)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wire.Config()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .till/config.json with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		path := config.Path(wd)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists\nHint: Use --force to overwrite", path)
		}

		cfg := config.Default()
		if variant, _ := cmd.Flags().GetString("variant"); variant != "" {
			cfg.Variant = variant
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(wd, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	return configCmd
}
