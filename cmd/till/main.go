package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/till/internal/cli"
	"github.com/example/till/internal/version"
	"github.com/example/till/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "till",
		Short:   "till - mock retail receipt editor",
		Version: version.String(),
		Long: `till edits a mock retail receipt: store header, line items, and a
printed-style preview with subtotal, tax and total.
Changes are saved automatically; the last 10 saves are kept in the history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.RegisterGlobalFlags(rootCmd)

	// Receipt commands
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.ItemCmd())
	rootCmd.AddCommand(cli.HeaderCmd())
	rootCmd.AddCommand(cli.RandomizeCmd())
	rootCmd.AddCommand(cli.SaveCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.ResetCmd())
	rootCmd.AddCommand(cli.PrintCmd())

	// Surfaces and setup
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.ImportCmd())

	err := rootCmd.Execute()
	if closeErr := wire.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
