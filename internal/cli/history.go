package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/till/internal/wire"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or restore saved receipts (the last 10 are kept)",
	Long: `List or restore saved receipts. Without a subcommand the saved
receipts are listed, newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved receipts, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	adapter, err := wire.ReceiptAdapter()
	if err != nil {
		return err
	}
	return adapter.History(cmd.Context())
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Make a saved receipt the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Restore(cmd.Context(), args[0])
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRestoreCmd)
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}
