package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/till/internal/app"
	"github.com/example/till/internal/ports/secondary"
	"github.com/example/till/internal/wire"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy receipts from one store into another",
	Long: `Copy the current receipt and history from one store into another.

A store is a JSON state file (keys "receiptData" and "receiptHistory") or a
sqlite database. The kind is taken from the extension (.json, .db, .sqlite,
.sqlite3) or, for other names, from the file contents.

Without --to the configured store is the destination. History entries the
destination already holds are skipped.`,
	Example: `  till import --from ~/Downloads/state.json
  till import --from ~/.till/till.db --to ~/.till/state.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if _, err := os.Stat(from); err != nil {
			return fmt.Errorf("cannot read %s: %w", from, err)
		}
		if to != "" && samePath(from, to) {
			return fmt.Errorf("--from and --to name the same store")
		}

		src, closeSrc, err := wire.OpenStore(from)
		if err != nil {
			return err
		}
		defer closeSrc()

		var dst secondary.SnapshotRepository
		if to == "" {
			if dst, err = wire.SnapshotRepository(); err != nil {
				return err
			}
		} else {
			var closeDst func() error
			if dst, closeDst, err = wire.OpenStore(to); err != nil {
				return err
			}
			defer closeDst()
		}

		result, err := app.MigrateSnapshots(cmd.Context(), src, dst, dryRun)
		if err != nil {
			return err
		}

		if result.Current {
			fmt.Println("  current receipt")
		}
		for _, id := range result.Copied {
			fmt.Printf("  history %s\n", id)
		}
		for _, id := range result.Skipped {
			fmt.Printf("  skipped %s\n", id)
		}

		if dryRun {
			fmt.Println("=== DRY RUN - No changes made ===")
			return nil
		}
		fmt.Printf("✓ Imported %d history entries\n", len(result.Copied))
		return nil
	},
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func init() {
	importCmd.Flags().String("from", "", "Store to copy from (required)")
	importCmd.Flags().String("to", "", "Store to copy into (default: the configured store)")
	importCmd.Flags().Bool("dry-run", false, "Preview the import without writing")
	importCmd.MarkFlagRequired("from")
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return importCmd
}
