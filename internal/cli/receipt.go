package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/till/internal/adapters/cli"
	"github.com/example/till/internal/ports/primary"
	"github.com/example/till/internal/wire"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the receipt preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Show(cmd.Context())
	},
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage line items",
	Long:  "Add, remove, edit and list the receipt's line items. Positions are 1-based.",
}

var itemAddCmd = &cobra.Command{
	Use:   "add [name] [price]",
	Short: "Add a line item (blank when no arguments are given)",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name, price string
		if len(args) > 0 {
			name = args[0]
		}
		if len(args) > 1 {
			price = args[1]
		}
		code, _ := cmd.Flags().GetString("code")

		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Add(cmd.Context(), name, price, code)
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:     "remove [position]",
	Aliases: []string{"rm"},
	Short:   "Remove a line item (the last remaining item is kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Remove(cmd.Context(), position)
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit [position]",
	Short: "Edit a line item in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		price, _ := flags.GetString("price")
		code, _ := flags.GetString("code")

		if !flags.Changed("name") && !flags.Changed("price") && !flags.Changed("code") {
			return fmt.Errorf("nothing to change\nHint: Use --name, --price or --code")
		}

		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Edit(cmd.Context(), position,
			optionalString(flags.Changed("name"), name),
			optionalString(flags.Changed("price"), price),
			optionalString(flags.Changed("code"), code),
		)
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List line items with their positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.List(cmd.Context())
	},
}

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Change store details, date or time",
	Long: `Change the receipt header. Only the flags given are changed.
An empty --store-name or --location falls back to the store default.
--store-number and --manager are printed on walmart receipts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		store, _ := flags.GetString("store-name")
		location, _ := flags.GetString("location")
		number, _ := flags.GetString("store-number")
		manager, _ := flags.GetString("manager")
		date, _ := flags.GetString("date")
		clock, _ := flags.GetString("time")

		req := primary.UpdateHeaderRequest{
			StoreName:     optionalString(flags.Changed("store-name"), store),
			StoreLocation: optionalString(flags.Changed("location"), location),
			StoreNumber:   optionalString(flags.Changed("store-number"), number),
			Manager:       optionalString(flags.Changed("manager"), manager),
			Date:          optionalString(flags.Changed("date"), date),
			Time:          optionalString(flags.Changed("time"), clock),
		}

		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Header(cmd.Context(), req)
	},
}

var randomizeCmd = &cobra.Command{
	Use:   "randomize",
	Short: "Replace the items with 5 to 12 random catalog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Randomize(cmd.Context())
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the receipt and record it in the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Save(cmd.Context())
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the sample items and today's date",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}
		return adapter.Reset(cmd.Context())
	},
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the receipt as text, PDF or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if format == cliadapter.FormatPDF && output == "" {
			output = "receipt.pdf"
		}

		adapter, err := wire.ReceiptAdapter()
		if err != nil {
			return err
		}

		if output == "" {
			return adapter.Print(cmd.Context(), os.Stdout, format)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		if err := adapter.Print(cmd.Context(), f, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("✓ Wrote %s\n", output)
		return nil
	},
}

func init() {
	// item flags
	itemAddCmd.Flags().String("code", "", "Item code")
	itemEditCmd.Flags().String("name", "", "New name")
	itemEditCmd.Flags().String("price", "", "New price (empty excludes the item from the total)")
	itemEditCmd.Flags().String("code", "", "New item code")

	// header flags
	headerCmd.Flags().String("store-name", "", "Store name")
	headerCmd.Flags().String("location", "", "Store location")
	headerCmd.Flags().String("store-number", "", "Store number, printed before the location")
	headerCmd.Flags().String("manager", "", "Manager name")
	headerCmd.Flags().String("date", "", "Receipt date (YYYY-MM-DD)")
	headerCmd.Flags().String("time", "", "Receipt time (HH:MM or HH:MM:SS)")

	// print flags
	printCmd.Flags().StringP("format", "f", cliadapter.FormatText, "Output format (text, pdf, json)")
	printCmd.Flags().StringP("output", "o", "", "Output file (default stdout; receipt.pdf for pdf)")

	// Register subcommands
	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemRemoveCmd)
	itemCmd.AddCommand(itemEditCmd)
	itemCmd.AddCommand(itemListCmd)
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return showCmd
}

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	return itemCmd
}

// HeaderCmd returns the header command
func HeaderCmd() *cobra.Command {
	return headerCmd
}

// RandomizeCmd returns the randomize command
func RandomizeCmd() *cobra.Command {
	return randomizeCmd
}

// SaveCmd returns the save command
func SaveCmd() *cobra.Command {
	return saveCmd
}

// ResetCmd returns the reset command
func ResetCmd() *cobra.Command {
	return resetCmd
}

// PrintCmd returns the print command
func PrintCmd() *cobra.Command {
	return printCmd
}
