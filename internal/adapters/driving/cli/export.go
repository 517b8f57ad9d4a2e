package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <csv-path>",
	Short: "Export reconciled records as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	records, err := reconciler.EnrichAll(context.Background())
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}
	if err := exporter.ExportCSV(args[0], records); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Printf("Exported %d records to %s.\n", len(records), args[0])
	return nil
}
