package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <yaml-path>",
	Short: "Write the YAML reconciliation report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	records, err := reconciler.EnrichAll(context.Background())
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}
	if err := exporter.SaveReport(args[0], records); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	cmd.Printf("Wrote report for %d records to %s.\n", len(records), args[0])
	return nil
}
