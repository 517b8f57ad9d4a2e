package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagRemember bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <corpus-tag> [pattern]",
	Short: "Parse a corpus and store its header metadata",
	Long: `Parses every file matching the corpus pattern, extracts header
metadata and stores documents, authors, titles, dates and identifiers.
Malformed documents are counted and skipped, never fatal.

The pattern argument is a filesystem glob, e.g. '/data/frantext/*.xml'.
When omitted, the pattern configured for the corpus tag is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&flagRemember, "remember", false,
		"persist the pattern in the configuration for later runs")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	tag := args[0]
	explicit := ""
	if len(args) > 1 {
		explicit = args[1]
	}
	pattern, err := corpusPattern(tag, explicit)
	if err != nil {
		return err
	}

	if flagRemember && explicit != "" && configStore != nil {
		if err := configStore.SetCorpus(tag, explicit); err != nil {
			return fmt.Errorf("saving corpus pattern: %w", err)
		}
	}

	status, err := ingestor.ParseCorpus(context.Background(), tag, pattern)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Run %s: %d documents ingested, %d errors.\n",
		status.RunID, status.Documents, status.Errors)
	return nil
}
