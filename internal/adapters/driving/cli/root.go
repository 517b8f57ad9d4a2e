// Package cli implements the teiscope command-line interface. It is a
// driving adapter: commands call core services through the driving
// ports and never touch storage directly.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/obvil-labs/teiscope/internal/adapters/driven/config/file"
	"github.com/obvil-labs/teiscope/internal/adapters/driven/corpus"
	"github.com/obvil-labs/teiscope/internal/adapters/driven/dewey"
	"github.com/obvil-labs/teiscope/internal/adapters/driven/storage/sqlite"
	"github.com/obvil-labs/teiscope/internal/core/ports/driven"
	"github.com/obvil-labs/teiscope/internal/core/ports/driving"
	"github.com/obvil-labs/teiscope/internal/core/services"
	"github.com/obvil-labs/teiscope/internal/logger"
)

// version is the CLI version, overridable at build time.
var version = "0.1.0"

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagDBPath    string
)

// Wired services. Tests inject fakes through SetServices; production
// wiring happens lazily in ensureServices.
var (
	ingestor    driving.Ingestor
	reconciler  driving.Reconciler
	exporter    driving.Exporter
	configStore *file.ConfigStore
	store       *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "teiscope",
	Short: "Extract, reconcile and enrich TEI corpus metadata",
	Long: `Teiscope walks XML/TEI corpora, extracts bibliographic metadata from
document headers into a relational store, reconciles author identities
across the whole corpus and emits enriched records: amended TEI
headers, CSV exports and a YAML reconciliation report.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
		logger.SetVerbose(flagVerbose)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "",
		"configuration directory (default ~/.teiscope)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "",
		"SQLite database path (overrides configuration)")
}

// Root returns the assembled root command for the entry point.
func Root() *cobra.Command {
	return rootCmd
}

// SetServices injects service implementations, bypassing the lazy
// production wiring. Used by tests.
func SetServices(i driving.Ingestor, r driving.Reconciler, e driving.Exporter) {
	ingestor = i
	reconciler = r
	exporter = e
}

// ensureServices opens the configuration and database and wires the
// core services over them. Idempotent per process.
func ensureServices() error {
	if ingestor != nil && reconciler != nil && exporter != nil {
		return nil
	}

	var err error
	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg := configStore.Config()

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	store, err = sqlite.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("using database %s", store.Path())

	var lookup driven.DeweyLookup = dewey.Empty()
	if cfg.Dewey.Path != "" {
		table, err := dewey.Load(cfg.Dewey.Path)
		if err != nil {
			return fmt.Errorf("loading dewey lookup: %w", err)
		}
		logger.Debug("loaded %d dewey entries", table.Len())
		lookup = table
	}

	ingestor = services.NewIngestService(store.Runs(), store.Documents(), store.Items(), corpus.NewReader())
	reconciler = services.NewReconcileService(store.Documents(), store.Items(), store.Persons(),
		store, lookup, services.NewScorer())
	exporter = services.NewExportService()
	return nil
}

func closeStore() {
	if store != nil {
		_ = store.Close()
		store = nil
	}
}

// corpusPattern resolves the glob for a corpus tag: an explicit
// argument wins over the configured one.
func corpusPattern(tag, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if configStore != nil {
		if pattern, ok := configStore.CorpusPattern(tag); ok {
			return pattern, nil
		}
	}
	return "", fmt.Errorf("no pattern configured for corpus %q", tag)
}
