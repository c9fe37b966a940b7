package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/norwich-event-hub/scraper/internal/config"
	"github.com/norwich-event-hub/scraper/internal/fetch"
	"github.com/norwich-event-hub/scraper/internal/logger"
	"github.com/norwich-event-hub/scraper/internal/orchestrator"
	"github.com/norwich-event-hub/scraper/internal/server"
	"github.com/norwich-event-hub/scraper/internal/store"
)

var (
	flagConfig   string
	flagFormat   string
	flagSubmit   bool
	flagStoreURL string
	flagAddr     string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "norwich-scraper",
		Short: "Scrape Norwich event listings from third-party sites",
		Long: `Fetches event listings from the Norwich Event Hub's configured sources
concurrently, normalizes dates and times, deduplicates across sources, and
either prints the result or serves it over HTTP.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config (optional)")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newScrapeCmd(), newServeCmd())
	return root
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape across all sources and print the result",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagSubmit, "submit", false, "Submit scraped events to the event store as pending")
	cmd.Flags().StringVar(&flagStoreURL, "store-url", "", "Event store URL (overrides config)")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scrape endpoint over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// setup loads config and builds the orchestrator shared by both commands.
func setup() (*config.Config, *orchestrator.Orchestrator, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	level := logger.Level(strings.ToUpper(cfg.LogLevel))
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	client := fetch.New(cfg.FetchTimeout)
	sources, err := cfg.BuildSources(client)
	if err != nil {
		return nil, nil, fmt.Errorf("building sources: %w", err)
	}

	extractors := make([]orchestrator.Extractor, len(sources))
	for i, s := range sources {
		extractors[i] = s
	}

	orch := orchestrator.New(extractors...)
	orch.Budget = cfg.RunBudget
	return cfg, orch, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, orch, err := setup()
	if err != nil {
		return err
	}

	result := orch.Run(cmd.Context())

	if flagSubmit {
		storeURL := flagStoreURL
		if storeURL == "" {
			storeURL = cfg.Store.URL
		}
		client, err := store.NewClient(storeURL)
		if err != nil {
			return fmt.Errorf("event store: %w", err)
		}
		submitted, err := client.SubmitScraped(cmd.Context(), result.Events)
		if err != nil {
			return fmt.Errorf("submitting events: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Submitted %d of %d events to the store\n", submitted, len(result.Events))
	}

	return WriteResult(os.Stdout, result, format)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, orch, err := setup()
	if err != nil {
		return err
	}

	addr := flagAddr
	if addr == "" {
		addr = cfg.Listen
	}

	srv := server.New(orch)
	return srv.ListenAndServe(cmd.Context(), addr)
}
