package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"storyscope/internal/advisory"
	"storyscope/internal/assess"
	"storyscope/internal/config"
	"storyscope/internal/logging"
	"storyscope/internal/report"
	"storyscope/internal/store"
	"storyscope/internal/tracker"
	"storyscope/internal/wiring"
)

var assessFlags struct {
	sprint      string
	dbPath      string
	csvPath     string
	workers     int
	advisory    bool
	testHistory bool
	markdown    bool
}

var assessCmd = &cobra.Command{
	Use:   "assess <query-id>",
	Short: "Fetch a sprint's stories from the tracker and assess them",
	Long: `Resolve a saved tracker query to its stories, assess each one, persist
the results for the sprint and print the detail and summary tables.

Usage:
  storyscope assess 2086febc-1e36-4e97-a151-d3c8b1b83bbf --sprint 2026-S3

The tracker organization, project and PAT come from $AZURE_ORG,
$AZURE_PROJECT and $AZURE_PAT (a .env file is honored). Pass --advisory
to enable the LLM second opinion, which needs $GEMINI_API_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVar(&assessFlags.sprint, "sprint", "", "Sprint label to record results under (required)")
	f.StringVar(&assessFlags.dbPath, "db", "", "Results DB path (default from config)")
	f.StringVarP(&assessFlags.csvPath, "csv", "o", "", "Also export the detail table to this CSV file")
	f.IntVar(&assessFlags.workers, "workers", 0, "Parallel assessment workers (default from config)")
	f.BoolVar(&assessFlags.advisory, "advisory", false, "Enable the LLM advisory gate for low-scoring stories")
	f.BoolVar(&assessFlags.testHistory, "test-history", false, "Fetch per-test revision history for review-lifecycle checks (one extra request per test)")
	f.BoolVar(&assessFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
	_ = assessCmd.MarkFlagRequired("sprint")
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.New("assess")

	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTracker(); err != nil {
		return err
	}
	applyAssessFlags(cfg)

	client, err := tracker.New(cfg.TrackerBaseURL(), cfg.Tracker.PAT,
		tracker.WithLogger(logging.New("tracker")))
	if err != nil {
		return fmt.Errorf("tracker client: %w", err)
	}

	var advise assess.AdvisoryFunc
	if cfg.Advisory.Enabled {
		if cfg.Advisory.APIKey == "" {
			return fmt.Errorf("advisory enabled but GEMINI_API_KEY is not set")
		}
		var opts []advisory.Option
		if cfg.Advisory.Model != "" {
			opts = append(opts, advisory.WithModel(cfg.Advisory.Model))
		}
		ac, err := advisory.NewClient(ctx, cfg.Advisory.APIKey, opts...)
		if err != nil {
			return fmt.Errorf("advisory client: %w", err)
		}
		advise = ac.Review
	}

	st, err := store.Open(cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	outcome, err := wiring.Run(ctx, client, st, wiring.Options{
		QueryID:          args[0],
		Sprint:           assessFlags.sprint,
		Workers:          cfg.Run.Workers,
		Advise:           advise,
		FetchTestHistory: assessFlags.testHistory,
		TrendWindow:      cfg.Run.TrendWindow,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	mode := tableMode(assessFlags.markdown)
	fmt.Println(report.StoryTable(outcome.Records, mode))
	fmt.Println()
	fmt.Println(report.SummaryTable(outcome.Summaries, mode))
	if len(outcome.Trends) > 0 {
		fmt.Println()
		fmt.Println(report.TrendTable(outcome.Trends, mode))
	}

	if cfg.Output.CSVPath != "" {
		if err := exportCSV(cfg.Output.CSVPath, outcome.Records); err != nil {
			return err
		}
		logger.Info("wrote CSV export", "path", cfg.Output.CSVPath)
	}
	return nil
}

func applyAssessFlags(cfg *config.Config) {
	if assessFlags.dbPath != "" {
		cfg.Output.DBPath = assessFlags.dbPath
	}
	if assessFlags.csvPath != "" {
		cfg.Output.CSVPath = assessFlags.csvPath
	}
	if assessFlags.workers > 0 {
		cfg.Run.Workers = assessFlags.workers
	}
	if assessFlags.advisory {
		cfg.Advisory.Enabled = true
	}
}

func exportCSV(path string, records []store.StoryRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create csv dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

func tableMode(markdown bool) report.Mode {
	if markdown {
		return report.Markdown
	}
	return report.ASCII
}
