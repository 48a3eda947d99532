package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyscope/internal/config"
	"storyscope/internal/report"
	"storyscope/internal/store"
)

var trendsFlags struct {
	dbPath   string
	window   int
	markdown bool
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show per-assignee trends across recent sprint runs",
	Long: `Compare each assignee's latest sprint runs and flag declining, improving
or volatile coverage. Needs at least two stored runs per assignee.`,
	Args: cobra.NoArgs,
	RunE: runTrends,
}

func init() {
	f := trendsCmd.Flags()
	f.StringVar(&trendsFlags.dbPath, "db", "", "Results DB path (default from config)")
	f.IntVar(&trendsFlags.window, "window", 0, "Number of recent runs to compare (default from config)")
	f.BoolVar(&trendsFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runTrends(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if trendsFlags.dbPath != "" {
		cfg.Output.DBPath = trendsFlags.dbPath
	}
	window := cfg.Run.TrendWindow
	if trendsFlags.window > 0 {
		window = trendsFlags.window
	}

	st, err := store.Open(cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	history, err := st.History()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	trends := report.CalculateTrends(history, window)
	if len(trends) == 0 {
		fmt.Println("Not enough history for trends; run at least two sprint assessments.")
		return nil
	}
	fmt.Println(report.TrendTable(trends, tableMode(trendsFlags.markdown)))
	return nil
}
