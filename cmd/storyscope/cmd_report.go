package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyscope/internal/config"
	"storyscope/internal/report"
	"storyscope/internal/store"
)

var reportFlags struct {
	dbPath   string
	csvPath  string
	markdown bool
}

var reportCmd = &cobra.Command{
	Use:   "report <sprint>",
	Short: "Print the stored assessment for a sprint",
	Long: `Print the per-story detail table and the per-assignee summary for a
sprint that was previously assessed, without touching the tracker.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.dbPath, "db", "", "Results DB path (default from config)")
	f.StringVarP(&reportFlags.csvPath, "csv", "o", "", "Also export the detail table to this CSV file")
	f.BoolVar(&reportFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runReport(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if reportFlags.dbPath != "" {
		cfg.Output.DBPath = reportFlags.dbPath
	}

	st, err := store.Open(cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sprint := args[0]
	records, err := st.Stories(sprint)
	if err != nil {
		return fmt.Errorf("load sprint %s: %w", sprint, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored results for sprint %s", sprint)
	}

	mode := tableMode(reportFlags.markdown)
	fmt.Println(report.StoryTable(records, mode))
	fmt.Println()
	fmt.Println(report.SummaryTable(report.Summarize(records), mode))

	if reportFlags.csvPath != "" {
		if err := exportCSV(reportFlags.csvPath, records); err != nil {
			return err
		}
	}
	return nil
}
