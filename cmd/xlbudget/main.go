// Package main provides the CLI entry point for xlbudget.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajack/xlbudget"
)

var (
	configPath string
	outputPath string
	dryRun     bool
	rollback   bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlbudget",
		Short: "Consolidate partner budget sheets into overview sheets",
		Long: `xlbudget copies a fixed set of cells from every partner sheet (P2-..., P3-...)
of a project budget workbook into partner-indexed rows of its overview
sheets, rewriting formula row references for the move and printing a full
per-cell audit trail.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "xlbudget.yaml", "Consolidation config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	consolidateCmd := &cobra.Command{
		Use:   "consolidate [workbook.xlsx]",
		Short: "Update all configured overview sheets and save the workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runConsolidate,
	}
	consolidateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to a new file instead of in place")
	consolidateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Audit only, leave the workbook untouched")
	consolidateCmd.Flags().BoolVar(&rollback, "rollback-on-failure", false, "Restore applied cells when any cell fails")

	inspectCmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "List discovered partner sheets and their overview rows",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(consolidateCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := xlbudget.LoadConfig(configPath)
	if err != nil {
		return err
	}

	doc, err := xlbudget.OpenDocument(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	engine := xlbudget.NewEngine(
		xlbudget.WithConfig(cfg),
		xlbudget.WithLogger(logger),
		xlbudget.WithDryRun(dryRun),
		xlbudget.WithRollbackOnFailure(rollback),
	)

	failed := 0
	for _, overview := range cfg.Overviews {
		report, err := engine.Consolidate(doc, overview.Sheet)
		if err != nil {
			return fmt.Errorf("consolidate %q: %w", overview.Sheet, err)
		}
		fmt.Print(report.String())
		failed += len(report.Failed())
	}

	if dryRun {
		logger.Info("dry run, workbook not saved")
		return nil
	}
	if outputPath != "" {
		if err := doc.SaveAs(outputPath); err != nil {
			return fmt.Errorf("save %q: %w", outputPath, err)
		}
	} else if err := doc.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d cells failed to consolidate", failed)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := xlbudget.LoadConfig(configPath)
	if err != nil {
		return err
	}

	doc, err := xlbudget.OpenDocument(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	partners := xlbudget.DiscoverPartners(doc)
	if len(partners) == 0 {
		return xlbudget.ErrNoPartners
	}

	for _, p := range partners {
		fmt.Printf("%s\n", p)
		for _, overview := range cfg.Overviews {
			row, err := overview.DestinationRow(p.Ordinal)
			if err != nil {
				fmt.Printf("  %s: %v\n", overview.Sheet, err)
				continue
			}
			fmt.Printf("  %s: row %d\n", overview.Sheet, row)
		}
	}
	return nil
}
