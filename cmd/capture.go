// Package cmd defines and implements the CLI commands for the snapreport executable.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/capture"
	"github.com/halvorsen/snapreport/internal/logging"
	"github.com/halvorsen/snapreport/internal/pipeline"
	"github.com/halvorsen/snapreport/internal/report"
	"github.com/halvorsen/snapreport/internal/session"
	"github.com/halvorsen/snapreport/internal/urls"
)

var (
	captureInput  string
	captureOutput string
	captureMode   string
	captureLayout string
)

// newCaptureCmd creates and configures the 'capture' subcommand. It runs the
// whole flow: load URLs, capture screenshots, assemble the PDF report.
func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture screenshots for every URL in the input file and build the report",
		Long: `Loads named URLs from a TXT or CSV file, captures a screenshot of each one
in a shared browser session, and writes a paginated PDF report. A URL that
fails after retries is recorded in the report with its error; it never aborts
the run. Press Ctrl-C to stop at the next safe point; screenshots already
taken are kept and reported.`,

		RunE: runCaptureCommand,
	}

	cmd.Flags().StringVarP(&captureInput, "input", "i", "", "input file with named URLs (.txt or .csv)")
	cmd.Flags().StringVarP(&captureOutput, "output", "o", "report.pdf", "output PDF path")
	cmd.Flags().StringVarP(&captureMode, "mode", "m", "", "capture mode: desktop, fullpage, both, scroll")
	cmd.Flags().StringVarP(&captureLayout, "layout", "l", "", "report layout: single, stacked, comparison")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runCaptureCommand(cmd *cobra.Command, _ []string) error {
	// Flags override the config file and environment.
	if captureMode != "" {
		viper.Set("pipeline.mode", captureMode)
	}
	if captureLayout != "" {
		viper.Set("report.layout", captureLayout)
	}

	captureCfg, err := capture.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load capture config: %w", err)
	}
	opts, err := pipeline.LoadOptions(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load pipeline options: %w", err)
	}
	reportCfg, err := report.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load report config: %w", err)
	}

	entries, err := loadEntries(captureInput)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no valid URLs in %s", captureInput)
	}
	logging.L.Info("Loaded URLs", zap.Int("count", len(entries)), zap.String("input", captureInput))

	driver, err := capture.NewChromedpDriver(captureCfg, logging.L)
	if err != nil {
		return fmt.Errorf("init capture driver: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := urls.NewStore()
	store.Extend(entries)
	controller := session.NewController(store, logging.L)

	results, err := controller.Run(ctx, driver, opts)
	if err != nil {
		return fmt.Errorf("capture run: %w", err)
	}

	succeeded := 0
	for _, r := range results {
		if r.Err == nil && len(r.Artifacts) > 0 {
			succeeded++
		}
	}
	if succeeded == 0 {
		logging.L.Warn("No screenshots were taken; skipping report assembly.")
		return nil
	}

	assembler := report.NewAssembler(reportCfg, logging.L)
	if err := assembler.Assemble(results, captureOutput); err != nil {
		return fmt.Errorf("assemble report: %w", err)
	}

	logging.L.Info("Capture command finished.",
		zap.Int("urls", len(entries)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(results)-succeeded),
		zap.String("report", captureOutput),
	)
	return nil
}

// loadEntries picks the source format from the file extension.
func loadEntries(path string) ([]urls.Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return urls.LoadCSV(path, logging.L)
	default:
		return urls.LoadTXT(path, logging.L)
	}
}
