package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/logging"
	"github.com/halvorsen/snapreport/internal/urls"
)

var (
	sampleDir     string
	convertInput  string
	convertOutput string
)

// newURLsCmd groups the URL file utilities.
func newURLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urls",
		Short: "URL file utilities",
	}
	cmd.AddCommand(newSampleCmd())
	cmd.AddCommand(newConvertCmd())
	return cmd
}

// newSampleCmd creates the 'urls sample' subcommand, which writes example
// input files showing every accepted line format.
func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write sample TXT and CSV input files",

		RunE: runSampleCommand,
	}
	cmd.Flags().StringVarP(&sampleDir, "dir", "d", ".", "directory to write the sample files into")
	return cmd
}

func runSampleCommand(*cobra.Command, []string) error {
	txtPath := filepath.Join(sampleDir, "sample_urls.txt")
	csvPath := filepath.Join(sampleDir, "sample_urls.csv")

	if err := urls.WriteSampleTXT(txtPath); err != nil {
		return fmt.Errorf("write sample txt: %w", err)
	}
	if err := urls.WriteSampleCSV(csvPath); err != nil {
		return fmt.Errorf("write sample csv: %w", err)
	}
	logging.L.Info("Sample files written",
		zap.String("txt", txtPath),
		zap.String("csv", csvPath),
	)
	return nil
}

// newConvertCmd creates the 'urls convert' subcommand, a load and re-export
// round trip between the TXT and CSV formats.
func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a URL file between the TXT and CSV formats",

		RunE: runConvertCommand,
	}
	cmd.Flags().StringVarP(&convertInput, "input", "i", "", "input file (.txt or .csv)")
	cmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (.txt or .csv)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runConvertCommand(*cobra.Command, []string) error {
	entries, err := loadEntries(convertInput)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no valid URLs in %s", convertInput)
	}

	switch strings.ToLower(filepath.Ext(convertOutput)) {
	case ".csv":
		err = urls.ExportCSV(entries, convertOutput)
	default:
		err = urls.ExportTXT(entries, convertOutput)
	}
	if err != nil {
		return fmt.Errorf("export urls: %w", err)
	}

	logging.L.Info("Converted URL file",
		zap.String("input", convertInput),
		zap.String("output", convertOutput),
		zap.Int("entries", len(entries)),
	)
	return nil
}
