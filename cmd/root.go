package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/logging"
	"github.com/halvorsen/snapreport/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapreport",
		Short: "Capture website screenshots and assemble them into a PDF report.",
		Long: `snapreport reads a list of named URLs, captures a browser screenshot of
each one, and assembles the images into a single paginated PDF report with a
title page, a summary of the included sites, and one section per URL.`,
		SilenceUsage: true,
	}

	// Initialize Viper configuration.
	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.snapreport/config.yaml)")

	cmd.AddCommand(newCaptureCmd())
	cmd.AddCommand(newURLsCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	logging.InitLogger()

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
