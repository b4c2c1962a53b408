// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so that configuration is loaded and available
// to all other packages.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                 // Current working directory
	viper.AddConfigPath("$HOME/.snapreport") // User-specific configuration

	// --- Set Defaults ---
	// Sensible defaults for key configuration parameters. These are used when
	// the values are not provided in a config file or via environment variables.
	viper.SetDefault("capture.output_dir", "screenshots")
	viper.SetDefault("capture.settle", "3s")
	viper.SetDefault("capture.resize_settle", "1s")
	viper.SetDefault("capture.scroll_settle", "1s")
	viper.SetDefault("capture.nav_timeout", "20s")
	viper.SetDefault("capture.window_width", 1920)
	viper.SetDefault("capture.window_height", 1080)
	viper.SetDefault("capture.max_scroll_captures", 10)
	viper.SetDefault("capture.user_agent", "snapreport/1.0 (+https://github.com/halvorsen/snapreport)")

	viper.SetDefault("pipeline.max_retries", 3)
	viper.SetDefault("pipeline.retry_delay", "2s")
	viper.SetDefault("pipeline.mode", "desktop")

	viper.SetDefault("report.title", "URL Screenshots Report")
	viper.SetDefault("report.max_image_width_inches", 6.0)
	viper.SetDefault("report.max_image_height_inches", 8.0)
	viper.SetDefault("report.layout", "single")

	viper.SetDefault("logging.development", true)

	// --- Environment Variables ---
	viper.SetEnvPrefix("SNAPREPORT") // e.g., SNAPREPORT_CAPTURE_NAV_TIMEOUT=30s
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; not fatal since defaults and environment
			// variables are enough to run.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
