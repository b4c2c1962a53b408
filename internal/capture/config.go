// Package capture drives one live browser session and produces the image
// artifacts a report is assembled from.
package capture

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences how a page is captured. All
// values originate from Viper so capture behavior can be tuned via files,
// env vars, or CLI flags.
type Config struct {
	OutputDir         string
	Settle            time.Duration
	ResizeSettle      time.Duration
	ScrollSettle      time.Duration
	NavTimeout        time.Duration
	WindowWidth       int64
	WindowHeight      int64
	MaxScrollCaptures int
	UserAgent         string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		OutputDir:         v.GetString("capture.output_dir"),
		Settle:            v.GetDuration("capture.settle"),
		ResizeSettle:      v.GetDuration("capture.resize_settle"),
		ScrollSettle:      v.GetDuration("capture.scroll_settle"),
		NavTimeout:        v.GetDuration("capture.nav_timeout"),
		WindowWidth:       v.GetInt64("capture.window_width"),
		WindowHeight:      v.GetInt64("capture.window_height"),
		MaxScrollCaptures: v.GetInt("capture.max_scroll_captures"),
		UserAgent:         v.GetString("capture.user_agent"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("capture.output_dir must be set")
	}
	if c.Settle < 0 || c.ResizeSettle < 0 || c.ScrollSettle < 0 {
		return fmt.Errorf("capture settle durations must be >= 0")
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("capture.nav_timeout must be > 0")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("capture window dimensions must be > 0")
	}
	if c.MaxScrollCaptures <= 0 {
		return fmt.Errorf("capture.max_scroll_captures must be > 0")
	}
	return nil
}
