package capture

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestArtifactFilenames(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	require.Equal(t, "Example_20260314_150926.png", desktopFilename("Example", ts))
	require.Equal(t, "Example_20260314_150926_webpage.png", fullPageFilename("Example", ts))
	require.Equal(t, "Example_20260314_150926_scroll_0.png", scrollFilename("Example", ts, 0))
	require.Equal(t, "Example_20260314_150926_scroll_3.png", scrollFilename("Example", ts, 3))
}

func TestPlanScrollOffsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pageHeight int64
		viewport   int64
		max        int
		want       []int64
	}{
		{
			name:       "two viewports",
			pageHeight: 2000,
			viewport:   1000,
			max:        10,
			want:       []int64{1000, 2000},
		},
		{
			name:       "page fits one viewport still scrolls once",
			pageHeight: 500,
			viewport:   1000,
			max:        10,
			want:       []int64{1000},
		},
		{
			name:       "hard cap against mis-measured pages",
			pageHeight: 100_000,
			viewport:   1000,
			max:        10,
			want:       []int64{1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000},
		},
		{
			name:       "zero page height",
			pageHeight: 0,
			viewport:   1000,
			max:        10,
			want:       nil,
		},
		{
			name:       "zero viewport",
			pageHeight: 1000,
			viewport:   0,
			max:        10,
			want:       nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := planScrollOffsets(tc.pageHeight, tc.viewport, tc.max)
			require.Equal(t, tc.want, got)
			require.LessOrEqual(t, 1+len(got), 11, "series must never exceed 1 initial + 10 scrolled captures")
		})
	}
}

func TestLoadConfigDefaultsValidate(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("capture.output_dir", t.TempDir())
	v.Set("capture.settle", "3s")
	v.Set("capture.resize_settle", "1s")
	v.Set("capture.scroll_settle", "1s")
	v.Set("capture.nav_timeout", "20s")
	v.Set("capture.window_width", 1920)
	v.Set("capture.window_height", 1080)
	v.Set("capture.max_scroll_captures", 10)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, int64(1920), cfg.WindowWidth)
	require.Equal(t, 3*time.Second, cfg.Settle)
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	base := Config{
		OutputDir:         "screenshots",
		Settle:            time.Second,
		NavTimeout:        time.Second,
		WindowWidth:       10,
		WindowHeight:      10,
		MaxScrollCaptures: 1,
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.OutputDir = ""
	require.Error(t, bad.Validate())

	bad = base
	bad.NavTimeout = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.WindowHeight = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.MaxScrollCaptures = 0
	require.Error(t, bad.Validate())
}

func TestCaptureErrorWrapping(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("navigation timeout")
	err := &CaptureError{URL: "https://example.com", Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "https://example.com")
}
