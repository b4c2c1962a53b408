package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitWithinScalesDownOnly(t *testing.T) {
	t.Parallel()

	// 1920x1080 at 96 DPI is 20x11.25in; width binds against 6x8in.
	w, h := fitWithin(1920, 1080, 6, 8)
	require.InDelta(t, 6.0, w, 1e-9)
	require.InDelta(t, 6.0*1080/1920, h, 1e-9)

	// A tall page: height binds.
	w, h = fitWithin(800, 8000, 6, 8)
	require.InDelta(t, 8.0, h, 1e-9)
	require.InDelta(t, 8.0*800/8000, w, 1e-9)
}

func TestFitWithinNeverUpscales(t *testing.T) {
	t.Parallel()

	// 96x96 px is exactly 1x1in; well inside 6x8in bounds.
	w, h := fitWithin(96, 96, 6, 8)
	require.InDelta(t, 1.0, w, 1e-9)
	require.InDelta(t, 1.0, h, 1e-9)
}

func TestFitWithinPreservesAspectRatio(t *testing.T) {
	t.Parallel()

	w, h := fitWithin(4000, 2000, 6, 8)
	require.InDelta(t, 2.0, w/h, 1e-9)
}

func TestFitWithinDegenerateInput(t *testing.T) {
	t.Parallel()

	w, h := fitWithin(0, 100, 6, 8)
	require.Zero(t, w)
	require.Zero(t, h)
}
