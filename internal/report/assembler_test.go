package report

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/pipeline"
	"github.com/halvorsen/snapreport/internal/urls"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func testConfig(layout Layout) Config {
	return Config{
		Title:          "URL Screenshots Report",
		MaxImageWidth:  6,
		MaxImageHeight: 8,
		Layout:         layout,
	}
}

func requirePDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 500)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestAssembleSingleLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := writeTestPNG(t, dir, "a.png", 640, 480)

	results := []pipeline.Result{
		{Entry: urls.Entry{Name: "Alpha", URL: "https://alpha.example.com"}, Artifacts: []string{img}},
		{Entry: urls.Entry{Name: "Beta", URL: "https://beta.example.com"}, Artifacts: []string{img}},
	}

	out := filepath.Join(dir, "report.pdf")
	a := NewAssembler(testConfig(LayoutSingle), zap.NewNop())
	require.NoError(t, a.Assemble(results, out))
	requirePDF(t, out)
}

func TestAssembleTolerantOfMissingAndFailedArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := writeTestPNG(t, dir, "a.png", 320, 240)
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o600))

	results := []pipeline.Result{
		{Entry: urls.Entry{Name: "Good", URL: "https://good.example.com"}, Artifacts: []string{img}},
		{Entry: urls.Entry{Name: "Gone", URL: "https://gone.example.com"}, Artifacts: []string{filepath.Join(dir, "missing.png")}},
		{Entry: urls.Entry{Name: "Corrupt", URL: "https://corrupt.example.com"}, Artifacts: []string{corrupt}},
		{Entry: urls.Entry{Name: "Failed", URL: "https://failed.example.com"}, Err: os.ErrDeadlineExceeded},
	}

	out := filepath.Join(dir, "report.pdf")
	a := NewAssembler(testConfig(LayoutStacked), zap.NewNop())
	require.NoError(t, a.Assemble(results, out), "per-section problems must not abort assembly")
	requirePDF(t, out)
}

func TestAssembleStackedAndComparisonLayouts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	one := writeTestPNG(t, dir, "one.png", 640, 480)
	two := writeTestPNG(t, dir, "two.png", 480, 640)

	results := []pipeline.Result{
		{Entry: urls.Entry{Name: "Series", URL: "https://series.example.com"}, Artifacts: []string{one, two}},
	}

	for _, layout := range []Layout{LayoutStacked, LayoutComparison} {
		out := filepath.Join(dir, "report_"+string(layout)+".pdf")
		a := NewAssembler(testConfig(layout), zap.NewNop())
		require.NoError(t, a.Assemble(results, out))
		requirePDF(t, out)
	}
}

func TestAssembleBadOutputPath(t *testing.T) {
	t.Parallel()

	a := NewAssembler(testConfig(LayoutSingle), zap.NewNop())
	err := a.Assemble(nil, filepath.Join(t.TempDir(), "no", "such", "dir", "report.pdf"))
	var writeErr *ReportWriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"single", "stacked", "comparison"} {
		layout, err := ParseLayout(raw)
		require.NoError(t, err)
		require.Equal(t, Layout(raw), layout)
	}
	_, err := ParseLayout("diagonal")
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testConfig(LayoutSingle).Validate())

	bad := testConfig(LayoutSingle)
	bad.Title = ""
	require.Error(t, bad.Validate())

	bad = testConfig(LayoutSingle)
	bad.MaxImageHeight = 0
	require.Error(t, bad.Validate())
}
