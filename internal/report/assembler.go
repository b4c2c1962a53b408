// Package report assembles capture results into a single paginated PDF
// document: title page, summary with contents, then one section per entry.
package report

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/pipeline"
)

// Layout selects how multiple images per entry are arranged.
type Layout string

// Supported layouts.
const (
	// LayoutSingle places only the first artifact of each entry.
	LayoutSingle Layout = "single"
	// LayoutStacked places all artifacts vertically with sub-headings.
	LayoutStacked Layout = "stacked"
	// LayoutComparison places artifacts side by side in a single-row table.
	LayoutComparison Layout = "comparison"
)

// ParseLayout validates a layout string from config or flags.
func ParseLayout(raw string) (Layout, error) {
	switch Layout(raw) {
	case LayoutSingle, LayoutStacked, LayoutComparison:
		return Layout(raw), nil
	default:
		return "", fmt.Errorf("unknown report layout %q", raw)
	}
}

// Config holds the document settings.
type Config struct {
	Title          string
	MaxImageWidth  float64 // inches
	MaxImageHeight float64 // inches
	Layout         Layout
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	layout, err := ParseLayout(v.GetString("report.layout"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Title:          v.GetString("report.title"),
		MaxImageWidth:  v.GetFloat64("report.max_image_width_inches"),
		MaxImageHeight: v.GetFloat64("report.max_image_height_inches"),
		Layout:         layout,
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad document settings.
func (c Config) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("report.title must be set")
	}
	if c.MaxImageWidth <= 0 || c.MaxImageHeight <= 0 {
		return fmt.Errorf("report image bounds must be > 0")
	}
	return nil
}

// ReportWriteError reports that the final document could not be saved. Any
// captured images remain on disk regardless.
type ReportWriteError struct {
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error {
	return e.Err
}

// comparisonImageWidth is the fixed column image width used by the
// side-by-side layout, in inches.
const comparisonImageWidth = 2.5

// Assembler turns an ordered sequence of capture results into one PDF.
type Assembler struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewAssembler returns an Assembler with the given document settings.
func NewAssembler(cfg Config, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{cfg: cfg, logger: logger, now: time.Now}
}

// Assemble writes the report for results to outputPath. Per-section problems
// (missing or unreadable images) become inline notices; only a failure to
// save the document itself is fatal.
func (a *Assembler) Assemble(results []pipeline.Result, outputPath string) error {
	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.SetAutoPageBreak(true, 0.6)
	pdf.AddPage()

	a.addTitle(pdf)
	a.addSummary(pdf, results)
	pdf.AddPage()

	for i, result := range results {
		a.addSection(pdf, result, i+1)
		if i < len(results)-1 {
			pdf.AddPage()
		}
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return &ReportWriteError{Path: outputPath, Err: err}
	}
	a.logger.Info("Report written",
		zap.String("path", outputPath),
		zap.Int("sections", len(results)),
	)
	return nil
}

func (a *Assembler) addTitle(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 0.5, a.cfg.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	generated := a.now().Format("2006-01-02 15:04:05")
	pdf.CellFormat(0, 0.3, "Generated on: "+generated, "", 1, "C", false, 0, "")
	pdf.Ln(0.3)
}

func (a *Assembler) addSummary(pdf *gofpdf.Fpdf, results []pipeline.Result) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 0.35, "Summary", "", 1, "L", false, 0, "")

	totalImages := 0
	for _, r := range results {
		totalImages += len(r.Artifacts)
	}
	pdf.SetFont("Helvetica", "", 11)
	summary := fmt.Sprintf("This report contains screenshots of %d websites.", len(results))
	if a.cfg.Layout != LayoutSingle {
		summary = fmt.Sprintf("This report contains %d screenshots from %d websites.", totalImages, len(results))
	}
	pdf.MultiCell(0, 0.22, summary, "", "L", false)
	pdf.Ln(0.15)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 0.3, "Websites Included:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, r := range results {
		line := fmt.Sprintf("%d. %s - %s", i+1, r.Entry.Name, r.Entry.URL)
		pdf.MultiCell(0, 0.22, line, "", "L", false)
	}
}

func (a *Assembler) addSection(pdf *gofpdf.Fpdf, result pipeline.Result, index int) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 0.35, fmt.Sprintf("%d. %s", index, result.Entry.Name), "", 1, "L", false, 0, "")

	labeledLine(pdf, "URL: ", result.Entry.URL)
	if taken, ok := artifactTimestamp(result.Artifacts); ok {
		labeledLine(pdf, "Screenshot taken: ", taken)
	}
	if result.Err != nil {
		labeledLine(pdf, "Error: ", result.Err.Error())
	}
	pdf.Ln(0.15)

	if len(result.Artifacts) == 0 {
		return
	}

	switch {
	case a.cfg.Layout == LayoutComparison && len(result.Artifacts) > 1:
		a.addComparisonRow(pdf, result.Artifacts)
	case a.cfg.Layout == LayoutStacked:
		for j, path := range result.Artifacts {
			if len(result.Artifacts) > 1 {
				pdf.SetFont("Helvetica", "B", 13)
				pdf.CellFormat(0, 0.3, fmt.Sprintf("Screenshot %d", j+1), "", 1, "L", false, 0, "")
			}
			a.addImage(pdf, path, fmt.Sprintf("%s - %d", result.Entry.Name, j+1))
			if j < len(result.Artifacts)-1 {
				pdf.Ln(0.15)
			}
		}
	default:
		a.addImage(pdf, result.Artifacts[0], result.Entry.Name)
	}
}

// addImage embeds one image scaled to the configured bounds, centered, with
// an italic caption. Problems become inline notices rather than aborting the
// document.
func (a *Assembler) addImage(pdf *gofpdf.Fpdf, path, caption string) {
	widthPx, heightPx, err := pngDimensions(path)
	if err != nil {
		notice(pdf, fmt.Sprintf("Error loading image %s: %v", path, err))
		return
	}

	w, h := fitWithin(widthPx, heightPx, a.cfg.MaxImageWidth, a.cfg.MaxImageHeight)
	pageW, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}

	x := (pageW - w) / 2
	y := pdf.GetY()
	pdf.ImageOptions(path, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetY(y + h + 0.1)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 0.2, "Screenshot of "+caption, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

// addComparisonRow lays artifacts side by side: a header row of labels and a
// single row with one column per image at a fixed width.
func (a *Assembler) addComparisonRow(pdf *gofpdf.Fpdf, paths []string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(paths))

	pdf.SetFont("Helvetica", "B", 11)
	for j := range paths {
		pdf.CellFormat(colW, 0.3, fmt.Sprintf("Screenshot %d", j+1), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	y := pdf.GetY()
	rowH := 0.0
	for j, path := range paths {
		x := left + float64(j)*colW
		widthPx, heightPx, err := pngDimensions(path)
		if err != nil {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetXY(x, y)
			pdf.CellFormat(colW, 0.3, "Image not found", "1", 0, "C", false, 0, "")
			if rowH < 0.3 {
				rowH = 0.3
			}
			continue
		}
		imgW := comparisonImageWidth
		if imgW > colW {
			imgW = colW
		}
		imgH := imgW * float64(heightPx) / float64(widthPx)
		pdf.ImageOptions(path, x, y, imgW, imgH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		if imgH > rowH {
			rowH = imgH
		}
	}
	pdf.SetY(y + rowH + 0.1)
	pdf.SetFont("Helvetica", "", 11)
}

// labeledLine writes a bold label followed by regular text.
func labeledLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(0.22, label)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(0.22, value)
	pdf.Ln(0.25)
}

func notice(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 0.22, text, "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
}

// artifactTimestamp derives the "captured at" line from the first artifact's
// file-modification time. Absence is not an error.
func artifactTimestamp(paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	info, err := os.Stat(paths[0])
	if err != nil {
		return "", false
	}
	return info.ModTime().Format("2006-01-02 15:04:05"), true
}

// pngDimensions returns the native pixel size of the image, validating the
// file before it is handed to the PDF writer (a bad image would otherwise
// poison the whole document).
func pngDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("screenshot file not found: %s", path)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
