package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// GrabFunc produces an image of the entire display surface. It is injected so
// tests can run without a physical display.
type GrabFunc func() (image.Image, error)

// GrabPrimaryDisplay captures the primary display. Whole-display capture is
// used instead of the browser's own screenshot because some rendered content
// (native dialogs, video overlays) is not retrievable through the in-browser
// capture primitive.
func GrabPrimaryDisplay() (image.Image, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active display")
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return nil, fmt.Errorf("capture display: %w", err)
	}
	return img, nil
}
