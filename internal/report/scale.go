package report

import "math"

// referenceDPI converts native pixel dimensions to physical inches when
// sizing images on the page.
const referenceDPI = 96.0

// fitWithin scales native pixel dimensions down (never up) to fit inside the
// given bounds in inches, preserving aspect ratio. The scale factor is
// min(maxW/nativeW, maxH/nativeH, 1.0).
func fitWithin(pxWidth, pxHeight int, maxWidthIn, maxHeightIn float64) (float64, float64) {
	if pxWidth <= 0 || pxHeight <= 0 {
		return 0, 0
	}
	widthIn := float64(pxWidth) / referenceDPI
	heightIn := float64(pxHeight) / referenceDPI

	scale := math.Min(maxWidthIn/widthIn, maxHeightIn/heightIn)
	if scale > 1.0 {
		scale = 1.0
	}
	return widthIn * scale, heightIn * scale
}
