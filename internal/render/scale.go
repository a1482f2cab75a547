package render

import "math"

const (
	// DefaultContainerWidth is assumed when the viewer does not report its width.
	DefaultContainerWidth = 800
	// DefaultMaxWidth caps the rendered page width in CSS pixels.
	DefaultMaxWidth = 900

	containerFill = 0.8
	pageFill      = 0.85
)

// TargetWidth is the on-screen width a page is fitted to:
// min(container*0.8, maxWidth) * 0.85.
func TargetWidth(containerWidth, maxWidth int) float64 {
	if containerWidth <= 0 {
		containerWidth = DefaultContainerWidth
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return math.Min(float64(containerWidth)*containerFill, float64(maxWidth)) * pageFill
}

// ComputeScale returns the factor that fits a page of intrinsicWidth points
// into the target width.
func ComputeScale(containerWidth, maxWidth int, intrinsicWidth float64) float64 {
	if intrinsicWidth <= 0 {
		return 1
	}
	return TargetWidth(containerWidth, maxWidth) / intrinsicWidth
}
