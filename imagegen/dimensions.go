package imagegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultBaseSize is the target edge length the resolved dimensions scale
// around, keeping the pixel area close to baseSize*baseSize for any ratio.
const DefaultBaseSize = 512

// ErrInvalidAspectRatio reports an aspect ratio that does not parse as
// "<positive-int>/<positive-int>".
type ErrInvalidAspectRatio struct {
	AspectRatio string
}

func (e ErrInvalidAspectRatio) Error() string {
	return fmt.Sprintf("invalid aspect ratio %q, want \"W/H\" with positive integers", e.AspectRatio)
}

// ErrDimensionTooSmall reports a baseSize/ratio combination whose resolved
// dimensions collapse below one 16px step.
type ErrDimensionTooSmall struct {
	AspectRatio string
	BaseSize    int
}

func (e ErrDimensionTooSmall) Error() string {
	return fmt.Sprintf("aspect ratio %q with base size %d resolves below 16px", e.AspectRatio, e.BaseSize)
}

// ResolveDimensions maps an aspect ratio like "16/9" to pixel dimensions for
// the generation backend. Both results are positive multiples of 16; flooring
// never rounds up, so backend size limits cannot be exceeded.
func ResolveDimensions(aspectRatio string, baseSize int) (int, int, error) {
	w0, h0, err := ParseAspectRatio(aspectRatio)
	if err != nil {
		return 0, 0, err
	}

	scale := float64(baseSize) / math.Sqrt(float64(w0)*float64(h0))
	width := int(math.Round(float64(w0) * scale))
	height := int(math.Round(float64(h0) * scale))

	// Diffusion backends want dimensions divisible by 16.
	width = width / 16 * 16
	height = height / 16 * 16

	if width <= 0 || height <= 0 {
		return 0, 0, ErrDimensionTooSmall{AspectRatio: aspectRatio, BaseSize: baseSize}
	}

	return width, height, nil
}

// ParseAspectRatio splits "W/H" into its two positive integer terms.
func ParseAspectRatio(aspectRatio string) (int, int, error) {
	parts := strings.Split(aspectRatio, "/")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidAspectRatio{AspectRatio: aspectRatio}
	}

	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, ErrInvalidAspectRatio{AspectRatio: aspectRatio}
	}

	return w, h, nil
}
