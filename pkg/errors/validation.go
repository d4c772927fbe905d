package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateTheta validates a Barnes-Hut approximation threshold.
// Theta of 0 disables approximation entirely; values above 2 make the
// opening criterion accept almost everything and are rejected as mistakes.
func ValidateTheta(theta float64) error {
	if math.IsNaN(theta) || theta < 0 || theta > 2 {
		return New(ErrCodeInvalidTuning, "theta must be in [0, 2], got %v", theta)
	}
	return nil
}

// ValidateResolution validates a Louvain resolution parameter.
func ValidateResolution(resolution float64) error {
	if math.IsNaN(resolution) || resolution <= 0 {
		return New(ErrCodeInvalidTuning, "resolution must be positive, got %v", resolution)
	}
	return nil
}

// ValidatePositiveFactor validates a force-tuning multiplier such as the
// repulsion constant or attraction factor.
func ValidatePositiveFactor(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidTuning, "%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

// ValidateIterations validates an iteration budget.
func ValidateIterations(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidTuning, "iterations must be positive, got %d", n)
	}
	return nil
}

// ValidatePath validates a file path supplied to the CLI or API for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
