package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/opd-ai/go-activity/pkg/indicator"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks every section of cfg.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	validateIndicator(cfg, result)
	validateWindow(&cfg.Window, result)
	validateMessage(&cfg.Message, result)
	return result
}

func validateIndicator(cfg *Config, result *ValidationResult) {
	ic := &cfg.Indicator
	if !slices.Contains(indicator.Types(), ic.Type) {
		result.AddError("indicator.type", fmt.Sprintf("unknown type %s", ic.Type))
	}
	if !finite(ic.Padding) || ic.Padding < 0 {
		result.AddError("indicator.padding", fmt.Sprintf("must be a non-negative number, got %v", ic.Padding))
	}
	if !finite(ic.Size) || ic.Size < 0 {
		result.AddError("indicator.size", fmt.Sprintf("must be a non-negative number, got %v", ic.Size))
	}

	edge := ic.Size
	if edge == 0 {
		edge = math.Min(float64(cfg.Window.Width), float64(cfg.Window.Height))
	}
	if edge > 0 && 2*ic.Padding >= edge {
		result.AddWarning("indicator.padding", fmt.Sprintf("padding %v leaves no room for the animation", ic.Padding))
	}
	if ic.Color.A == 0 {
		result.AddWarning("indicator.color", "fully transparent color will be invisible")
	}
}

func validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("window.height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}
	const maxDimension = 10000
	if wc.Width > maxDimension {
		result.AddWarning("window.width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("window.height", fmt.Sprintf("unusually large value %d", wc.Height))
	}
	if wc.FPS <= 0 || wc.FPS > MaxFPS {
		result.AddError("window.fps", fmt.Sprintf("must be in 1..%d, got %d", MaxFPS, wc.FPS))
	}
	if wc.Transparent && wc.Background.A == 255 {
		result.AddWarning("window.background", "opaque background hides window transparency")
	}
}

func validateMessage(mc *MessageConfig, result *ValidationResult) {
	if !finite(mc.Size) || mc.Size < 0 {
		result.AddError("message.size", fmt.Sprintf("must be a non-negative number, got %v", mc.Size))
	}
	if mc.Size > 200 {
		result.AddWarning("message.size", fmt.Sprintf("unusually large font size: %v", mc.Size))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateConfig validates cfg and returns an error describing every
// problem, or nil.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("validation failed: nil config")
	}
	return Validate(cfg).Error()
}
