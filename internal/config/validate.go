package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateDsoConfig(&config.Dso)...)
	errs = append(errs, validateWriterConfig(&config.Writer)...)
	errs = append(errs, validateLogConfig(&config.Logging)...)

	return errs
}

// validateDsoConfig checks that every directory on the search path exists.
func validateDsoConfig(config *DsoConfig) []error {
	var errs []error

	for _, dir := range strings.Split(config.Path, ":") {
		if dir == "" {
			continue
		}
		expanded, err := homedir.Expand(dir)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "dso.path",
				Message: fmt.Sprintf("cannot expand %s: %v", dir, err),
			})
			continue
		}
		info, err := os.Stat(expanded)
		if err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "dso.path",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}

// validateWriterConfig validates writer policies.
func validateWriterConfig(config *WriterConfig) []error {
	var errs []error

	if config.SplitVectorSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "writer.splitVectorSize",
			Message: "must be positive",
		})
	}

	if config.ElemsPerLine < 0 {
		errs = append(errs, ValidationError{
			Field:   "writer.elemsPerLine",
			Message: "must be non-negative",
		})
	}

	return errs
}

// validateLogConfig validates logging configuration.
func validateLogConfig(config *LogConfig) []error {
	var errs []error

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, or error",
		})
	}

	// Validate log format
	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	// Validate output
	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		// Check if it's a valid file path
		dir := filepath.Dir(config.Output)
		if !filepath.IsAbs(config.Output) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or an absolute file path",
			})
		} else if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}
