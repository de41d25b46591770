package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Interface == "" {
		errs = append(errs, ValidationError{Field: "interface", Message: "must not be empty"})
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "port",
			Message: fmt.Sprintf("must be in range 1-65535 (got %d)", cfg.Port),
		})
	}

	if cfg.Timeout < 1 {
		errs = append(errs, ValidationError{Field: "timeout", Message: "must be at least 1 second"})
	}

	if cfg.DashboardBucketSize < 1 {
		errs = append(errs, ValidationError{Field: "dashboard_bucket_size", Message: "must be at least 1 second"})
	}

	if cfg.AverageBucketSize < 1 {
		errs = append(errs, ValidationError{Field: "average_bucket_size", Message: "must be at least 1 second"})
	}

	if cfg.AverageThreshold <= 0 {
		errs = append(errs, ValidationError{Field: "average_threshold", Message: "must be positive"})
	}

	if cfg.AverageLearningDuration < 1 {
		errs = append(errs, ValidationError{Field: "average_learning_duration", Message: "must be at least 1 second"})
	}

	if cfg.MaxStrLength < 1 {
		errs = append(errs, ValidationError{Field: "max_str_length", Message: "must be at least 1"})
	}

	if cfg.MaxTopHits < 1 {
		errs = append(errs, ValidationError{Field: "max_top_hits", Message: "must be at least 1"})
	}

	if cfg.MaxRetentionLength < 1 {
		errs = append(errs, ValidationError{Field: "max_retention_length", Message: "must be at least 1 second"})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
