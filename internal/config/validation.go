package config

import (
	"fmt"
	"strings"
)

// Validate checks everything the config layer can judge on its own. The
// retention policy/limit pairing is left to the policy factory, which owns
// those rules.
func (c *Config) Validate() error {
	var errs []error

	if c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("storage path is required"))
	}

	if c.MySQL.Host == "" {
		errs = append(errs, fmt.Errorf("MySQL host is required"))
	}
	if c.MySQL.Port <= 0 || c.MySQL.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid MySQL port number: %d", c.MySQL.Port))
	}
	if c.MySQL.User == "" {
		errs = append(errs, fmt.Errorf("MySQL user is required"))
	}

	if c.Dump.Binary == "" {
		errs = append(errs, fmt.Errorf("dump binary is required"))
	}

	if !isValidLogLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	return combineErrors(errs)
}

// Helper function to combine multiple errors
func combineErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	return NewValidationError(errors)
}

// ValidationError represents multiple configuration validation errors
type ValidationError struct {
	Errors []error
}

// NewValidationError creates a new ValidationError
func NewValidationError(errors []error) *ValidationError {
	return &ValidationError{Errors: errors}
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	var errorMsgs []string
	errorMsgs = append(errorMsgs, "configuration validation failed:")
	for _, err := range ve.Errors {
		errorMsgs = append(errorMsgs, "  - "+err.Error())
	}
	return strings.Join(errorMsgs, "\n")
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
