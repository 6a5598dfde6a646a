package retention

import "fmt"

// ConfigurationError occurs when the retention settings cannot be turned
// into a working policy.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid retention configuration: %s", e.Reason)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

// CleanupError occurs when a retention pass cannot inspect the storage
// directory it is supposed to bound.
type CleanupError struct {
	Policy Kind
	Dir    string
	Cause  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup failed [policy=%s, dir=%s]: %v", e.Policy, e.Dir, e.Cause)
}

func (e *CleanupError) Unwrap() error {
	return e.Cause
}

// NewCleanupError creates a new CleanupError.
func NewCleanupError(policy Kind, dir string, cause error) *CleanupError {
	return &CleanupError{
		Policy: policy,
		Dir:    dir,
		Cause:  cause,
	}
}
