package retention

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds the retention policy described by kind and limit. When both
// are unset retention is disabled and New returns a nil policy with no
// error. A kind without a positive limit, a limit without a kind, and an
// unrecognized kind all yield a ConfigurationError.
//
// The limit is interpreted per kind: a number of artifacts for count, a
// number of days for age, a number of megabytes for size.
func New(kind string, limit int, logger *zap.Logger) (Policy, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	if kind == "" {
		if limit != 0 {
			return nil, NewConfigurationError(fmt.Sprintf("limit %d given without a valid policy type", limit))
		}
		return nil, nil
	}

	if limit == 0 {
		return nil, NewConfigurationError(fmt.Sprintf("a limit is required for policy %q", kind))
	}
	if limit < 0 {
		return nil, NewConfigurationError(fmt.Sprintf("limit must be positive, got %d", limit))
	}

	switch Kind(kind) {
	case KindCount:
		return NewCountPolicy(limit, logger), nil
	case KindAge:
		return NewAgePolicy(limit, logger), nil
	case KindSize:
		return NewSizePolicy(limit, logger), nil
	default:
		return nil, NewConfigurationError(fmt.Sprintf("unknown policy %q, valid types are count, age and size", kind))
	}
}
