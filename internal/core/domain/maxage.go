// Package domain defines the core record models for the token store.
package domain

import (
	"strconv"
	"time"
)

// ParseMaxAge parses a TTL given either as an integer count of
// milliseconds ("1200000") or as a duration literal ("20m").
func ParseMaxAge(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidArgument.WithDetails("max age is empty")
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms <= 0 {
			return 0, ErrInvalidArgument.WithDetails("max age must be positive")
		}
		return ms, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, ErrInvalidArgument.WithDetails("max age is not a duration: " + s)
	}
	if d <= 0 {
		return 0, ErrInvalidArgument.WithDetails("max age must be positive")
	}
	return d.Milliseconds(), nil
}
