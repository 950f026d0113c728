package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Page size bounds observed across catalog layouts.
const (
	MinPageSize = 6
	MaxPageSize = 48
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{Field: KeyServerPort, Message: "must be a number"})
	}

	if u, err := url.Parse(cfg.UpstreamURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: KeyUpstreamURL, Message: "must be an absolute URL"})
	}
	if cfg.UpstreamTimeout <= 0 {
		errs = append(errs, ValidationError{Field: KeyUpstreamTimeout, Message: "must be positive"})
	}

	if cfg.PageSize < MinPageSize || cfg.PageSize > MaxPageSize {
		errs = append(errs, ValidationError{
			Field:   KeyPageSize,
			Message: fmt.Sprintf("must be between %d and %d", MinPageSize, MaxPageSize),
		})
	}
	if cfg.LargeThreshold < 1 {
		errs = append(errs, ValidationError{Field: KeyLargeThreshold, Message: "must be at least 1"})
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, ValidationError{Field: KeyDBDriver, Message: "must be sqlite or postgres"})
	}
	if cfg.DBDSN == "" {
		errs = append(errs, ValidationError{Field: KeyDBDSN, Message: "is required"})
	}

	if cfg.RedisURL != "" {
		if cfg.SessionTTL <= 0 {
			errs = append(errs, ValidationError{Field: KeySessionTTL, Message: "must be positive"})
		}
		if cfg.RateLimit < 1 || cfg.RateWindow <= 0 {
			errs = append(errs, ValidationError{Field: KeyRateLimit, Message: "limit and window must be positive"})
		}
	}

	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			errs = append(errs, ValidationError{Field: KeyLogLevel, Message: err.Error()})
		}
	}

	// In production the snapshot must survive container restarts
	if GetEnvironment() == Production && cfg.DBDriver != "postgres" {
		errs = append(errs, ValidationError{Field: KeyDBDriver, Message: "production requires postgres"})
	}

	return errors.Join(errs...)
}
