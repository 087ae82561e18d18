package types

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound       = errors.New("config not found")
	ErrConfigInvalidPath    = errors.New("config invalid path")
	ErrConfigParseFailed    = errors.New("config parse failed")
	ErrConfigValidateFailed = errors.New("config validate failed")
)

var (
	ErrCacheKeyEmpty        = errors.New("cache key empty")
	ErrCacheEntryNotFound   = errors.New("cache entry not found")
	ErrCacheOperationFailed = errors.New("cache operation failed")
)

var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrRetrieverUnknown   = errors.New("retriever type unknown")
	ErrRateLimiterStopped = errors.New("rate limiter stopped")
	ErrBreakerOpen        = errors.New("circuit breaker open")
)

var (
	ErrNoListingsFound    = errors.New("no listings found")
	ErrListingIDMissing   = errors.New("listing id missing")
	ErrDocumentEmpty      = errors.New("document empty")
	ErrLocatorUnsupported = errors.New("locator kind unsupported")
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrSchedulerRunning = errors.New("scheduler already running")
	ErrSchedulerStopped = errors.New("scheduler not running")
)

// FetchError reports a transport failure or non-2xx status for a URL.
// StatusCode is zero when the failure happened below HTTP.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrFetchFailed
}

// NotFoundError reports that no record could be assembled for an identifier.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError carries structured input-validation failures back to the
// caller; it is never fatal.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Fields))
}

func Errorf(baseErr error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", baseErr, fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func IsError(err, target error) bool {
	return errors.Is(err, target)
}
