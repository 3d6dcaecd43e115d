/**
 * @description
 * Error types shared across the service. Three kinds matter to callers:
 * validation failures (bad admin or API input, 4xx), upstream outages (a
 * sibling service or broker is unreachable; batch jobs log these and keep
 * going), and configuration problems on individual accounts (skip the
 * account, never fail the whole batch).
 */

package domain

import "fmt"

// ValidationError indicates malformed caller input. Handlers translate it to
// a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError indicates a sibling service or broker could not be reached.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConfigurationError indicates an account carries settings the engine cannot
// process, e.g. an unrecognized compounding frequency.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// NewConfigurationError builds a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}
