/*
errors.go - Error taxonomy for the projection engine

ERROR CATEGORIES:
  1. Input errors    - rejected before any provider call
  2. Provider errors - holiday/rate fetch failed or returned nothing
  3. Engine errors   - the business-day loop could not reach its target

USAGE:
  Callers classify with errors.Is against the sentinels and pull details
  with errors.As on the structured types:

    var perr *generic.ProviderError
    if errors.As(err, &perr) {
        log.Printf("provider %s failed for %d", perr.Provider, perr.Year)
    }

  The engine never retries. Retry/backoff belongs to provider adapters.
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for a non-positive principal or target,
	// a negative rate or a malformed start date.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable is returned when a holiday or rate fetch fails
	// at the network or status level.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrNoRateData is returned when the rate provider has no records for
	// the requested year.
	ErrNoRateData = errors.New("no rate data")

	// ErrProjectionStalled is returned when the loop exceeds its calendar-day
	// ceiling before counting the target business days.
	ErrProjectionStalled = errors.New("projection stalled")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError describes which input field was rejected.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ProviderError wraps a failed fetch. It matches ErrProviderUnavailable (or
// ErrNoRateData when Kind says so) and the underlying cause.
type ProviderError struct {
	Provider string // e.g. "brasilapi", "bcb"
	Year     int
	Status   int // HTTP status, 0 when the request never completed
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v for %d", e.Provider, e.kind(), e.Year)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind()}
	}
	return []error{e.kind(), e.Err}
}

func (e *ProviderError) kind() error {
	if e.Kind == nil {
		return ErrProviderUnavailable
	}
	return e.Kind
}

// Unavailable builds a ProviderError of kind ErrProviderUnavailable.
func Unavailable(provider string, year, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Year: year, Status: status, Kind: ErrProviderUnavailable, Err: err}
}

// NoRateData builds a ProviderError of kind ErrNoRateData.
func NoRateData(provider string, year int) *ProviderError {
	return &ProviderError{Provider: provider, Year: year, Kind: ErrNoRateData}
}

// StalledError reports how far the loop got before hitting the ceiling.
type StalledError struct {
	Target       int
	Counted      int
	CalendarDays int
	Last         Date
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("projection stalled: %d of %d business days after %d calendar days (last %s)",
		e.Counted, e.Target, e.CalendarDays, e.Last)
}

func (e *StalledError) Unwrap() error { return ErrProjectionStalled }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRetryable returns true if the same call might succeed later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}
