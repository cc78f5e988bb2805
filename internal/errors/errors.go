// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Standard sentinel errors
var (
	ErrEmptyChain    = errors.New("option chain has no rows for one or both sides")
	ErrNoCallVolume  = errors.New("put/call ratio undefined: call volume sum is zero")
	ErrNoExpiries    = errors.New("no expiry dates available")
	ErrDataNotFound  = errors.New("data not found")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// InvalidRowError reports an option row rejected during chain normalization.
type InvalidRowError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("invalid option row: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewInvalidRowError creates a new InvalidRowError.
func NewInvalidRowError(field string, value interface{}, message string) *InvalidRowError {
	return &InvalidRowError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FetchError represents a failure to fetch option data from a provider.
type FetchError struct {
	Provider string
	Symbol   string
	Expiry   time.Time
	Err      error
}

func (e *FetchError) Error() string {
	if e.Expiry.IsZero() {
		return fmt.Sprintf("fetch error [%s] %s: %v", e.Provider, e.Symbol, e.Err)
	}
	return fmt.Sprintf("fetch error [%s] %s %s: %v", e.Provider, e.Symbol, e.Expiry.Format("2006-01-02"), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(provider, symbol string, expiry time.Time, err error) *FetchError {
	return &FetchError{
		Provider: provider,
		Symbol:   symbol,
		Expiry:   expiry,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
