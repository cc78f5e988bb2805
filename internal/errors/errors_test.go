package errors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchError(t *testing.T) {
	inner := ErrDataNotFound
	err := NewFetchError("yahoo", "AAPL", time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC), inner)

	assert.Contains(t, err.Error(), "yahoo")
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "2026-09-18")
	assert.True(t, Is(err, ErrDataNotFound))

	var fetchErr *FetchError
	assert.True(t, As(err, &fetchErr))
	assert.Equal(t, "yahoo", fetchErr.Provider)
}

func TestFetchError_ZeroExpiryOmitted(t *testing.T) {
	err := NewFetchError("csv", "AAPL", time.Time{}, ErrNoExpiries)
	assert.NotContains(t, err.Error(), "0001-01-01")
}

func TestInvalidRowError(t *testing.T) {
	err := NewInvalidRowError("strike", -5.0, "must be positive")
	assert.Contains(t, err.Error(), "strike")
	assert.Contains(t, err.Error(), "must be positive")
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))

	err := Wrap(ErrEmptyChain, "analyzing AAPL")
	assert.True(t, Is(err, ErrEmptyChain))
	assert.Contains(t, err.Error(), "analyzing AAPL")
}
