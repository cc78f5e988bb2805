// Package models defines the core data types for option chain analysis.
package models

import "time"

// OptionType identifies the side of an option contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// OptionRow is a single normalized option contract in a chain.
type OptionRow struct {
	Strike       float64
	Volume       int64
	OpenInterest int64
	IV           float64 // implied volatility, percent
	Type         OptionType
}

// Chain is the normalized option chain for one ticker and expiry.
// It is treated as an immutable snapshot once constructed.
type Chain struct {
	Symbol    string
	Expiry    time.Time
	SpotPrice float64 // last known underlying price, 0 when unknown
	Rows      []OptionRow
}

// Calls returns the call rows of the chain.
func (c *Chain) Calls() []OptionRow {
	return c.side(Call)
}

// Puts returns the put rows of the chain.
func (c *Chain) Puts() []OptionRow {
	return c.side(Put)
}

func (c *Chain) side(t OptionType) []OptionRow {
	var rows []OptionRow
	for _, r := range c.Rows {
		if r.Type == t {
			rows = append(rows, r)
		}
	}
	return rows
}

// HasBothSides reports whether the chain contains at least one call
// and one put. Skew and ratio metrics require both sides.
func (c *Chain) HasBothSides() bool {
	var hasCall, hasPut bool
	for _, r := range c.Rows {
		switch r.Type {
		case Call:
			hasCall = true
		case Put:
			hasPut = true
		}
		if hasCall && hasPut {
			return true
		}
	}
	return false
}

// RawOption is an unvalidated option record as supplied by a data
// source, before normalization.
type RawOption struct {
	Strike       float64
	Volume       int64
	OpenInterest int64
	IV           float64
}
