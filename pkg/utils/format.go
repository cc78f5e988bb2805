// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"time"
)

// FormatPrice formats a price in dollars with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// FormatStrike formats a strike, dropping trailing zero cents.
func FormatStrike(strike float64) string {
	if strike == float64(int64(strike)) {
		return fmt.Sprintf("$%.0f", strike)
	}
	return fmt.Sprintf("$%.2f", strike)
}

// FormatVolume formats a contract count with thousands separators.
func FormatVolume(v int64) string {
	s := fmt.Sprintf("%d", v)
	if v < 0 {
		return s
	}
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "," + result
		s = s[:len(s)-3]
	}
	return s + "," + result
}

// FormatRatio formats a bare ratio or index with two decimals.
func FormatRatio(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
