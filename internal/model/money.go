package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (paise for INR).
// Integer arithmetic keeps cart totals exact.
type Money int64

// DefaultCurrency is used when a source does not report a currency.
const DefaultCurrency = "INR"

// ParseAmount converts a decimal string in major units to Money.
// Shopify reports amounts this way ("85.0" → 8500).
// Empty or malformed input yields 0.
func ParseAmount(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return FromMajor(f)
}

// FromMajor converts a major-unit amount (rupees) to Money.
func FromMajor(f float64) Money {
	return Money(math.Round(f * 100))
}

// Major renders the amount in major units with two decimals ("85.00").
func (m Money) Major() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Rupees renders the amount for display ("₹85.00").
func (m Money) Rupees() string {
	return "₹" + m.Major()
}

// MulRate multiplies by a rate expressed in basis points, rounding half away
// from zero. 1800 bps is 18%.
func (m Money) MulRate(bps int64) Money {
	v := int64(m) * bps
	if v >= 0 {
		return Money((v + 5000) / 10000)
	}
	return Money((v - 5000) / 10000)
}
