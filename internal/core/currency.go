package core

import "fmt"

// Rates maps currency codes to their value relative to a single anchor
// currency (the anchor itself carries 1.0). The engine never owns a rate
// table; callers supply one so rates can be refreshed without touching
// computation code.
type Rates map[Currency]float64

// UnknownCurrencyError reports a currency code missing from the rate table.
type UnknownCurrencyError struct {
	Code Currency
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

// Convert converts an amount between two currencies through the anchor:
// amount / rates[from] * rates[to], rounded half-up to cents.
//
// When from == to the input is returned untouched, deliberately skipping the
// rounding step so a no-op conversion never loses precision.
func Convert(amount float64, from, to Currency, rates Rates) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := rates[from]
	if !ok {
		return 0, &UnknownCurrencyError{Code: from}
	}
	toRate, ok := rates[to]
	if !ok {
		return 0, &UnknownCurrencyError{Code: to}
	}
	return Round2(amount / fromRate * toRate), nil
}
