// Package money parses on-chain integer amounts into decimal values.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeCurrency is the ledger's own unit. Records default to it.
const NativeCurrency = "DBIO"

// ErrParse is returned for amounts that are not a non-negative number.
var ErrParse = errors.New("malformed amount")

var decimalsByCurrency = map[string]int32{
	"DBIO":  18,
	"USDT":  6,
	"USDC":  6,
	"USDTE": 18,
}

// Decimals returns the number of fractional digits the ledger uses for a
// currency. Unknown currencies use the native precision.
func Decimals(currency string) int32 {
	if d, ok := decimalsByCurrency[strings.ToUpper(currency)]; ok {
		return d
	}
	return decimalsByCurrency[NativeCurrency]
}

// ParseUnits converts a base-unit amount such as "1,500,000,000,000,000,000"
// into a decimal scaled down by the given number of digits.
func ParseUnits(raw string, decimals int32) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrParse)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrParse, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrParse, raw)
	}
	return d.Shift(-decimals), nil
}

// ParseCurrencyUnits is ParseUnits using the precision of currency.
func ParseCurrencyUnits(raw, currency string) (decimal.Decimal, error) {
	return ParseUnits(raw, Decimals(currency))
}
