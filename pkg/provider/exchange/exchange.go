// Package exchange defines the point-in-time rate lookup used by reports.
package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// Rates converts one unit of the native currency into reference currencies.
// A zero value means the rate is unavailable.
type Rates struct {
	DbioToDai decimal.Decimal `json:"dbioToDai"`
	DbioToUsd decimal.Decimal `json:"dbioToUsd"`
}

// RateCache returns the current rates. It returns domain.ErrNotFound when no
// rates have been published yet.
type RateCache interface {
	Get(ctx context.Context) (*Rates, error)
}
