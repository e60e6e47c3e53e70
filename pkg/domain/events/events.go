// Package events defines the typed ledger events produced by the decoder.
// There is one variant per entity kind; handlers switch on the concrete type.
package events

import (
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/shopspring/decimal"
)

// Kind is the ledger entity an event belongs to.
type Kind string

const (
	KindOrder                Kind = "order"
	KindStakingRequest       Kind = "staking_request"
	KindGeneticAnalysis      Kind = "genetic_analysis"
	KindGeneticAnalysisOrder Kind = "genetic_analysis_order"
)

// Meta is the ordering metadata attached to every decoded event.
type Meta struct {
	BlockNumber uint64
	BlockHash   string
	EventIndex  int
}

// Event is implemented by every decoded ledger event.
type Event interface {
	// Type is the routing key used by the event bus.
	Type() EventType
	// Identity is the stable ref number shared by all transitions of one
	// logical transaction.
	Identity() string
	Kind() Kind
	Status() txlog.Status
	Metadata() Meta
}

// Price is one priced component of an order.
type Price struct {
	Component string
	Value     decimal.Decimal
}

// Total sums prices and additional prices.
func Total(prices, additional []Price) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p.Value)
	}
	for _, p := range additional {
		total = total.Add(p.Value)
	}
	return total
}
