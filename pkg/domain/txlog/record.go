// Package txlog holds the append-only transaction record produced for every
// accepted ledger state transition.
package txlog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type classifies what kind of value movement a record represents.
type Type int

const (
	TypeOrderPayment                Type = 1
	TypeStaking                     Type = 2
	TypeRefund                      Type = 3
	TypeGeneticAnalysisOrderPayment Type = 4
	TypeGeneticAnalysis             Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeOrderPayment:
		return "order_payment"
	case TypeStaking:
		return "staking"
	case TypeRefund:
		return "refund"
	case TypeGeneticAnalysisOrderPayment:
		return "genetic_analysis_order_payment"
	case TypeGeneticAnalysis:
		return "genetic_analysis"
	default:
		return "unknown"
	}
}

// Status codes are shared across entity kinds so joins by status stay
// meaningful. Each entity kind owns a disjoint range.
type Status int

const (
	StatusOrderCreated   Status = 1
	StatusOrderPaid      Status = 2
	StatusOrderFulfilled Status = 3
	StatusOrderRefunded  Status = 4
	StatusOrderCancelled Status = 5
	StatusOrderFailed    Status = 6

	StatusStakingCreated  Status = 7
	StatusStakingUnstaked Status = 8

	StatusGAOrderCreated   Status = 13
	StatusGAOrderPaid      Status = 14
	StatusGAOrderFulfilled Status = 15
	StatusGAOrderRefunded  Status = 16
	StatusGAOrderCancelled Status = 17

	StatusGASubmitted  Status = 20
	StatusGAInProgress Status = 21
	StatusGAResulted   Status = 22
	StatusGARejected   Status = 23
	StatusGARefunded   Status = 24
)

var statusNames = map[Status]string{
	StatusOrderCreated:     "order_created",
	StatusOrderPaid:        "order_paid",
	StatusOrderFulfilled:   "order_fulfilled",
	StatusOrderRefunded:    "order_refunded",
	StatusOrderCancelled:   "order_cancelled",
	StatusOrderFailed:      "order_failed",
	StatusStakingCreated:   "staking_created",
	StatusStakingUnstaked:  "staking_unstaked",
	StatusGAOrderCreated:   "ga_order_created",
	StatusGAOrderPaid:      "ga_order_paid",
	StatusGAOrderFulfilled: "ga_order_fulfilled",
	StatusGAOrderRefunded:  "ga_order_refunded",
	StatusGAOrderCancelled: "ga_order_cancelled",
	StatusGASubmitted:      "ga_submitted",
	StatusGAInProgress:     "ga_in_progress",
	StatusGAResulted:       "ga_resulted",
	StatusGARejected:       "ga_rejected",
	StatusGARefunded:       "ga_refunded",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsRoot reports whether the status opens a logical transaction. Records
// with any other status are derived and carry a parent id.
func (s Status) IsRoot() bool {
	switch s {
	case StatusOrderCreated, StatusStakingCreated, StatusGAOrderCreated, StatusGASubmitted:
		return true
	}
	return false
}

// RequiresCompensation reports whether reaching this status must trigger a
// compensating action on the ledger.
func (s Status) RequiresCompensation() bool {
	switch s {
	case StatusOrderCancelled, StatusOrderFailed, StatusGARejected:
		return true
	}
	return false
}

// Record is one observed state transition. Records are never updated.
type Record struct {
	ID              uint64
	RefNumber       string
	ParentID        *uint64
	Type            Type
	Status          Status
	Address         string
	Amount          decimal.Decimal
	Currency        string
	TransactionHash string
	BlockNumber     uint64
	CreatedAt       time.Time
}
