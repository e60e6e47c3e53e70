// Package compensation models the journal of compensating ledger calls.
package compensation

import "time"

// Action names one compensating call. Actions for the same ref run in the
// order they are listed by the plan that produced them.
type Action string

const (
	ActionEscrowRefund                    Action = "escrow_refund_order"
	ActionSetOrderRefunded                Action = "set_order_refunded"
	ActionSetGeneticAnalysisOrderRefunded Action = "set_genetic_analysis_order_refunded"
)

// State of a journal entry.
type State string

const (
	StatePending State = "pending"
	StateFailed  State = "failed"
	StateDone    State = "done"
)

// Entry is the journal row for one (ref, action) pair.
type Entry struct {
	RefNumber string
	Action    Action
	// Target is the ledger identifier the call is issued for. It equals
	// RefNumber except for actions that act on a linked entity.
	Target    string
	State     State
	Attempts  int
	LastError string
	UpdatedAt time.Time
}
