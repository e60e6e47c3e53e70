// Package ledger defines the outbound calls issued to the ledger gateway.
package ledger

import "context"

// Client issues signed state-changing calls. Implementations return an error
// wrapping domain.ErrAlreadyApplied when the chain rejects a call because the
// target state was already reached, and one wrapping domain.ErrOutbound for
// any other failure.
type Client interface {
	// RefundOrder transfers the escrowed value of an order back to the customer.
	RefundOrder(ctx context.Context, orderID string) error
	// SetOrderRefunded moves the order to its refunded state.
	SetOrderRefunded(ctx context.Context, orderID string) error
	// SetGeneticAnalysisOrderRefunded moves a genetic analysis order to its
	// refunded state.
	SetGeneticAnalysisOrderRefunded(ctx context.Context, trackingID string) error
}
