package events

import "github.com/amirasaad/ledgersync/pkg/domain/txlog"

// EventType represents the type of an event in the system.
type EventType string

func (t EventType) String() string { return string(t) }

// Event type constants
const (
	// Order events
	EventTypeOrderCreated   EventType = "Order.Created"
	EventTypeOrderPaid      EventType = "Order.Paid"
	EventTypeOrderFulfilled EventType = "Order.Fulfilled"
	EventTypeOrderRefunded  EventType = "Order.Refunded"
	EventTypeOrderCancelled EventType = "Order.Cancelled"
	EventTypeOrderFailed    EventType = "Order.Failed"

	// Staking request events
	EventTypeStakingRequestCreated  EventType = "StakingRequest.Created"
	EventTypeStakingRequestUnstaked EventType = "StakingRequest.Unstaked"

	// Genetic analysis order events
	EventTypeGAOrderCreated   EventType = "GeneticAnalysisOrder.Created"
	EventTypeGAOrderPaid      EventType = "GeneticAnalysisOrder.Paid"
	EventTypeGAOrderFulfilled EventType = "GeneticAnalysisOrder.Fulfilled"
	EventTypeGAOrderRefunded  EventType = "GeneticAnalysisOrder.Refunded"
	EventTypeGAOrderCancelled EventType = "GeneticAnalysisOrder.Cancelled"

	// Genetic analysis events
	EventTypeGASubmitted  EventType = "GeneticAnalysis.Submitted"
	EventTypeGAInProgress EventType = "GeneticAnalysis.InProgress"
	EventTypeGAResulted   EventType = "GeneticAnalysis.Resulted"
	EventTypeGARejected   EventType = "GeneticAnalysis.Rejected"
	EventTypeGARefunded   EventType = "GeneticAnalysis.Refunded"
)

var typeByStatus = map[txlog.Status]EventType{
	txlog.StatusOrderCreated:     EventTypeOrderCreated,
	txlog.StatusOrderPaid:        EventTypeOrderPaid,
	txlog.StatusOrderFulfilled:   EventTypeOrderFulfilled,
	txlog.StatusOrderRefunded:    EventTypeOrderRefunded,
	txlog.StatusOrderCancelled:   EventTypeOrderCancelled,
	txlog.StatusOrderFailed:      EventTypeOrderFailed,
	txlog.StatusStakingCreated:   EventTypeStakingRequestCreated,
	txlog.StatusStakingUnstaked:  EventTypeStakingRequestUnstaked,
	txlog.StatusGAOrderCreated:   EventTypeGAOrderCreated,
	txlog.StatusGAOrderPaid:      EventTypeGAOrderPaid,
	txlog.StatusGAOrderFulfilled: EventTypeGAOrderFulfilled,
	txlog.StatusGAOrderRefunded:  EventTypeGAOrderRefunded,
	txlog.StatusGAOrderCancelled: EventTypeGAOrderCancelled,
	txlog.StatusGASubmitted:      EventTypeGASubmitted,
	txlog.StatusGAInProgress:     EventTypeGAInProgress,
	txlog.StatusGAResulted:       EventTypeGAResulted,
	txlog.StatusGARejected:       EventTypeGARejected,
	txlog.StatusGARefunded:       EventTypeGARefunded,
}

// TypeFor returns the event type emitted for a status.
func TypeFor(s txlog.Status) EventType {
	return typeByStatus[s]
}

// AllTypes lists every event type the decoder can produce.
func AllTypes() []EventType {
	out := make([]EventType, 0, len(typeByStatus))
	for _, t := range typeByStatus {
		out = append(out, t)
	}
	return out
}
