// Package notify defines the notification dispatcher contract.
package notify

import "context"

// Message is a template-keyed notification.
type Message struct {
	To       []string       `json:"to"`
	Template string         `json:"template"`
	Subject  string         `json:"subject"`
	Data     map[string]any `json:"data"`
}

// Dispatcher delivers notifications. Callers treat failures as best effort.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

const TemplateStakingRequestCreated = "customer-staking-request-service"
