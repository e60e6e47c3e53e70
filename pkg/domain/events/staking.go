package events

import (
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/shopspring/decimal"
)

// StakingRequest is emitted when a customer stakes for a service request and
// when that stake is returned.
type StakingRequest struct {
	Meta
	Hash             string
	RequesterAddress string
	LabAddress       string
	Country          string
	Region           string
	City             string
	ServiceCategory  string
	StakingAmount    decimal.Decimal
	RequestStatus    txlog.Status
}

func (s *StakingRequest) Type() EventType { return TypeFor(s.RequestStatus) }
func (s *StakingRequest) Identity() string { return s.Hash }
func (s *StakingRequest) Kind() Kind { return KindStakingRequest }
func (s *StakingRequest) Status() txlog.Status { return s.RequestStatus }
func (s *StakingRequest) Metadata() Meta { return s.Meta }
