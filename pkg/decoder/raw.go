package decoder

import "encoding/json"

// RawEvent is one event as delivered by the ledger indexer.
type RawEvent struct {
	Section string          `json:"section"`
	Method  string          `json:"method"`
	Index   int             `json:"index"`
	Data    json.RawMessage `json:"data"`
}

// Name is the section.method pair used to route the event.
func (r RawEvent) Name() string { return r.Section + "." + r.Method }

// Block is the unit of delivery: every event emitted in one ledger block.
type Block struct {
	Number uint64     `json:"number"`
	Hash   string     `json:"hash"`
	Events []RawEvent `json:"events"`
}

type pricePayload struct {
	Component string `json:"component"`
	Value     string `json:"value" validate:"required"`
}

type orderPayload struct {
	ID                  string         `json:"id" validate:"required"`
	ServiceID           string         `json:"service_id"`
	CustomerID          string         `json:"customer_id" validate:"required"`
	SellerID            string         `json:"seller_id"`
	DNASampleTrackingID string         `json:"dna_sample_tracking_id"`
	Currency            string         `json:"currency"`
	Prices              []pricePayload `json:"prices" validate:"dive"`
	AdditionalPrices    []pricePayload `json:"additional_prices" validate:"dive"`
}

type stakingPayload struct {
	Hash             string `json:"hash" validate:"required"`
	RequesterAddress string `json:"requester_address" validate:"required"`
	LabAddress       string `json:"lab_address"`
	Country          string `json:"country"`
	Region           string `json:"region"`
	City             string `json:"city"`
	ServiceCategory  string `json:"service_category"`
	StakingAmount    string `json:"staking_amount" validate:"required"`
}

type geneticAnalysisPayload struct {
	TrackingID             string `json:"genetic_analysis_tracking_id" validate:"required"`
	AnalystID              string `json:"genetic_analyst_id"`
	OwnerID                string `json:"owner_id" validate:"required"`
	GeneticAnalysisOrderID string `json:"genetic_analysis_order_id"`
	ReportLink             string `json:"report_link"`
	RejectedTitle          string `json:"rejected_title"`
	RejectedDescription    string `json:"rejected_description"`
}

type geneticAnalysisOrderPayload struct {
	ID               string         `json:"id" validate:"required"`
	ServiceID        string         `json:"service_id"`
	CustomerID       string         `json:"customer_id" validate:"required"`
	SellerID         string         `json:"seller_id"`
	GeneticDataID    string         `json:"genetic_data_id"`
	TrackingID       string         `json:"genetic_analysis_tracking_id"`
	Currency         string         `json:"currency"`
	Prices           []pricePayload `json:"prices" validate:"dive"`
	AdditionalPrices []pricePayload `json:"additional_prices" validate:"dive"`
}
