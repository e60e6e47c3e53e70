package servicerequest

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StatusOpen is the indexed status of requests still waiting for a lab.
const StatusOpen = "Open"

// Request is the indexed view of a staking service request.
type Request struct {
	Hash             string `json:"hash"`
	RequesterAddress string `json:"requester_address"`
	LabAddress       string `json:"lab_address,omitempty"`
	Country          string `json:"country"`
	Region           string `json:"region"`
	City             string `json:"city"`
	ServiceCategory  string `json:"service_category"`
	StakingAmount    string `json:"staking_amount"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// Document is one indexed search hit.
type Document struct {
	Request       Request         `json:"request"`
	BlockMetadata json.RawMessage `json:"blockMetadata,omitempty"`
}

// UnavailableMarker is rendered in place of an amount that could not be
// converted because no usable rate exists.
const UnavailableMarker = "conversion_unavailable"

// Conversion is a converted amount or an explicit unavailable marker. It
// is never a silent zero.
type Conversion struct {
	Amount    decimal.Decimal
	Available bool
}

func (c Conversion) MarshalJSON() ([]byte, error) {
	if !c.Available {
		return json.Marshal(UnavailableMarker)
	}
	return json.Marshal(c.Amount)
}

func (c *Conversion) UnmarshalJSON(b []byte) error {
	var marker string
	if err := json.Unmarshal(b, &marker); err == nil && marker == UnavailableMarker {
		*c = Conversion{}
		return nil
	}
	if err := json.Unmarshal(b, &c.Amount); err != nil {
		return err
	}
	c.Available = true
	return nil
}

// Value is a native total with its two reference conversions.
type Value struct {
	Dbio decimal.Decimal `json:"dbio"`
	Dai  Conversion      `json:"dai"`
	Usd  Conversion      `json:"usd"`
}

// ServiceStat aggregates open requests for one (region, city, category).
type ServiceStat struct {
	Category      string `json:"category"`
	RegionCode    string `json:"regionCode"`
	City          string `json:"city"`
	TotalRequests int    `json:"totalRequests"`
	TotalValue    Value  `json:"totalValue"`
}

// CountryStat aggregates open requests for one country.
type CountryStat struct {
	CountryID     string        `json:"countryId"`
	Country       string        `json:"country"`
	TotalRequests int           `json:"totalRequests"`
	TotalValue    Value         `json:"totalValue"`
	Services      []ServiceStat `json:"services"`
}
