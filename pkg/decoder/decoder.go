// Package decoder turns raw ledger events into typed domain events.
package decoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/money"
	"github.com/go-playground/validator/v10"
)

// ErrUnsupported is returned for events that are not reconciled at all, for
// example balance transfers. Callers skip them.
var ErrUnsupported = errors.New("unsupported ledger event")

type route struct {
	kind   events.Kind
	status txlog.Status
}

var routes = map[string]route{
	"orders.OrderCreated":   {events.KindOrder, txlog.StatusOrderCreated},
	"orders.OrderPaid":      {events.KindOrder, txlog.StatusOrderPaid},
	"orders.OrderFulfilled": {events.KindOrder, txlog.StatusOrderFulfilled},
	"orders.OrderRefunded":  {events.KindOrder, txlog.StatusOrderRefunded},
	"orders.OrderCancelled": {events.KindOrder, txlog.StatusOrderCancelled},
	"orders.OrderFailed":    {events.KindOrder, txlog.StatusOrderFailed},

	"serviceRequest.ServiceRequestCreated":  {events.KindStakingRequest, txlog.StatusStakingCreated},
	"serviceRequest.ServiceRequestUnstaked": {events.KindStakingRequest, txlog.StatusStakingUnstaked},

	"geneticAnalysisOrders.GeneticAnalysisOrderCreated":   {events.KindGeneticAnalysisOrder, txlog.StatusGAOrderCreated},
	"geneticAnalysisOrders.GeneticAnalysisOrderPaid":      {events.KindGeneticAnalysisOrder, txlog.StatusGAOrderPaid},
	"geneticAnalysisOrders.GeneticAnalysisOrderFulfilled": {events.KindGeneticAnalysisOrder, txlog.StatusGAOrderFulfilled},
	"geneticAnalysisOrders.GeneticAnalysisOrderRefunded":  {events.KindGeneticAnalysisOrder, txlog.StatusGAOrderRefunded},
	"geneticAnalysisOrders.GeneticAnalysisOrderCancelled": {events.KindGeneticAnalysisOrder, txlog.StatusGAOrderCancelled},

	"geneticAnalysis.GeneticAnalysisSubmitted":   {events.KindGeneticAnalysis, txlog.StatusGASubmitted},
	"geneticAnalysis.GeneticAnalysisInProgress":  {events.KindGeneticAnalysis, txlog.StatusGAInProgress},
	"geneticAnalysis.GeneticAnalysisResultReady": {events.KindGeneticAnalysis, txlog.StatusGAResulted},
	"geneticAnalysis.GeneticAnalysisRejected":    {events.KindGeneticAnalysis, txlog.StatusGARejected},
	"geneticAnalysis.GeneticAnalysisRefunded":    {events.KindGeneticAnalysis, txlog.StatusGARefunded},
}

// SupportedTypes lists the event types Decode can produce.
func SupportedTypes() []events.EventType {
	seen := make(map[events.EventType]struct{}, len(routes))
	out := make([]events.EventType, 0, len(routes))
	for _, r := range routes {
		t := events.TypeFor(r.status)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Decoder is safe for concurrent use.
type Decoder struct {
	validate *validator.Validate
}

func New() *Decoder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Decoder{validate: v}
}

// Decode converts one raw event. It fails with a *domain.DecodeError when
// required fields are missing or amounts are malformed, and with
// ErrUnsupported when the event is not one this service reconciles.
func (d *Decoder) Decode(raw RawEvent, block Block) (events.Event, error) {
	r, ok := routes[raw.Name()]
	if !ok {
		return nil, ErrUnsupported
	}
	meta := events.Meta{BlockNumber: block.Number, BlockHash: block.Hash, EventIndex: raw.Index}
	data := entityData(raw.Data)

	switch r.kind {
	case events.KindOrder:
		var p orderPayload
		if err := d.unmarshal(raw, data, &p); err != nil {
			return nil, err
		}
		prices, additional, err := parsePrices(raw, p.Currency, p.Prices, p.AdditionalPrices)
		if err != nil {
			return nil, err
		}
		return &events.Order{
			Meta:                meta,
			ID:                  p.ID,
			ServiceID:           p.ServiceID,
			CustomerAddress:     p.CustomerID,
			SellerAddress:       p.SellerID,
			DNASampleTrackingID: p.DNASampleTrackingID,
			Currency:            currencyOrNative(p.Currency),
			Prices:              prices,
			AdditionalPrices:    additional,
			OrderStatus:         r.status,
		}, nil

	case events.KindStakingRequest:
		var p stakingPayload
		if err := d.unmarshal(raw, data, &p); err != nil {
			return nil, err
		}
		amount, err := money.ParseCurrencyUnits(p.StakingAmount, money.NativeCurrency)
		if err != nil {
			return nil, &domain.DecodeError{Event: raw.Name(), Field: "staking_amount", Err: err}
		}
		return &events.StakingRequest{
			Meta:             meta,
			Hash:             p.Hash,
			RequesterAddress: p.RequesterAddress,
			LabAddress:       p.LabAddress,
			Country:          p.Country,
			Region:           p.Region,
			City:             p.City,
			ServiceCategory:  p.ServiceCategory,
			StakingAmount:    amount,
			RequestStatus:    r.status,
		}, nil

	case events.KindGeneticAnalysis:
		var p geneticAnalysisPayload
		if err := d.unmarshal(raw, data, &p); err != nil {
			return nil, err
		}
		return &events.GeneticAnalysis{
			Meta:                   meta,
			TrackingID:             p.TrackingID,
			AnalystAddress:         p.AnalystID,
			OwnerAddress:           p.OwnerID,
			GeneticAnalysisOrderID: p.GeneticAnalysisOrderID,
			ReportLink:             p.ReportLink,
			RejectedTitle:          p.RejectedTitle,
			RejectedDescription:    p.RejectedDescription,
			AnalysisStatus:         r.status,
		}, nil

	case events.KindGeneticAnalysisOrder:
		var p geneticAnalysisOrderPayload
		if err := d.unmarshal(raw, data, &p); err != nil {
			return nil, err
		}
		prices, additional, err := parsePrices(raw, p.Currency, p.Prices, p.AdditionalPrices)
		if err != nil {
			return nil, err
		}
		return &events.GeneticAnalysisOrder{
			Meta:             meta,
			ID:               p.ID,
			ServiceID:        p.ServiceID,
			CustomerAddress:  p.CustomerID,
			SellerAddress:    p.SellerID,
			GeneticDataID:    p.GeneticDataID,
			TrackingID:       p.TrackingID,
			Currency:         currencyOrNative(p.Currency),
			Prices:           prices,
			AdditionalPrices: additional,
			OrderStatus:      r.status,
		}, nil
	}
	return nil, ErrUnsupported
}

func (d *Decoder) unmarshal(raw RawEvent, data []byte, v any) error {
	if len(data) == 0 {
		return &domain.DecodeError{Event: raw.Name(), Reason: "empty payload"}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.DecodeError{Event: raw.Name(), Reason: "invalid json", Err: err}
	}
	if err := d.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &domain.DecodeError{Event: raw.Name(), Field: verrs[0].Field(), Reason: "failed " + verrs[0].Tag()}
		}
		return &domain.DecodeError{Event: raw.Name(), Err: err}
	}
	return nil
}

// entityData unwraps the indexer's positional form, where data is an array
// whose first element is the entity.
func entityData(data json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return trimmed
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
		return nil
	}
	return bytes.TrimSpace(items[0])
}

func parsePrices(raw RawEvent, currency string, prices, additional []pricePayload) ([]events.Price, []events.Price, error) {
	convert := func(field string, in []pricePayload) ([]events.Price, error) {
		out := make([]events.Price, 0, len(in))
		for _, p := range in {
			v, err := money.ParseCurrencyUnits(p.Value, currencyOrNative(currency))
			if err != nil {
				return nil, &domain.DecodeError{Event: raw.Name(), Field: field, Err: err}
			}
			out = append(out, events.Price{Component: p.Component, Value: v})
		}
		return out, nil
	}
	p, err := convert("prices", prices)
	if err != nil {
		return nil, nil, err
	}
	a, err := convert("additional_prices", additional)
	if err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

func currencyOrNative(c string) string {
	if c == "" {
		return money.NativeCurrency
	}
	return strings.ToUpper(c)
}
