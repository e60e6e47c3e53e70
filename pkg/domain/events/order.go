package events

import (
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/shopspring/decimal"
)

// Order is emitted on every lab order lifecycle transition.
type Order struct {
	Meta
	ID                  string
	ServiceID           string
	CustomerAddress     string
	SellerAddress       string
	DNASampleTrackingID string
	Currency            string
	Prices              []Price
	AdditionalPrices    []Price
	OrderStatus         txlog.Status
}

// Amount is the full value paid for the order.
func (o *Order) Amount() decimal.Decimal { return Total(o.Prices, o.AdditionalPrices) }

func (o *Order) Type() EventType { return TypeFor(o.OrderStatus) }
func (o *Order) Identity() string { return o.ID }
func (o *Order) Kind() Kind { return KindOrder }
func (o *Order) Status() txlog.Status { return o.OrderStatus }
func (o *Order) Metadata() Meta { return o.Meta }
