package events

import (
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/shopspring/decimal"
)

// GeneticAnalysis tracks an analyst's work on submitted genetic data.
type GeneticAnalysis struct {
	Meta
	TrackingID             string
	AnalystAddress         string
	OwnerAddress           string
	GeneticAnalysisOrderID string
	ReportLink             string
	RejectedTitle          string
	RejectedDescription    string
	AnalysisStatus         txlog.Status
}

func (g *GeneticAnalysis) Type() EventType { return TypeFor(g.AnalysisStatus) }
func (g *GeneticAnalysis) Identity() string { return g.TrackingID }
func (g *GeneticAnalysis) Kind() Kind { return KindGeneticAnalysis }
func (g *GeneticAnalysis) Status() txlog.Status { return g.AnalysisStatus }
func (g *GeneticAnalysis) Metadata() Meta { return g.Meta }

// GeneticAnalysisOrder is the paid order for a genetic analysis.
type GeneticAnalysisOrder struct {
	Meta
	ID               string
	ServiceID        string
	CustomerAddress  string
	SellerAddress    string
	GeneticDataID    string
	TrackingID       string
	Currency         string
	Prices           []Price
	AdditionalPrices []Price
	OrderStatus      txlog.Status
}

func (g *GeneticAnalysisOrder) Amount() decimal.Decimal { return Total(g.Prices, g.AdditionalPrices) }

func (g *GeneticAnalysisOrder) Type() EventType { return TypeFor(g.OrderStatus) }
func (g *GeneticAnalysisOrder) Identity() string { return g.ID }
func (g *GeneticAnalysisOrder) Kind() Kind { return KindGeneticAnalysisOrder }
func (g *GeneticAnalysisOrder) Status() txlog.Status { return g.OrderStatus }
func (g *GeneticAnalysisOrder) Metadata() Meta { return g.Meta }
