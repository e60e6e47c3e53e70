// Package servicerequest is the read model over indexed service requests.
// It has no side effects.
package servicerequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/money"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/amirasaad/ledgersync/pkg/provider/index"
	"github.com/amirasaad/ledgersync/pkg/repository/country"
	"github.com/shopspring/decimal"
)

// ---- Constants ----

const (
	DefaultIndex     = "create-service-request"
	DefaultQuerySize = 10000
	defaultPageSize  = 10
	countrySortField = "request.country.keyword"
)

// ---- Service ----

type Service struct {
	index     index.Store
	rates     exchange.RateCache
	countries country.Repository
	indexName string
	querySize int
	logger    *slog.Logger
}

func New(
	store index.Store,
	rates exchange.RateCache,
	countries country.Repository,
	indexName string,
	querySize int,
	logger *slog.Logger,
) *Service {
	if indexName == "" {
		indexName = DefaultIndex
	}
	if querySize <= 0 {
		querySize = DefaultQuerySize
	}
	return &Service{
		index:     store,
		rates:     rates,
		countries: countries,
		indexName: indexName,
		querySize: querySize,
		logger:    logger.With("service", "servicerequest"),
	}
}

// GetAggregatedByCountries rolls open requests up by country and by
// (region, city, category). With page and size both positive only the
// countries in that window are returned; otherwise all are. The window is
// taken over every aggregated country, and those unknown to the directory
// are dropped from it, so a page may come back short.
func (s *Service) GetAggregatedByCountries(ctx context.Context, page, size int) ([]CountryStat, error) {
	docs, err := s.search(ctx, "service-requests/countries", index.Query{
		Index:  s.indexName,
		Must:   []index.Clause{{Kind: index.Match, Field: "request.status", Value: StatusOpen}},
		From:   0,
		Size:   s.querySize,
		SortBy: countrySortField,
	})
	if err != nil {
		return nil, err
	}

	groups := aggregate(docs, s.logger)
	rates := s.currentRates(ctx)

	start, end := window(page, size, len(groups))
	stats := make([]CountryStat, 0, end-start)
	for _, g := range groups[start:end] {
		c, err := s.countries.GetByISO2(ctx, g.code)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Debug("skipping unknown country", "country", g.code)
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to get country %s: %w", g.code, err)
		}
		stats = append(stats, g.stat(c.Name, rates))
	}
	return stats, nil
}

// GetByCustomerID pages through requests whose requester address starts
// with customerID.
func (s *Service) GetByCustomerID(ctx context.Context, customerID string, page, size int) ([]Document, error) {
	if size <= 0 {
		size = defaultPageSize
	}
	from := size*page - size
	if from < 0 {
		from = 0
	}
	return s.search(ctx, "service-requests/customer/{customerId}", index.Query{
		Index: s.indexName,
		Must:  []index.Clause{{Kind: index.MatchPhrasePrefix, Field: "request.requester_address", Value: customerID}},
		From:  from,
		Size:  size,
	})
}

// ProvideRequestService lists open requests a lab in the given location and
// category can serve.
func (s *Service) ProvideRequestService(ctx context.Context, countryCode, region, city, category string) ([]Document, error) {
	return s.search(ctx, "service-requests/provideRequestService", index.Query{
		Index: s.indexName,
		Must: []index.Clause{
			{Kind: index.MatchPhrasePrefix, Field: "request.country", Value: countryCode},
			{Kind: index.MatchPhrasePrefix, Field: "request.region", Value: region},
			{Kind: index.MatchPhrasePrefix, Field: "request.city", Value: city},
			{Kind: index.MatchPhrasePrefix, Field: "request.service_category", Value: category},
			{Kind: index.MatchPhrasePrefix, Field: "request.status", Value: StatusOpen},
		},
	})
}

// search runs q and decodes its hits. A missing index yields no documents.
func (s *Service) search(ctx context.Context, api string, q index.Query) ([]Document, error) {
	hits, err := s.index.Search(ctx, q)
	if errors.Is(err, domain.ErrIndexNotFound) {
		s.logger.Info("index not created yet", "api", api, "index", q.Index, "error", err)
		return []Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", q.Index, err)
	}

	docs := make([]Document, 0, len(hits))
	for _, h := range hits {
		var d Document
		if err := json.Unmarshal(h, &d); err != nil {
			s.logger.Warn("skipping undecodable document", "api", api, "error", err)
			continue
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (s *Service) currentRates(ctx context.Context) *exchange.Rates {
	if s.rates == nil {
		return &exchange.Rates{}
	}
	r, err := s.rates.Get(ctx)
	if err != nil {
		s.logger.Warn("exchange rates unavailable", "error", err)
		return &exchange.Rates{}
	}
	return r
}

// ---- Aggregation ----

type serviceGroup struct {
	stat  ServiceStat
	total decimal.Decimal
}

type countryGroup struct {
	code     string
	requests int
	total    decimal.Decimal
	order    []string
	services map[string]*serviceGroup
}

// aggregate groups docs by country preserving the order of first
// appearance, which is the index sort order.
func aggregate(docs []Document, logger *slog.Logger) []*countryGroup {
	var order []*countryGroup
	byCode := make(map[string]*countryGroup)

	for _, d := range docs {
		r := d.Request
		g, ok := byCode[r.Country]
		if !ok {
			g = &countryGroup{code: r.Country, services: make(map[string]*serviceGroup)}
			byCode[r.Country] = g
			order = append(order, g)
		}

		value, err := money.ParseCurrencyUnits(r.StakingAmount, money.NativeCurrency)
		if err != nil {
			logger.Warn("request counted without value", "hash", r.Hash, "staking_amount", r.StakingAmount, "error", err)
			value = decimal.Zero
		}
		g.requests++
		g.total = g.total.Add(value)

		key := r.Region + "-" + r.City + "-" + r.ServiceCategory
		sg, ok := g.services[key]
		if !ok {
			sg = &serviceGroup{stat: ServiceStat{Category: r.ServiceCategory, RegionCode: r.Region, City: r.City}}
			g.services[key] = sg
			g.order = append(g.order, key)
		}
		sg.stat.TotalRequests++
		sg.total = sg.total.Add(value)
	}
	return order
}

func (g *countryGroup) stat(name string, rates *exchange.Rates) CountryStat {
	services := make([]ServiceStat, 0, len(g.order))
	for _, key := range g.order {
		sg := g.services[key]
		st := sg.stat
		st.TotalValue = convert(sg.total, rates)
		services = append(services, st)
	}
	return CountryStat{
		CountryID:     g.code,
		Country:       name,
		TotalRequests: g.requests,
		TotalValue:    convert(g.total, rates),
		Services:      services,
	}
}

func convert(amount decimal.Decimal, rates *exchange.Rates) Value {
	return Value{
		Dbio: amount,
		Dai:  convertWith(amount, rates.DbioToDai),
		Usd:  convertWith(amount, rates.DbioToUsd),
	}
}

// A zero rate is treated as missing.
func convertWith(amount, rate decimal.Decimal) Conversion {
	if !rate.IsPositive() {
		return Conversion{}
	}
	return Conversion{Amount: amount.Mul(rate), Available: true}
}

func window(page, size, n int) (int, int) {
	if page <= 0 || size <= 0 {
		return 0, n
	}
	start := (page - 1) * size
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}
