package servicerequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/ledgersync/internal/fixtures/mocks"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/location"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/amirasaad/ledgersync/pkg/provider/index"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// doc builds an indexed request with a whole-unit native amount.
func doc(country, region, city, category string, units int64) json.RawMessage {
	raw := decimal.NewFromInt(units).Shift(18).String()
	b, _ := json.Marshal(Document{Request: Request{
		Hash:            fmt.Sprintf("0x%s%d", country, units),
		Country:         country,
		Region:          region,
		City:            city,
		ServiceCategory: category,
		StakingAmount:   raw,
		Status:          StatusOpen,
	}})
	return b
}

func countries(t *testing.T) *mocks.CountryRepository {
	repo := mocks.NewCountryRepository(t)
	repo.On("GetByISO2", mock.Anything, "A").Return(&location.Country{ISO2: "A", Name: "Alpha"}, nil).Maybe()
	repo.On("GetByISO2", mock.Anything, "B").Return(&location.Country{ISO2: "B", Name: "Bravo"}, nil).Maybe()
	repo.On("GetByISO2", mock.Anything, "C").Return(&location.Country{ISO2: "C", Name: "Charlie"}, nil).Maybe()
	repo.On("GetByISO2", mock.Anything, "AZ").Return(nil, domain.ErrNotFound).Maybe()
	repo.On("GetByISO2", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound).Maybe()
	return repo
}

func TestGetAggregatedByCountries(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.MatchedBy(func(q index.Query) bool {
		return q.Index == DefaultIndex && q.SortBy == "request.country.keyword" && q.Size == DefaultQuerySize &&
			len(q.Must) == 1 && q.Must[0].Field == "request.status" && q.Must[0].Value == StatusOpen
	})).Return([]json.RawMessage{
		doc("A", "R1", "City1", "Covid", 10),
		doc("A", "R1", "City1", "Covid", 5),
		doc("B", "R2", "City2", "DNA", 3),
	}, nil)
	rates := mocks.NewRateCache(t)
	rates.On("Get", mock.Anything).Return(&exchange.Rates{
		DbioToDai: decimal.RequireFromString("0.5"),
		DbioToUsd: decimal.Zero,
	}, nil)

	svc := New(store, rates, countries(t), "", 0, logger)
	got, err := svc.GetAggregatedByCountries(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	a, b := got[0], got[1]
	assert.Equal(t, "A", a.CountryID)
	assert.Equal(t, "Alpha", a.Country)
	assert.Equal(t, 2, a.TotalRequests)
	assert.True(t, decimal.NewFromInt(15).Equal(a.TotalValue.Dbio))
	assert.True(t, a.TotalValue.Dai.Available)
	assert.True(t, decimal.RequireFromString("7.5").Equal(a.TotalValue.Dai.Amount))
	assert.False(t, a.TotalValue.Usd.Available, "zero rate is unavailable")
	require.Len(t, a.Services, 1)
	assert.Equal(t, 2, a.Services[0].TotalRequests)

	assert.Equal(t, 1, b.TotalRequests)
	assert.True(t, decimal.NewFromInt(3).Equal(b.TotalValue.Dbio))

	out, err := json.Marshal(a.TotalValue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dbio":"15","dai":"7.5","usd":"conversion_unavailable"}`, string(out))
}

func TestGetAggregatedByCountries_Pagination(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.Anything).Return([]json.RawMessage{
		doc("A", "R", "C", "X", 1),
		doc("B", "R", "C", "X", 1),
		doc("C", "R", "C", "X", 1),
		doc("ZZ", "R", "C", "X", 1),
	}, nil)
	rates := mocks.NewRateCache(t)
	rates.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := New(store, rates, countries(t), "", 0, logger)

	page1, err := svc.GetAggregatedByCountries(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "A", page1[0].CountryID)
	assert.Equal(t, "B", page1[1].CountryID)
	assert.False(t, page1[0].TotalValue.Dai.Available)

	page2, err := svc.GetAggregatedByCountries(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "C", page2[0].CountryID)

	page3, err := svc.GetAggregatedByCountries(ctx, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestGetAggregatedByCountries_UnknownCountryKeepsItsSlot(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.Anything).Return([]json.RawMessage{
		doc("A", "R", "C", "X", 1),
		doc("AZ", "R", "C", "X", 1),
		doc("B", "R", "C", "X", 1),
		doc("C", "R", "C", "X", 1),
	}, nil)
	rates := mocks.NewRateCache(t)
	rates.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := New(store, rates, countries(t), "", 0, logger)

	page1, err := svc.GetAggregatedByCountries(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 1, "AZ occupies the second slot and is dropped")
	assert.Equal(t, "A", page1[0].CountryID)

	page2, err := svc.GetAggregatedByCountries(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "B", page2[0].CountryID)
	assert.Equal(t, "C", page2[1].CountryID)

	all, err := svc.GetAggregatedByCountries(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMissingIndexTolerance(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: no such index", domain.ErrIndexNotFound))
	svc := New(store, nil, mocks.NewCountryRepository(t), "", 0, logger)

	stats, err := svc.GetAggregatedByCountries(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, stats)

	docs, err := svc.GetByCustomerID(ctx, "5Cust", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = svc.ProvideRequestService(ctx, "ID", "JK", "Jakarta", "Covid")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestQueryFailureIsRaised(t *testing.T) {
	store := mocks.NewIndexStore(t)
	boom := errors.New("search_phase_execution_exception")
	store.On("Search", mock.Anything, mock.Anything).Return(nil, boom)
	svc := New(store, nil, mocks.NewCountryRepository(t), "", 0, logger)

	_, err := svc.GetAggregatedByCountries(context.Background(), 0, 0)
	assert.ErrorIs(t, err, boom)
}

func TestGetByCustomerID_Paging(t *testing.T) {
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.MatchedBy(func(q index.Query) bool {
		return q.From == 20 && q.Size == 10 &&
			q.Must[0].Kind == index.MatchPhrasePrefix && q.Must[0].Field == "request.requester_address" && q.Must[0].Value == "5Cust"
	})).Return([]json.RawMessage{doc("A", "R", "C", "X", 2), json.RawMessage(`not json`)}, nil)

	docs, err := New(store, nil, nil, "", 0, logger).GetByCustomerID(context.Background(), "5Cust", 3, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0].Request.Country)
}

func TestProvideRequestService_Filters(t *testing.T) {
	store := mocks.NewIndexStore(t)
	store.On("Search", mock.Anything, mock.MatchedBy(func(q index.Query) bool {
		fields := map[string]string{}
		for _, c := range q.Must {
			fields[c.Field] = c.Value
		}
		return len(q.Must) == 5 &&
			fields["request.country"] == "ID" &&
			fields["request.region"] == "JK" &&
			fields["request.city"] == "Jakarta" &&
			fields["request.service_category"] == "Covid" &&
			fields["request.status"] == StatusOpen
	})).Return([]json.RawMessage{}, nil)

	docs, err := New(store, nil, nil, "", 0, logger).ProvideRequestService(context.Background(), "ID", "JK", "Jakarta", "Covid")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestConversionJSON(t *testing.T) {
	var c Conversion
	require.NoError(t, json.Unmarshal([]byte(`"conversion_unavailable"`), &c))
	assert.False(t, c.Available)
	require.NoError(t, json.Unmarshal([]byte(`"2.5"`), &c))
	assert.True(t, c.Available)
	assert.True(t, decimal.RequireFromString("2.5").Equal(c.Amount))
}
