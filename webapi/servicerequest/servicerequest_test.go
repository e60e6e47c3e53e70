package servicerequest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/ledgersync/internal/fixtures/mocks"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/location"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/amirasaad/ledgersync/pkg/provider/index"
	svc "github.com/amirasaad/ledgersync/pkg/service/servicerequest"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type ServiceRequestRoutesSuite struct {
	suite.Suite
	store     *mocks.IndexStore
	rates     *mocks.RateCache
	countries *mocks.CountryRepository
	app       *fiber.App
}

func (s *ServiceRequestRoutesSuite) SetupTest() {
	s.store = mocks.NewIndexStore(s.T())
	s.rates = mocks.NewRateCache(s.T())
	s.countries = mocks.NewCountryRepository(s.T())
	s.app = fiber.New()
	Routes(s.app, svc.New(s.store, s.rates, s.countries, "", 0, logger))
}

func (s *ServiceRequestRoutesSuite) do(target string) (*http.Response, map[string]any) {
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint: errcheck
	var body map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func openRequest(country string) json.RawMessage {
	b, _ := json.Marshal(svc.Document{Request: svc.Request{
		Hash:            "0x" + country,
		Country:         country,
		Region:          "JK",
		City:            "Jakarta",
		ServiceCategory: "Genomics",
		StakingAmount:   "2000000000000000000",
		Status:          svc.StatusOpen,
	}})
	return b
}

func (s *ServiceRequestRoutesSuite) TestCountries() {
	s.store.On("Search", mock.Anything, mock.AnythingOfType("index.Query")).
		Return([]json.RawMessage{openRequest("ID")}, nil)
	s.rates.On("Get", mock.Anything).
		Return(&exchange.Rates{DbioToDai: decimal.NewFromInt(1), DbioToUsd: decimal.NewFromInt(2)}, nil)
	s.countries.On("GetByISO2", mock.Anything, "ID").
		Return(&location.Country{ISO2: "ID", Name: "Indonesia"}, nil)

	resp, body := s.do("/service-requests/countries?page=1&size=10")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := body["data"].([]any)
	s.Require().Len(data, 1)
	stat := data[0].(map[string]any)
	s.Equal("Indonesia", stat["country"])
}

func (s *ServiceRequestRoutesSuite) TestCountriesRejectsNegativePage() {
	resp, body := s.do("/service-requests/countries?page=-1")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	s.Equal("Validation failed", body["title"])
}

func (s *ServiceRequestRoutesSuite) TestCustomerPaging() {
	s.store.On("Search", mock.Anything, mock.MatchedBy(func(q index.Query) bool {
		return q.From == 10 && q.Size == 5 && q.Must[0].Value == "5Cust"
	})).Return([]json.RawMessage{openRequest("ID")}, nil)

	resp, body := s.do("/service-requests/customer/5Cust?page=3&size=5")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(body["data"].([]any), 1)
}

func (s *ServiceRequestRoutesSuite) TestProvideRequiresAllFilters() {
	resp, body := s.do("/service-requests/provide?country=ID&region=JK")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	s.Contains(errs, "City")
	s.Contains(errs, "Category")
}

func (s *ServiceRequestRoutesSuite) TestMissingIndexIsEmpty() {
	s.store.On("Search", mock.Anything, mock.Anything).Return(nil, domain.ErrIndexNotFound)

	resp, body := s.do("/service-requests/provide?country=ID&region=JK&city=Jakarta&category=Genomics")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Empty(body["data"])
}

func (s *ServiceRequestRoutesSuite) TestSearchFailureIsProblem() {
	s.store.On("Search", mock.Anything, mock.Anything).Return(nil, domain.ErrStore)

	resp, body := s.do("/service-requests/customer/5Cust")
	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.Equal("Failed to fetch customer service requests", body["title"])
}

func TestServiceRequestRoutesSuite(t *testing.T) {
	suite.Run(t, new(ServiceRequestRoutesSuite))
}
