// Package servicerequest exposes the service request read model over HTTP.
package servicerequest

import (
	"strings"

	svc "github.com/amirasaad/ledgersync/pkg/service/servicerequest"
	"github.com/amirasaad/ledgersync/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the read-only service request endpoints.
func Routes(app fiber.Router, service *svc.Service) {
	group := app.Group("/service-requests")
	group.Get("/countries", GetAggregatedByCountries(service))
	group.Get("/customer/:customerId", GetByCustomerID(service))
	group.Get("/provide", ProvideRequestService(service))
}

// GetAggregatedByCountries returns open requests rolled up per country.
func GetAggregatedByCountries(service *svc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := common.BindQuery[PageQuery](c)
		if err != nil {
			return nil
		}
		stats, err := service.GetAggregatedByCountries(c.UserContext(), q.Page, q.Size)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to aggregate service requests", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Service requests aggregated", stats)
	}
}

func GetByCustomerID(service *svc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := strings.TrimSpace(c.Params("customerId"))
		if customerID == "" {
			return common.ProblemDetailsJSON(c, "Invalid customer id", nil, fiber.StatusBadRequest)
		}
		q, err := common.BindQuery[PageQuery](c)
		if err != nil {
			return nil
		}
		docs, err := service.GetByCustomerID(c.UserContext(), customerID, q.Page, q.Size)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch customer service requests", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Service requests fetched", docs)
	}
}

// ProvideRequestService lists open requests a lab in the given location and
// category could take on.
func ProvideRequestService(service *svc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := common.BindQuery[ProvideQuery](c)
		if err != nil {
			return nil
		}
		docs, err := service.ProvideRequestService(c.UserContext(), q.Country, q.Region, q.City, q.Category)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch service requests", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Service requests fetched", docs)
	}
}
