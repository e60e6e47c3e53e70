package common

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("lookup: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{domain.ErrIndexNotFound, fiber.StatusServiceUnavailable},
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{domain.ErrStore, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorToStatusCode(tt.err), tt.err.Error())
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Lookup failed", domain.ErrNotFound)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/x?y=1", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ProblemDetails{
		Type:     "about:blank",
		Title:    "Lookup failed",
		Status:   fiber.StatusNotFound,
		Detail:   domain.ErrNotFound.Error(),
		Instance: "/x?y=1",
	}, pd)
}
