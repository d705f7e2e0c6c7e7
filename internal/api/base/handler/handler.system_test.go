package basehdl

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthWithoutDatabase(t *testing.T) {
	app := fiber.New()
	app.Get("/health", NewSystemHandler().HandleHealth)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	// No Mongo session in tests: the API answers but reports the
	// database as not initialized.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"not_initialized"`)
	assert.Contains(t, string(body), `"degraded"`)
}
