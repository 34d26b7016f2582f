package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotab-reformatter/internal/config"
)

func newApp(env string) *fiber.App {
	app := fiber.New()
	Setup(app, nil, &config.Config{
		AppName:        "Geotab Reformatter",
		AppEnv:         env,
		UploadMaxSize:  1 << 20,
		ReportFileName: "GeotabProcessedReport.xlsx",
		SessionStore:   "memory",
		SessionTTL:     time.Hour,
	})
	return app
}

func TestHealth(t *testing.T) {
	resp, err := newApp("production").Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["session_store"])
}

func TestDebugRouteOnlyInDevelopment(t *testing.T) {
	resp, err := newApp("development").Test(httptest.NewRequest("GET", "/api/v1/debug/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = newApp("production").Test(httptest.NewRequest("GET", "/api/v1/debug/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUploadRouteUnknownKind(t *testing.T) {
	resp, err := newApp("production").Test(httptest.NewRequest("GET", "/api/v1/uploads/fuel", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
