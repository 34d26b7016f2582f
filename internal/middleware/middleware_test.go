package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/utils"
)

func testConfig(env, secret string) *config.Config {
	return &config.Config{AppEnv: env, JWTSecret: secret, SessionTTL: time.Hour}
}

func TestSessionMintsAndReusesID(t *testing.T) {
	app := fiber.New()
	app.Use(Session(testConfig("production", "")))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(SessionID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	minted := resp.Header.Get(SessionHeader)
	_, err = uuid.Parse(minted)
	assert.NoError(t, err)

	existing := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(SessionHeader, existing)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, existing, resp.Header.Get(SessionHeader))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", SessionCookie+"="+existing)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, existing, resp.Header.Get(SessionHeader))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(SessionHeader, "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(SessionHeader))
}

func TestAuthMiddleware(t *testing.T) {
	newApp := func(cfg *config.Config) *fiber.App {
		app := fiber.New()
		app.Use(AuthMiddleware(cfg))
		app.Get("/", func(c *fiber.Ctx) error {
			name, _ := c.Locals("username").(string)
			return c.SendString(name)
		})
		return app
	}

	token, err := utils.GenerateToken("fleet-admin", "demo_db", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cfg    *config.Config
		header string
		want   int
	}{
		{"auth disabled", testConfig("production", ""), "", fiber.StatusOK},
		{"missing header", testConfig("production", "secret"), "", fiber.StatusUnauthorized},
		{"bad format", testConfig("production", "secret"), "Token abc", fiber.StatusUnauthorized},
		{"valid token", testConfig("production", "secret"), "Bearer " + token, fiber.StatusOK},
		{"wrong secret", testConfig("production", "other"), "Bearer " + token, fiber.StatusUnauthorized},
		{"dev token in development", testConfig("development", "secret"), "Bearer dev-token-1", fiber.StatusOK},
		{"dev token in production", testConfig("production", "secret"), "Bearer dev-token-1", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
