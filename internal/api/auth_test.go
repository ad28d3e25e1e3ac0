package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthApp(t *testing.T, key string) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Use("/api", APIKeyMiddleware(string(hash), zerolog.Nop()))
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAPIKeyMiddleware(t *testing.T) {
	app := newAuthApp(t, "secret-key")

	cases := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"bearer token", "Authorization", "Bearer secret-key", http.StatusOK},
		{"plain authorization", "Authorization", "secret-key", http.StatusOK},
		{"x-api-key header", "x-api-key", "secret-key", http.StatusOK},
		{"wrong key", "Authorization", "Bearer nope", http.StatusUnauthorized},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		if c.header != "" {
			req.Header.Set(c.header, c.value)
		}
		resp, err := app.Test(req, 10000)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.status, resp.StatusCode, c.name)
	}
}
