package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"carmodel-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(secret []byte) *fiber.App {
	app := fiber.New()
	app.Post("/x", RequireServiceToken(secret), func(c *fiber.Ctx) error {
		svc, _ := c.Locals("service").(string)
		return c.SendString(svc)
	})
	return app
}

func TestRequireServiceToken(t *testing.T) {
	secret := []byte("s3cret")
	good, err := jwt.GenerateToken(secret, "console", time.Minute)
	require.NoError(t, err)
	foreign, err := jwt.GenerateToken([]byte("other"), "console", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", 401},
		{"bad format", "Token " + good, 401},
		{"wrong secret", "Bearer " + foreign, 401},
		{"valid", "Bearer " + good, 200},
	}

	app := setupApp(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireServiceTokenDisabled(t *testing.T) {
	resp, err := setupApp(nil).Test(httptest.NewRequest("POST", "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
