package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHealthCheckReflectsDatabase(t *testing.T) {
	tests := []struct {
		name     string
		ping     func() error
		code     int
		status   string
		database string
	}{
		{"up", func() error { return nil }, fiber.StatusOK, "ok", "healthy"},
		{"down", func() error { return errors.New("connection refused") }, fiber.StatusServiceUnavailable, "unavailable", "unhealthy"},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/health", NewHealthHandler("dev", tt.ping).HealthCheck)

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if resp.StatusCode != tt.code {
			t.Errorf("%s: status code %d want %d", tt.name, resp.StatusCode, tt.code)
		}

		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		if body.Status != tt.status || body.Checks["database"] != tt.database {
			t.Errorf("%s: unexpected body %+v", tt.name, body)
		}
	}
}
