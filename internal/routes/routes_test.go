package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Rheet26/transakt-secure-smart/internal/config"
	"github.com/Rheet26/transakt-secure-smart/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{
		AppName:        "TransAkt",
		AppEnv:         "development",
		SessionTTL:     time.Hour,
		LinkTTL:        15 * time.Minute,
		OpeningBalance: decimal.RequireFromString("1000.00"),
	}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, sessionID string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if sessionID != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+sessionID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func signup(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name":     "Sarah Johnson",
		"email":    email,
		"password": "correct horse battery",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status %d: %v", resp.StatusCode, body)
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("no session id in %v", body)
	}
	return sessionID
}

func TestSignupTransferAndHistory(t *testing.T) {
	app := setupApp(t)
	sessionID := signup(t, app, "sarah@example.com")

	// Opening balance reflected on first read.
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/accounts/me", sessionID, nil)
	if resp.StatusCode != http.StatusOK || body["balance"] != "1000.00" {
		t.Fatalf("balance: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", sessionID, fiber.Map{
		"recipient_name":    "Car Repairs Inc",
		"recipient_contact": "shop@cars.example",
		"amount":            "320.00",
		"description":       "brake pads",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("transfer status %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "completed" {
		t.Fatalf("expected completed transfer, got %v", body)
	}

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/accounts/me", sessionID, nil)
	if resp.StatusCode != http.StatusOK || body["balance"] != "680.00" {
		t.Fatalf("post-transfer balance: status %d body %v", resp.StatusCode, body)
	}

	// Filtered history returns the matching transaction plus its summary.
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/transactions?type=outbound&search=car", sessionID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status %d: %v", resp.StatusCode, body)
	}
	txs, _ := body["transactions"].([]any)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %v", body)
	}
	summary, _ := body["summary"].(map[string]any)
	if summary["total_amount"] != "320.00" {
		t.Fatalf("unexpected summary: %v", summary)
	}
}

func TestTransferRejectionsOverHTTP(t *testing.T) {
	app := setupApp(t)
	sessionID := signup(t, app, "mike@example.com")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", sessionID, fiber.Map{
		"recipient_name":    "Mike Chen",
		"recipient_contact": "mike@example.com",
		"amount":            "-5",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid amount: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", sessionID, fiber.Map{
		"recipient_name":    "Mike Chen",
		"recipient_contact": "mike@example.com",
		"amount":            "99999.00",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("insufficient funds: expected 422, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", "", fiber.Map{
		"recipient_name":    "Mike Chen",
		"recipient_contact": "mike@example.com",
		"amount":            "10.00",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing session: expected 401, got %d", resp.StatusCode)
	}
}

func TestStepUpAndLogoutLifecycle(t *testing.T) {
	app := setupApp(t)
	sessionID := signup(t, app, "emma@example.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/step-up", sessionID, nil)
	if resp.StatusCode != http.StatusOK || body["step_up"] != true {
		t.Fatalf("step-up: status %d body %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/logout", sessionID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}

	// The session is gone: step-up and transfers both bounce at the gate.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/step-up", sessionID, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("step-up after logout: expected 401, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/accounts/me", sessionID, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("balance after logout: expected 401, got %d", resp.StatusCode)
	}
}
