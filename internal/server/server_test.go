package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/config"
	"github.com/okapi-id/okapi_id/internal/logging"
)

func devConfig() config.Config {
	return config.Config{
		AppName:      "okapi-test",
		AppEnv:       "development",
		Port:         "0",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		TokenCarrier: config.CarrierHeader,
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	srv, err := New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, bearer string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s body %q: %v", method, path, raw, err)
		}
	}
	return resp, decoded
}

func TestRegisterLoginAndDeleteFlow(t *testing.T) {
	srv := newTestServer(t, devConfig())
	app := srv.app

	// register
	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/register", `{"identity":"a@b.com","secret":"pw1"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: expected 201 got %d", resp.StatusCode)
	}
	if tok, _ := body["token"].(string); tok == "" {
		t.Fatalf("register: missing token in %v", body)
	}

	// wrong secret
	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/login", `{"identity":"a@b.com","secret":"wrong"}`, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad login: expected 401 got %d", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("bad login: expected error body, got %v", body)
	}

	// correct secret
	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/login", `{"identity":"a@b.com","secret":"pw1"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: expected 200 got %d", resp.StatusCode)
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatalf("login: missing token")
	}

	// find the account id through the guarded list
	req := httptest.NewRequest(fiber.MethodGet, "/users/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	listResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	raw, _ := io.ReadAll(listResp.Body)
	listResp.Body.Close()
	if listResp.StatusCode != fiber.StatusOK {
		t.Fatalf("list: expected 200 got %d (%s)", listResp.StatusCode, raw)
	}
	var accounts []map[string]any
	if err := json.Unmarshal(raw, &accounts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(accounts))
	}
	if _, leaked := accounts[0]["secret_digest"]; leaked {
		t.Fatalf("secret digest leaked in list response")
	}
	id, _ := accounts[0]["id"].(string)
	if id == "" {
		t.Fatalf("list: missing account id")
	}

	// delete
	resp, body = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/users/%s", id), "", tok)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete: expected 200 got %d", resp.StatusCode)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "a@b.com") {
		t.Fatalf("delete confirmation should reference identity, got %v", body)
	}

	// gone
	resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/users/%s", id), "", tok)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete: expected 404 got %d", resp.StatusCode)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	srv := newTestServer(t, devConfig())
	app := srv.app

	resp, _ := doJSON(t, app, fiber.MethodPost, "/auth/register", `{"identity":"a@b.com","secret":"pw1"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first register: expected 201 got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/register", `{"identity":"a@b.com","secret":"pw2"}`, "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400 got %d", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("duplicate register: expected error body, got %v", body)
	}
}

func TestGuardedRoutesRejectMissingToken(t *testing.T) {
	srv := newTestServer(t, devConfig())

	resp, body := doJSON(t, srv.app, fiber.MethodGet, "/users/", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg != "not authorized" {
		t.Fatalf("expected JSON error body, got %v", body)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, devConfig())
	app := srv.app

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/register", `{"secret":"pw1"}`, "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing identity: expected 400 got %d", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("missing identity: expected error body")
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/register", `{"identity":"a@b.com"}`, "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing secret: expected 400 got %d", resp.StatusCode)
	}
}

func TestOverlongSecretRejected(t *testing.T) {
	srv := newTestServer(t, devConfig())
	app := srv.app

	// bcrypt refuses secrets beyond 72 bytes; the failure must surface as a
	// 400, not an unclassified 500
	long := strings.Repeat("x", 100)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/register",
		fmt.Sprintf(`{"identity":"a@b.com","secret":"%s"}`, long), "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("register with overlong secret: expected 400 got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg == "" || msg == "internal server error" {
		t.Fatalf("expected a hashing error message, got %v", body)
	}

	// same policy on the guarded create path
	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/register", `{"identity":"c@d.com","secret":"pw1"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: expected 201 got %d", resp.StatusCode)
	}
	tok, _ := body["token"].(string)

	resp, body = doJSON(t, app, fiber.MethodPost, "/users/",
		fmt.Sprintf(`{"identity":"e@f.com","secret":"%s"}`, long), tok)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("create with overlong secret: expected 400 got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg == "" || msg == "internal server error" {
		t.Fatalf("expected a hashing error message, got %v", body)
	}
}

func TestCookieCarrierFlow(t *testing.T) {
	cfg := devConfig()
	cfg.TokenCarrier = config.CarrierCookie
	srv := newTestServer(t, cfg)
	app := srv.app

	req := httptest.NewRequest(fiber.MethodPost, "/auth/register", strings.NewReader(`{"identity":"a@b.com","secret":"pw1"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: expected 201 got %d", resp.StatusCode)
	}

	var tokenCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == config.TokenCookieName {
			tokenCookie = ck
		}
	}
	if tokenCookie == nil {
		t.Fatalf("expected token cookie on register response")
	}
	if !tokenCookie.HttpOnly {
		t.Fatalf("token cookie must be httpOnly")
	}

	guarded := httptest.NewRequest(fiber.MethodGet, "/users/", nil)
	guarded.AddCookie(tokenCookie)
	guardedResp, err := app.Test(guarded)
	if err != nil {
		t.Fatalf("guarded list: %v", err)
	}
	guardedResp.Body.Close()
	if guardedResp.StatusCode != fiber.StatusOK {
		t.Fatalf("cookie-authenticated list: expected 200 got %d", guardedResp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, devConfig())

	resp, body := doJSON(t, srv.app, fiber.MethodGet, "/healthz", "", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: expected 200 got %d", resp.StatusCode)
	}
	if _, ok := body["status"]; !ok {
		t.Fatalf("healthz: missing status in %v", body)
	}
}
