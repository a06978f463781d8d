package middleware_test

import (
	"encoding/base64"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/middleware"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newGate(t *testing.T) *services.AuthGate {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	gate := services.NewAuthGate(
		repository.NewStore(db),
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		logging.Discard(),
	)
	ctx := t.Context()
	_, err = gate.Register(ctx, services.RegisterInput{Username: "admin", Password: "adminpw", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = gate.Register(ctx, services.RegisterInput{Username: "alice", Password: "alicepw"})
	require.NoError(t, err)
	return gate
}

func newAuthApp(gate *services.AuthGate) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logging.Discard())})
	whoami := func(c *fiber.Ctx) error {
		return c.SendString(middleware.Principal(c).Username)
	}
	app.Get("/me", middleware.Authenticate(gate), middleware.RequireAuthenticated(gate), whoami)
	app.Get("/admin", middleware.Authenticate(gate), middleware.RequireRole(gate, models.RoleAdmin), whoami)
	return app
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestBasicAuthentication(t *testing.T) {
	app := newAuthApp(newGate(t))

	status, body := get(t, app, "/me", basic("alice", "alicepw"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body)

	status, _ = get(t, app, "/me", basic("alice", "wrong"))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", "Basic !!!notbase64")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", "Digest abc")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoleEnforcement(t *testing.T) {
	app := newAuthApp(newGate(t))

	status, body := get(t, app, "/admin", basic("admin", "adminpw"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body)

	status, body = get(t, app, "/admin", basic("alice", "alicepw"))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Contains(t, body, "forbidden")
}

func TestBearerAuthentication(t *testing.T) {
	gate := newGate(t)
	app := newAuthApp(gate)

	principal, err := gate.Login(t.Context(), "admin", "adminpw")
	require.NoError(t, err)
	token, err := gate.IssueToken(principal)
	require.NoError(t, err)

	status, body := get(t, app, "/admin", "Bearer "+token.AccessToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body)

	status, _ = get(t, app, "/admin", "Bearer not.a.token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 2, logging.Discard())
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logging.Discard())})
	app.Get("/limited", limiter.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		status, _ := get(t, app, "/limited", "")
		assert.Equal(t, fiber.StatusNoContent, status)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))

	limiter.Cleanup(0)
	status, _ := get(t, app, "/limited", "")
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestRequestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(middleware.HeaderRequestID))
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "1.0.0", string(body))

	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.HeaderRequestID, id)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get(middleware.HeaderRequestID))
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "1.0.0", string(body))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(middleware.HeaderRequestID))
}
