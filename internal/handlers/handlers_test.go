package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/config"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/handlers"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/middleware"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminUser = "admin"
	adminPass = "adminpw"
)

// setupApp builds the full route table over an in-memory database with a
// bootstrap administrator.
func setupApp(t *testing.T, limiter *middleware.RateLimiter) *fiber.App {
	app, _ := setupServer(t, limiter, logging.Discard())
	return app
}

func setupServer(t *testing.T, limiter *middleware.RateLimiter, log logrus.FieldLogger) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := services.New(
		repository.NewStore(db),
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		log,
	)
	require.NoError(t, svc.Auth.EnsureAdmin(t.Context(), adminUser, adminPass))

	cfg := &config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:"}
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(log)})
	handlers.SetupRoutes(app, svc, limiter, &handlers.HealthHandler{Config: cfg, DB: db, Log: log})
	return app, db
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func do(t *testing.T, app *fiber.App, method, path, authorization string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target), string(body))
}

func TestHealth(t *testing.T) {
	app := setupApp(t, nil)

	resp := do(t, app, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result services.HealthCheckResult
	decode(t, resp, &result)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := setupApp(t, nil)

	resp := do(t, app, "POST", "/api/auth/register", "", map[string]string{"username": "alice", "password": "alicepw"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var user map[string]any
	decode(t, resp, &user)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "USER", user["role"])
	assert.NotContains(t, user, "passwordHash")

	resp = do(t, app, "POST", "/api/auth/register", "", map[string]string{"username": "alice", "password": "other"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var failure utils.ErrorResponseStruct
	decode(t, resp, &failure)
	assert.Equal(t, "Username already exists!", failure.Message)

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "alicepw"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login handlers.LoginResponse
	decode(t, resp, &login)
	assert.Equal(t, "alice", login.Principal.Username)
	require.NotNil(t, login.Token)

	resp = do(t, app, "GET", "/api/me", "Bearer "+login.Token.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, "POST", "/api/auth/register", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := setupApp(t, nil)

	resp := do(t, app, "GET", "/api/admin/clients", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, "POST", "/api/auth/register", "", map[string]string{"username": "alice", "password": "alicepw"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, app, "GET", "/api/admin/clients", basic("alice", "alicepw"), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = do(t, app, "GET", "/api/admin/clients", basic(adminUser, adminPass), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestClientProjectEmployeeRoutes(t *testing.T) {
	app := setupApp(t, nil)
	admin := basic(adminUser, adminPass)

	resp := do(t, app, "POST", "/api/admin/clients", admin, map[string]any{
		"clientName":             "Acme",
		"clientRelationshipDate": "2024-03-01",
		"contactPersons": []map[string]string{
			{"name": "Wile", "email": "wile@acme.test"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var client struct {
		ID             uint   `json:"id"`
		BusinessID     string `json:"clientId"`
		ContactPersons []any  `json:"contactPersons"`
	}
	decode(t, resp, &client)
	assert.Equal(t, "client-001", client.BusinessID)
	assert.Len(t, client.ContactPersons, 1)

	resp = do(t, app, "POST", "/api/admin/create", admin, map[string]any{
		"projectName": "Rocket",
		"startDate":   "2025-01-01",
		"endDate":     "2025-02-01",
		"client":      map[string]any{"id": fmt.Sprint(client.ID)},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var project struct {
		ID         uint   `json:"id"`
		BusinessID string `json:"projectId"`
	}
	decode(t, resp, &project)
	assert.Equal(t, "project-001", project.BusinessID)

	resp = do(t, app, "POST", "/api/admin/create", admin, map[string]any{
		"projectName": "Orphan",
		"startDate":   "2025-01-01",
		"endDate":     "2025-02-01",
		"client":      map[string]any{"id": 999},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = do(t, app, "POST", "/api/admin/employees", admin, map[string]any{
		"name":  "Road Runner",
		"email": "rr@acme.test",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var employee struct {
		ID         string `json:"id"`
		BusinessID string `json:"employeeId"`
		Projects   []struct {
			BusinessID string `json:"projectId"`
		} `json:"projects"`
	}
	decode(t, resp, &employee)
	assert.Equal(t, "JTC-001", employee.BusinessID)

	resp = do(t, app, "PUT", fmt.Sprintf("/api/admin/employees/%s/assignProject/%d", employee.ID, project.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &employee)
	require.Len(t, employee.Projects, 1)
	assert.Equal(t, "project-001", employee.Projects[0].BusinessID)

	resp = do(t, app, "PUT", fmt.Sprintf("/api/admin/employees/%s/assignProject/abc", employee.ID), admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var failure utils.ErrorResponseStruct
	decode(t, resp, &failure)
	assert.Equal(t, "invalidIdFormat", failure.Type)

	resp = do(t, app, "GET", "/api/admin/clients/abc", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, "DELETE", fmt.Sprintf("/api/admin/clients/%d", client.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var deleted utils.SuccessResponseStruct
	decode(t, resp, &deleted)
	assert.Equal(t, int64(3), deleted.AffectedRows)

	resp = do(t, app, "GET", fmt.Sprintf("/api/admin/projects/%d", project.ID), admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = do(t, app, "GET", "/api/admin/employees/"+employee.ID, admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &employee)
	assert.Empty(t, employee.Projects)

	resp = do(t, app, "DELETE", fmt.Sprintf("/api/admin/clients/%d", client.ID), admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuthRoutesRateLimited(t *testing.T) {
	app := setupApp(t, middleware.NewRateLimiter(0.001, 1, logging.Discard()))

	resp := do(t, app, "POST", "/api/auth/login", "", map[string]string{"username": adminUser, "password": adminPass})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{"username": adminUser, "password": adminPass})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestStoreFailureIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	app, db := setupServer(t, nil, log)
	require.NoError(t, db.Migrator().DropTable(&models.ContactPerson{}, &models.Client{}))
	hook.Reset()

	resp := do(t, app, "GET", "/api/admin/clients", basic(adminUser, adminPass), nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var failure utils.ErrorResponseStruct
	decode(t, resp, &failure)
	assert.Equal(t, "Internal Server Error", failure.Message)
	assert.Equal(t, "internal", failure.Type)

	var logged *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			logged = entry
		}
	}
	require.NotNil(t, logged, "store failure was not logged")
	assert.Equal(t, "request failed", logged.Message)
	assert.Equal(t, "/api/admin/clients", logged.Data["url"])
	assert.ErrorContains(t, logged.Data[logrus.ErrorKey].(error), "store:")
}

func TestDomainErrorsNotLoggedAsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	app, _ := setupServer(t, nil, log)
	hook.Reset()

	resp := do(t, app, "GET", "/api/admin/clients/42", basic(adminUser, adminPass), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, entry.Level, entry.Message)
	}
}
