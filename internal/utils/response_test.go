package utils_test

import (
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/localnerve/clientsdb/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, utils.StatusOf(types.CategoryNotFound))
	assert.Equal(t, fiber.StatusConflict, utils.StatusOf(types.CategoryConflict))
	assert.Equal(t, fiber.StatusBadRequest, utils.StatusOf(types.CategoryBadRequest))
	assert.Equal(t, fiber.StatusUnauthorized, utils.StatusOf(types.CategoryUnauthorized))
	assert.Equal(t, fiber.StatusForbidden, utils.StatusOf(types.CategoryForbidden))
	assert.Equal(t, fiber.StatusInternalServerError, utils.StatusOf(types.CategoryInternal))
}

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logging.Discard())})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{"not found", types.NotFound("Client", 3), 404, "notFound", "Client not found with id: 3"},
		{"client not found", types.ClientNotFound(5), 404, "clientNotFound", "Client not found with id: 5"},
		{"duplicate username", types.ErrDuplicateUsername, 409, "duplicateUsername", "Username already exists!"},
		{"validation", types.Validation("bad"), 400, "validation", "bad"},
		{"forbidden", types.Forbidden("no"), 403, "forbidden", "no"},
		{"custom", &types.CustomError{Code: 429, Message: "slow down", Type: "rateLimited"}, 429, "rateLimited", "slow down"},
		{"fiber", fiber.ErrMethodNotAllowed, 405, "http", "Method Not Allowed"},
		{"plain", errors.New("connection reset"), 500, "internal", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newErrorApp(tt.err).Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body utils.ErrorResponseStruct
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.False(t, body.Ok)
			assert.Equal(t, "/fail", body.URL)
		})
	}
}

func TestInvalidCredentialsChallenge(t *testing.T) {
	resp, err := newErrorApp(types.ErrInvalidCredentials).Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="clientsdb"`, resp.Header.Get(fiber.HeaderWWWAuthenticate))
}

func TestMutationSuccessResponse(t *testing.T) {
	app := fiber.New()
	app.Delete("/thing", func(c *fiber.Ctx) error {
		return utils.MutationSuccessResponse(c, 3, fiber.Map{"projects": 2})
	})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/thing", nil))
	require.NoError(t, err)
	var body utils.SuccessResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Ok)
	assert.Equal(t, int64(3), body.AffectedRows)
	assert.Equal(t, map[string]any{"projects": float64(2)}, body.Details)
}

func TestPing(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	assert.NoError(t, utils.PingDatabaseHost(host, port))
	assert.NoError(t, utils.PingService("mysql://"+ln.Addr().String()+"/db", time.Second))
	assert.Error(t, utils.PingService("://bad", time.Second))

	ln.Close()
	assert.Error(t, utils.PingDatabaseHost(host, port))
}
