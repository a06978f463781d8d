package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/types"
)

const principalKey = "principal"

// Authenticate resolves the Authorization header into a principal and
// stores it in the request locals. Basic credentials are verified against
// the stored digest on every request; Bearer tokens are accepted when
// token signing is enabled.
func Authenticate(gate *services.AuthGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, credentials, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found {
			return types.ErrInvalidCredentials
		}
		credentials = strings.TrimSpace(credentials)

		var (
			principal *auth.Principal
			err       error
		)
		switch strings.ToLower(scheme) {
		case "basic":
			username, password, ok := parseBasic(credentials)
			if !ok {
				return types.ErrInvalidCredentials
			}
			principal, err = gate.Login(c.UserContext(), username, password)
		case "bearer":
			principal, err = gate.ResolveToken(c.UserContext(), credentials)
		default:
			return types.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAuthenticated passes any authenticated request.
func RequireAuthenticated(gate *services.AuthGate) fiber.Handler {
	return require(gate, services.RequireAuthenticated)
}

// RequireRole passes requests whose principal carries role.
func RequireRole(gate *services.AuthGate, role models.Role) fiber.Handler {
	return require(gate, services.RequireRole(role))
}

func require(gate *services.AuthGate, req services.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := gate.Authorize(Principal(c), req); err != nil {
			return err
		}
		return c.Next()
	}
}

// Principal returns the authenticated principal of the request, or nil.
func Principal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(principalKey).(*auth.Principal)
	return p
}

func parseBasic(credentials string) (string, string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return "", "", false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return "", "", false
	}
	return username, password, true
}
