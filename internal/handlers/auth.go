package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/middleware"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
)

// AuthHandler handles registration, login and the current principal
type AuthHandler struct {
	Gate *services.AuthGate
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Principal *auth.Principal `json:"principal"`
	Token     *services.Token `json:"token,omitempty"`
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create a user account. Role defaults to USER.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	user, err := h.Gate.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials. A bearer token is included when token signing is enabled.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginInput true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	principal, err := h.Gate.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return err
	}

	resp := LoginResponse{Principal: principal}
	if h.Gate.TokensEnabled() {
		if resp.Token, err = h.Gate.IssueToken(principal); err != nil {
			return err
		}
	}

	return utils.SuccessResponse(c, resp, fiber.StatusOK)
}

// Me handles GET /api/me
// @Summary Current principal
// @Description Returns the authenticated principal and its stored account
// @Tags Auth
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	user, err := h.Gate.FindByUsername(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}
