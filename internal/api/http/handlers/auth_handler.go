package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/dineware-service/internal/api/dto"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/service"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// AuthHandler issues and clears the session cookie.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.CookiePolicy
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies auth.CookiePolicy) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, exp, err := h.auth.IssueSession(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, token, exp, h.cookies)
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Logout handles POST /logout. It succeeds whether or not a session exists.
// The cookie is cleared even when revocation fails.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := utils.CopyString(c.Cookies(auth.SessionCookieName))
	auth.ClearSessionCookie(c, h.cookies)
	if err := h.auth.EndSession(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
