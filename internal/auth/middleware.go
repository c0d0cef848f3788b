package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

const identityKey = "auth_identity"

// Identity represents the authenticated caller for a single request.
type Identity struct {
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// AuthMiddleware validates the session cookie and loads the caller identity.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations RevocationStore
}

// NewAuthMiddleware constructs middleware. A nil store disables revocation checks.
func NewAuthMiddleware(tokens *TokenManager, revocations RevocationStore) *AuthMiddleware {
	if revocations == nil {
		revocations = NoopRevocationStore{}
	}
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Handle enforces authentication for protected routes.
// Every failure returns before c.Next, so the protected handler never runs.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		return apperrors.NewUnauthorized("unauthorized access")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("unauthorized access")
	}

	revoked, err := m.revocations.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("unauthorized access")
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok || identity.Email == "" {
		return Identity{}, false
	}
	return identity, true
}
