package auth

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// Authorize allows access only when the caller is the requested identity.
// A valid session never grants access to another user's resources.
func Authorize(caller Identity, requestedEmail string) error {
	if caller.Email == "" {
		return apperrors.NewUnauthorized("unauthorized access")
	}
	if caller.Email != requestedEmail {
		return apperrors.NewForbidden("forbidden access")
	}
	return nil
}

// RequireOwner applies Authorize to the named route parameter.
// It must run after AuthMiddleware.Handle.
func RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("unauthorized access")
		}
		if err := Authorize(identity, RouteParam(c, param)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RouteParam returns a path parameter with percent-escapes decoded.
func RouteParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
