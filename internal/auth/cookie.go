package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the session JWT.
const SessionCookieName = "token"

// CookiePolicy defines how session cookies are issued.
type CookiePolicy struct {
	Secure   bool
	SameSite string
}

// CookiePolicyFor returns the cookie attributes for the deployment mode.
// Production clients live on another origin and need SameSite=None over TLS;
// local development keeps the cookie first-party only.
func CookiePolicyFor(production bool) CookiePolicy {
	if production {
		return CookiePolicy{Secure: true, SameSite: fiber.CookieSameSiteNoneMode}
	}
	return CookiePolicy{Secure: false, SameSite: fiber.CookieSameSiteStrictMode}
}

// SetSessionCookie issues the session cookie to the client.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, policy CookiePolicy) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   policy.Secure,
		SameSite: policy.SameSite,
	})
}

// ClearSessionCookie expires the session cookie on the client.
// The attributes must match the issuing ones or browsers keep the old cookie.
func ClearSessionCookie(c *fiber.Ctx, policy CookiePolicy) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   policy.Secure,
		SameSite: policy.SameSite,
	})
}
