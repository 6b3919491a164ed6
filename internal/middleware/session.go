package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/apperr"
	"github.com/okapi-id/okapi_id/internal/config"
	"github.com/okapi-id/okapi_id/internal/token"
)

// Locals keys set by the session guard for downstream handlers.
const (
	AccountIDKey = "account_id"
	IdentityKey  = "identity"
)

// Session gates protected routes behind token verification. The token is
// read from exactly one carrier, chosen by configuration; there is no
// fallback between header and cookie. The guard checks validity only, not
// ownership of the resource being acted on.
func Session(carrier string, issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string
		switch carrier {
		case config.CarrierCookie:
			tokenStr = c.Cookies(config.TokenCookieName)
		default:
			authz := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				tokenStr = strings.TrimSpace(authz[len("Bearer "):])
			}
		}

		if tokenStr == "" {
			return fiber.NewError(http.StatusUnauthorized, "not authorized")
		}

		claim, err := issuer.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, apperr.ErrTokenExpired) {
				return fiber.NewError(http.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(http.StatusForbidden, "invalid token")
		}

		c.Locals(AccountIDKey, claim.AccountID)
		c.Locals(IdentityKey, claim.Identity)
		return c.Next()
	}
}
