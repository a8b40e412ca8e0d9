package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// UserLoader resolves the sanitized user behind a verified token.
type UserLoader interface {
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// Auth verifies the access token from the accessToken cookie or a Bearer
// Authorization header, rejects revoked tokens and loads the caller.
// Revocation lookups that fail are logged and the request proceeds.
func Auth(tokens ports.TokenIssuer, revoker ports.TokenRevoker, users UserLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := AccessToken(c)
			if raw == "" {
				return domain.NewAuthError("unauthorized request")
			}

			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				return domain.NewAuthError("invalid access token").Wrap(err)
			}

			ctx := c.Request().Context()
			if revoker != nil && claims.TokenID != "" {
				revoked, err := revoker.IsRevoked(ctx, claims.TokenID)
				switch {
				case err != nil:
					log.Warn().Err(err).Str("user_id", claims.UserID).Msg("revocation check failed, allowing token")
				case revoked:
					return domain.NewAuthError("access token has been revoked")
				}
			}

			user, err := users.CurrentUser(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.NewAuthError("invalid access token").Wrap(err)
				}
				return err
			}

			c.Set(UserKey, user)
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// AccessToken returns the raw access token of the request, preferring the
// cookie over the Authorization header.
func AccessToken(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	return BearerToken(c)
}

// BearerToken returns the token of a "Bearer <token>" Authorization header.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserFrom returns the user stored by Auth.
func UserFrom(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(UserKey).(*domain.User)
	return u, ok && u != nil
}

// ClaimsFrom returns the access claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.AccessClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.AccessClaims)
	return claims, ok && claims != nil
}
