package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/api/middleware"
	"github.com/videohub/account-service/internal/core/domain"
)

// currentUser returns the caller resolved by the Auth middleware. A missing
// user means the route was registered without the middleware.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return nil, domain.NewAuthError("unauthorized request")
	}
	return user, nil
}

// currentClaims returns the verified access claims, or nil when absent.
func currentClaims(c echo.Context) *domain.AccessClaims {
	claims, _ := middleware.ClaimsFrom(c)
	return claims
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid request payload").Wrap(err)
	}
	return c.Validate(req)
}
