package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/api/middleware"
	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     *Cookies
}

func NewAuthHandler(authService ports.AuthService, cookies *Cookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// loginRequest accepts the identifier under either key.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type sessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Login authenticates by username or email and starts a session.
//
// @Summary      Login
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Username or email, and password"
// @Success      200   {object}  apiResponse{data=sessionResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/v1/user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request payload").Wrap(err)
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		return domain.NewValidationError("username or email is required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Tokens)
	return respond(c, http.StatusOK, sessionResponse{
		User:         session.User,
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout ends the caller's session and clears both cookies.
//
// @Summary      Logout
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user.ID, currentClaims(c)); err != nil {
		return err
	}

	h.cookies.Clear(c)
	return respond(c, http.StatusOK, nil, "User logged out")
}

// Refresh rotates the session from a refresh token read from the refreshToken
// cookie, a Bearer Authorization header or the request body, in that order.
//
// @Summary      Refresh access token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token for non-cookie clients"
// @Success      200   {object}  apiResponse{data=sessionResponse}
// @Failure      401   {object}  ErrorResponse
// @Router       /api/v1/user/refreshtoken [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := refreshTokenFrom(c)

	session, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Tokens)
	return respond(c, http.StatusOK, sessionResponse{
		User:         session.User,
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}, "Access token refreshed")
}

func refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(RefreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if token := middleware.BearerToken(c); token != "" {
		return token
	}
	var req refreshRequest
	if err := c.Bind(&req); err == nil {
		return strings.TrimSpace(req.RefreshToken)
	}
	return ""
}
