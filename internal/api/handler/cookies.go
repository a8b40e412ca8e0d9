package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/api/middleware"
	"github.com/videohub/account-service/internal/core/domain"
)

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// CookieConfig holds the flags applied to both session cookies.
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
	Path     string
}

// Cookies writes and clears the session cookies. Cookie lifetimes follow the
// token lifetimes.
type Cookies struct {
	cfg        CookieConfig
	sameSite   http.SameSite
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookies(cfg CookieConfig, accessTTL, refreshTTL time.Duration) *Cookies {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &Cookies{
		cfg:        cfg,
		sameSite:   parseSameSite(cfg.SameSite),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Set writes both tokens as http-only cookies.
func (k *Cookies) Set(c echo.Context, pair *domain.TokenPair) {
	c.SetCookie(k.cookie(middleware.AccessCookie, pair.AccessToken, k.accessTTL))
	c.SetCookie(k.cookie(RefreshCookie, pair.RefreshToken, k.refreshTTL))
}

// Clear expires both cookies with the same flags they were set with.
func (k *Cookies) Clear(c echo.Context) {
	for _, name := range []string{middleware.AccessCookie, RefreshCookie} {
		ck := k.cookie(name, "", 0)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.SetCookie(ck)
	}
}

func (k *Cookies) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     k.cfg.Path,
		Domain:   k.cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   k.cfg.Secure,
		SameSite: k.sameSite,
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
