package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/videohub/account-service/internal/api/handler"
	"github.com/videohub/account-service/internal/api/middleware"
	"github.com/videohub/account-service/internal/core/ports"
)

// Dependencies is everything the router needs to build its handlers.
type Dependencies struct {
	Accounts ports.AccountService
	Auth     ports.AuthService
	Channels ports.ChannelService
	Tokens   ports.TokenIssuer
	Revoker  ports.TokenRevoker

	Uploads *handler.UploadStore
	Cookies *handler.Cookies
	Probes  map[string]handler.Probe

	CORSOrigin      string
	JSONBodyLimit   string
	UploadBodyLimit string
	StaticDir       string

	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{orDefault(deps.CORSOrigin, "*")},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(middleware.BodyLimits(orDefault(deps.JSONBodyLimit, "16K"), orDefault(deps.UploadBodyLimit, "10M")))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookies)
	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Uploads, deps.Cookies)
	channelHandler := handler.NewChannelHandler(deps.Channels)
	healthHandler := handler.NewHealthHandler(deps.Probes)

	requireAuth := middleware.Auth(deps.Tokens, deps.Revoker, deps.Accounts, deps.Log)

	// --- User routes ---
	user := e.Group("/api/v1/user")
	user.POST("/register", accountHandler.Register)
	user.POST("/login", authHandler.Login)
	user.POST("/refreshtoken", authHandler.Refresh)

	user.POST("/logout", authHandler.Logout, requireAuth)
	user.GET("/current-user", accountHandler.CurrentUser, requireAuth)
	user.POST("/change-password", accountHandler.ChangePassword, requireAuth)
	user.POST("/update-details", accountHandler.UpdateDetails, requireAuth)
	user.PATCH("/update-avatar", accountHandler.UpdateAvatar, requireAuth)
	user.PATCH("/update-coverimage", accountHandler.UpdateCoverImage, requireAuth)
	user.GET("/c/:username", channelHandler.Profile, requireAuth)
	user.GET("/watch-history", accountHandler.WatchHistory, requireAuth)
	user.POST("/delete-account", accountHandler.DeleteAccount, requireAuth)

	// --- Subscription routes ---
	subs := e.Group("/api/v1/subscriptions", requireAuth)
	subs.POST("/c/:channelId", channelHandler.ToggleSubscription)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if deps.StaticDir != "" {
		e.Static("/", deps.StaticDir)
	}

	return e
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
