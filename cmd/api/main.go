// Package main is the entry point for the account service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/videohub/account-service/docs"
	"github.com/videohub/account-service/internal/api"
	"github.com/videohub/account-service/internal/api/handler"
	"github.com/videohub/account-service/internal/core/service"
	"github.com/videohub/account-service/internal/infrastructure/config"
	mongodb "github.com/videohub/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/videohub/account-service/internal/infrastructure/db/redis"
	"github.com/videohub/account-service/internal/infrastructure/media"
	"github.com/videohub/account-service/internal/infrastructure/queue"
	"github.com/videohub/account-service/pkg/logger"
)

const serviceName = "account-service"

// @title VideoHub Account Service API
// @version 1.0
// @description User accounts, sessions and channel subscriptions for the video platform.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("account service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	subs := mongodb.NewSubscriptionRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, subs); err != nil {
		return err
	}
	revoker := redisdb.NewRevocationStore(rdb)

	// --- Media host and cleanup pool ---
	mediaCfg := media.Config{
		Bucket:    cfg.Media.Bucket,
		Region:    cfg.Media.Region,
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		PublicURL: cfg.Media.PublicURL,
	}
	s3Client, err := media.NewS3Client(ctx, mediaCfg)
	if err != nil {
		return err
	}
	uploader := media.NewUploader(s3Client, mediaCfg)

	cleanup := queue.NewDispatcher(cfg.Media.CleanupWorkers, uploader, logger.Component("media-cleanup"))
	poolCtx, stopPool := context.WithCancel(context.Background())
	cleanup.Start(poolCtx)
	defer func() {
		cleanup.Stop()
		stopPool()
	}()

	// --- Services ---
	tokens := service.NewTokenService(users, service.TokenConfig{
		AccessSecret:  cfg.Tokens.AccessSecret,
		AccessTTL:     cfg.Tokens.AccessExpiry,
		RefreshSecret: cfg.Tokens.RefreshSecret,
		RefreshTTL:    cfg.Tokens.RefreshExpiry,
	})
	accounts := service.NewAccountService(users, subs, uploader, revoker, cleanup, logger.Component("accounts"))
	auth := service.NewAuthService(users, tokens, revoker, logger.Component("auth"))
	channels := service.NewChannelService(users, subs, logger.Component("channels"))

	// --- HTTP ---
	uploads, err := handler.NewUploadStore(cfg.HTTP.UploadTempDir)
	if err != nil {
		return err
	}
	cookies := handler.NewCookies(handler.CookieConfig{
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
	}, tokens.AccessTTL(), tokens.RefreshTTL())

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Auth:     auth,
		Channels: channels,
		Tokens:   tokens,
		Revoker:  revoker,
		Uploads:  uploads,
		Cookies:  cookies,
		Probes: map[string]handler.Probe{
			"mongodb": mongodb.NewPinger(mongoClient),
			"redis":   redisdb.NewPinger(rdb),
		},
		CORSOrigin:      cfg.CORSOrigin,
		JSONBodyLimit:   cfg.HTTP.JSONBodyLimit,
		UploadBodyLimit: cfg.HTTP.UploadBodyLimit,
		StaticDir:       cfg.HTTP.StaticDir,
		Log:             logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting account service")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("http server stopped")
	return nil
}
