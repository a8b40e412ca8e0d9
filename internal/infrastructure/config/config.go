package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envDevelopment = "development"

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigin is the single origin allowed to make credentialed requests.
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`

	HTTP   HTTPConfig
	Tokens TokenConfig
	Cookie CookieConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Media  MediaConfig
}

type HTTPConfig struct {
	JSONBodyLimit   string        `env:"JSON_BODY_LIMIT,   default=16K"`
	UploadBodyLimit string        `env:"UPLOAD_BODY_LIMIT, default=10M"`
	UploadTempDir   string        `env:"UPLOAD_TEMP_DIR,   default=./public/temp"`
	StaticDir       string        `env:"STATIC_DIR,        default=./public"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,  default=15s"`
}

type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY,  default=24h"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY, default=240h"`
}

type CookieConfig struct {
	Secure   bool   `env:"COOKIE_SECURE,   default=true"`
	SameSite string `env:"COOKIE_SAMESITE, default=lax"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Path     string `env:"COOKIE_PATH,     default=/"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=videohub"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MediaConfig struct {
	Bucket         string `env:"MEDIA_BUCKET,     default=videohub-media"`
	Region         string `env:"MEDIA_REGION,     default=us-east-1"`
	Endpoint       string `env:"MEDIA_ENDPOINT"`
	AccessKey      string `env:"MEDIA_ACCESS_KEY"`
	SecretKey      string `env:"MEDIA_SECRET_KEY"`
	PublicURL      string `env:"MEDIA_PUBLIC_URL"`
	CleanupWorkers int    `env:"MEDIA_CLEANUP_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool { return c.Env == envDevelopment }

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Tokens.AccessSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.Tokens.RefreshSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.Tokens.AccessSecret != "" && c.Tokens.AccessSecret == c.Tokens.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Tokens.AccessExpiry <= 0 || c.Tokens.RefreshExpiry <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	}
	switch c.Cookie.SameSite {
	case "lax", "strict", "none":
	default:
		errs = append(errs, fmt.Errorf("COOKIE_SAMESITE must be lax, strict or none, got %q", c.Cookie.SameSite))
	}
	return errors.Join(errs...)
}
