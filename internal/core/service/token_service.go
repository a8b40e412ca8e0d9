package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 10 * 24 * time.Hour
)

var errInvalidToken = errors.New("invalid token")

// TokenConfig holds the signing secrets and lifetimes of both credentials.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type accessClaims struct {
	UserID   string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenService implements ports.TokenIssuer with HS256 JWTs.
type TokenService struct {
	repo ports.UserRepository
	cfg  TokenConfig
	now  func() time.Time
}

func NewTokenService(repo ports.UserRepository, cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.cfg.AccessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// Issue signs a pair for userID and persists the refresh token on the user.
func (s *TokenService) Issue(ctx context.Context, userID string) (*domain.TokenPair, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("user not found").Wrap(err)
		}
		return nil, domain.NewInternalError("something went wrong while generating tokens").Wrap(err)
	}

	pair, err := s.sign(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("user not found").Wrap(err)
		}
		return nil, domain.NewInternalError("something went wrong while generating tokens").Wrap(err)
	}
	return pair, nil
}

// Rotate signs a pair for user and swaps the stored refresh token in a single
// conditional write, so a refresh token can be exchanged at most once.
func (s *TokenService) Rotate(ctx context.Context, user *domain.User, presented string) (*domain.TokenPair, error) {
	pair, err := s.sign(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.repo.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, domain.NewInternalError("something went wrong while generating tokens").Wrap(err)
	}
	if !swapped {
		return nil, domain.NewAuthError("refresh token is expired or already used")
	}
	return pair, nil
}

func (s *TokenService) sign(user *domain.User) (*domain.TokenPair, error) {
	now := s.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	})
	accessToken, err := access.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return nil, domain.NewInternalError("something went wrong while generating tokens").Wrap(err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
		},
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, domain.NewInternalError("something went wrong while generating tokens").Wrap(err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess checks signature and expiry against the access secret.
func (s *TokenService) VerifyAccess(token string) (*domain.AccessClaims, error) {
	claims := &accessClaims{}
	if err := s.parse(token, s.cfg.AccessSecret, claims); err != nil {
		return nil, err
	}
	return &domain.AccessClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		FullName:  claims.FullName,
		TokenID:   claims.ID,
		ExpiresAt: expiry(claims.ExpiresAt),
	}, nil
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (s *TokenService) VerifyRefresh(token string) (*domain.RefreshClaims, error) {
	claims := &refreshClaims{}
	if err := s.parse(token, s.cfg.RefreshSecret, claims); err != nil {
		return nil, err
	}
	return &domain.RefreshClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: expiry(claims.ExpiresAt),
	}, nil
}

func (s *TokenService) parse(token, secret string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.NewAuthError("token expired").Wrap(err)
		}
		return domain.NewAuthError("invalid token").Wrap(err)
	}
	if !tkn.Valid {
		return domain.NewAuthError("invalid token").Wrap(fmt.Errorf("%w: not valid", errInvalidToken))
	}
	return nil
}

func expiry(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
