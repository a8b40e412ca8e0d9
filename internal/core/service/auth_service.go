package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/videohub/account-service/internal/api/metrics"
	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

const (
	msgInvalidCredentials = "invalid user credentials"
	msgRefreshReused      = "refresh token is expired or already used"
)

// AuthService implements login, logout and refresh-token rotation.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenIssuer
	revoker ports.TokenRevoker
	log     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, revoker ports.TokenRevoker, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, log: log}
}

// Login accepts either the email or the username as identifier. An unknown
// identifier and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.Session, error) {
	session, err := s.login(ctx, identifier, password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	return session, err
}

func (s *AuthService) login(ctx context.Context, identifier, password string) (*ports.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.NewValidationError("username or email and password are required")
	}

	identifier = strings.ToLower(identifier)
	user, err := s.users.FindByEmailOrUsername(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewAuthError(msgInvalidCredentials)
		}
		return nil, domain.NewInternalError("something went wrong while logging in").Wrap(err)
	}

	if !user.PasswordMatches(password) {
		return nil, domain.NewAuthError(msgInvalidCredentials)
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.FindProfileByID(ctx, user.ID)
	if err != nil {
		return nil, userLookupError(err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.Session{User: profile.Sanitized(), Tokens: pair}, nil
}

// Logout drops the stored refresh token and revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, userID string, access *domain.AccessClaims) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewInternalError("something went wrong while logging out").Wrap(err)
	}

	revokeAccess(ctx, s.revoker, access, s.log)

	s.log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// equal the one stored on the user, and the swap is conditional on it still
// being stored, so each refresh token is accepted at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	session, err := s.refresh(ctx, refreshToken)
	metrics.AuthAttemptsTotal.WithLabelValues("refresh", metrics.Result(err)).Inc()
	return session, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	if refreshToken == "" {
		return nil, domain.NewAuthError("unauthorized request")
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.NewAuthError("invalid refresh token").Wrap(err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewAuthError("invalid refresh token").Wrap(err)
		}
		return nil, domain.NewInternalError("something went wrong while refreshing tokens").Wrap(err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, domain.NewAuthError(msgRefreshReused)
	}

	pair, err := s.tokens.Rotate(ctx, user, refreshToken)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("refresh token rotated")
	return &ports.Session{User: user.Sanitized(), Tokens: pair}, nil
}
