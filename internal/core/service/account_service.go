package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/videohub/account-service/internal/api/metrics"
	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

var errEmptyMediaURL = errors.New("media host returned no url")

const msgPasswordTooLong = "password must not exceed 72 bytes"

// StaleMediaQueue receives media URLs that are no longer referenced and should
// be removed from the media host in the background.
type StaleMediaQueue interface {
	Enqueue(url string)
}

// AccountService implements registration and profile maintenance.
type AccountService struct {
	users    ports.UserRepository
	subs     ports.SubscriptionRepository
	media    ports.MediaUploader
	revoker  ports.TokenRevoker
	stale    StaleMediaQueue
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	subs ports.SubscriptionRepository,
	media ports.MediaUploader,
	revoker ports.TokenRevoker,
	stale StaleMediaQueue,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		subs:     subs,
		media:    media,
		revoker:  revoker,
		stale:    stale,
		validate: validator.New(),
		log:      log,
	}
}

// Register validates the form, uploads both images and creates the user.
// Checks run in a fixed order: presence, email format, password length,
// uniqueness, media presence, upload, create. Every exit path removes the
// temporary files, and media stored before a failure is queued for deletion.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.register(ctx, in)
	metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	return user, err
}

func (s *AccountService) register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewValidationError("required information is missing", "Bad Request")
	}

	if !s.validEmail(email) {
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewValidationError("email is invalid", "Bad Request")
	}

	if domain.PasswordTooLong(in.Password) {
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewValidationError(msgPasswordTooLong, "Bad Request")
	}

	username = strings.ToLower(username)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil && existing != nil:
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewConflictError("user with the provided email or username already exists", "Conflict")
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewInternalError("something went wrong while registering the user").Wrap(err)
	}

	if in.AvatarPath == "" || in.CoverImagePath == "" {
		s.discard(in.AvatarPath, in.CoverImagePath)
		return nil, domain.NewValidationError("avatar or cover image is missing", "Bad Request")
	}

	avatar, cover, err := s.uploadPair(ctx, in.AvatarPath, in.CoverImagePath)
	s.discard(in.AvatarPath, in.CoverImagePath)
	if err != nil {
		s.enqueueStale(avatar.URL, cover.URL)
		return nil, domain.NewInternalError("something went wrong while uploading media", "Server Problem").Wrap(err)
	}

	id, err := s.users.Create(ctx, &domain.NewUser{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   in.Password,
		Avatar:     avatar.URL,
		CoverImage: cover.URL,
	})
	if err != nil {
		s.enqueueStale(avatar.URL, cover.URL)
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewConflictError("user with the provided email or username already exists", "Conflict")
		}
		return nil, domain.NewInternalError("something went wrong while registering the user").Wrap(err)
	}

	created, err := s.users.FindProfileByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("something went wrong while registering the user").Wrap(err)
	}

	s.log.Info().Str("user_id", id).Str("username", username).Msg("user registered")
	return created.Sanitized(), nil
}

// uploadPair sends both files to the media host concurrently. On error the
// returned media hold whichever upload succeeded; the other is empty.
func (s *AccountService) uploadPair(ctx context.Context, avatarPath, coverPath string) (domain.Media, domain.Media, error) {
	var avatar, cover domain.Media

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.upload(gctx, avatarPath)
		if err != nil {
			return err
		}
		avatar = *m
		return nil
	})
	g.Go(func() error {
		m, err := s.upload(gctx, coverPath)
		if err != nil {
			return err
		}
		cover = *m
		return nil
	})
	err := g.Wait()
	return avatar, cover, err
}

func (s *AccountService) upload(ctx context.Context, path string) (*domain.Media, error) {
	m, err := s.media.Upload(ctx, path)
	if err != nil {
		return nil, err
	}
	if m == nil || m.URL == "" {
		return nil, errEmptyMediaURL
	}
	return m, nil
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user.Sanitized(), nil
}

// ChangePassword verifies oldPassword before storing newPassword.
func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.NewValidationError("old and new password are required")
	}
	if domain.PasswordTooLong(newPassword) {
		return domain.NewValidationError(msgPasswordTooLong)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	if !user.PasswordMatches(oldPassword) {
		return domain.NewAuthError("old password is incorrect")
	}

	if err := s.users.UpdatePassword(ctx, userID, newPassword); err != nil {
		return domain.NewInternalError("something went wrong while changing the password").Wrap(err)
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AccountService) UpdateDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, domain.NewValidationError("full name and email are required")
	}
	if !s.validEmail(email) {
		return nil, domain.NewValidationError("email is invalid")
	}

	user, err := s.users.UpdateDetails(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewConflictError("email is already in use")
		}
		return nil, userLookupError(err)
	}
	return user.Sanitized(), nil
}

// UpdateMedia replaces the avatar or cover image with the file at path. The
// temporary file is removed on every exit path and the previous image is
// queued for deletion from the media host.
func (s *AccountService) UpdateMedia(ctx context.Context, userID string, field domain.MediaField, path string) (*domain.User, error) {
	defer s.discard(path)

	label := mediaLabel(field)
	if path == "" {
		return nil, domain.NewValidationError(label + " file is missing")
	}

	current, err := s.users.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}

	m, err := s.upload(ctx, path)
	if err != nil {
		return nil, domain.NewInternalError("error while uploading " + label + " file").Wrap(err)
	}

	updated, err := s.users.UpdateMedia(ctx, userID, field, m.URL)
	if err != nil {
		return nil, userLookupError(err)
	}

	previous := current.Avatar
	if field == domain.MediaCoverImage {
		previous = current.CoverImage
	}
	if previous != "" && previous != m.URL {
		s.enqueueStale(previous)
	}

	return updated.Sanitized(), nil
}

func (s *AccountService) WatchHistory(ctx context.Context, userID string) ([]domain.Video, error) {
	videos, err := s.users.WatchHistory(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}

// DeleteAccount removes the user and its subscriptions, revokes the access
// token used for the request and queues the user's media for deletion.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string, access *domain.AccessClaims) error {
	user, err := s.users.FindProfileByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	if err := s.subs.DeleteForUser(ctx, userID); err != nil {
		return domain.NewInternalError("something went wrong while deleting the account").Wrap(err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return userLookupError(err)
	}

	revokeAccess(ctx, s.revoker, access, s.log)
	s.enqueueStale(user.Avatar, user.CoverImage)

	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func (s *AccountService) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

func (s *AccountService) enqueueStale(urls ...string) {
	if s.stale == nil {
		return
	}
	for _, url := range urls {
		if url != "" {
			s.stale.Enqueue(url)
		}
	}
}

// discard removes local temporary files. Missing files are not an error.
func (s *AccountService) discard(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", p).Msg("failed to remove temporary upload")
		}
	}
}

func mediaLabel(field domain.MediaField) string {
	if field == domain.MediaCoverImage {
		return "cover image"
	}
	return "avatar"
}

// userLookupError translates repository errors for a user that the caller
// expects to exist.
func userLookupError(err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewNotFoundError("user not found").Wrap(err)
	}
	return domain.NewInternalError("something went wrong").Wrap(err)
}

// revokeAccess is best effort: a revocation failure is logged and ignored.
func revokeAccess(ctx context.Context, revoker ports.TokenRevoker, access *domain.AccessClaims, log zerolog.Logger) {
	if revoker == nil || access == nil || access.TokenID == "" {
		return
	}
	ttl := time.Until(access.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := revoker.Revoke(ctx, access.TokenID, ttl); err != nil {
		log.Warn().Err(err).Str("user_id", access.UserID).Msg("failed to revoke access token")
	}
}
