package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	history   map[string][]domain.Video
	seq       int
	findErr   error // if set, every lookup returns this error
	createErr error // if set, Create returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:   make(map[string]*domain.User),
		history: make(map[string][]domain.Video),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.WatchHistory = append([]string(nil), u.WatchHistory...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, in *domain.NewUser) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	for _, u := range r.users {
		if u.Username == in.Username || u.Email == in.Email {
			return "", domain.ErrUserExists
		}
	}
	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	r.seq++
	id := fmt.Sprintf("user-%d", r.seq)
	now := time.Now().UTC()
	r.users[id] = &domain.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return id, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindProfileByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u, nil
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) mutate(id string, fn func(u *domain.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := fn(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(u *domain.User) error {
		u.RefreshToken = token
		return nil
	})
}

func (r *stubUserRepo) RotateRefreshToken(_ context.Context, id, current, next string) (bool, error) {
	swapped := false
	err := r.mutate(id, func(u *domain.User) error {
		if u.RefreshToken == current {
			u.RefreshToken = next
			swapped = true
		}
		return nil
	})
	return swapped, err
}

func (r *stubUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) error {
		u.RefreshToken = ""
		return nil
	})
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, password string) error {
	hash, err := domain.HashPassword(password)
	if err != nil {
		return err
	}
	return r.mutate(id, func(u *domain.User) error {
		u.PasswordHash = hash
		return nil
	})
}

func (r *stubUserRepo) UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	r.mu.Lock()
	for otherID, u := range r.users {
		if otherID != id && u.Email == email {
			r.mu.Unlock()
			return nil, domain.ErrUserExists
		}
	}
	r.mu.Unlock()
	err := r.mutate(id, func(u *domain.User) error {
		u.FullName = fullName
		u.Email = email
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindProfileByID(ctx, id)
}

func (r *stubUserRepo) UpdateMedia(ctx context.Context, id string, field domain.MediaField, url string) (*domain.User, error) {
	err := r.mutate(id, func(u *domain.User) error {
		if field == domain.MediaCoverImage {
			u.CoverImage = url
		} else {
			u.Avatar = url
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindProfileByID(ctx, id)
}

func (r *stubUserRepo) WatchHistory(_ context.Context, id string) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.history[id], nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// seed stores a user with the given plaintext password and returns its id.
func (r *stubUserRepo) seed(t *testing.T, username, email, password string) string {
	t.Helper()
	id, err := r.Create(context.Background(), &domain.NewUser{
		Username:   username,
		Email:      email,
		FullName:   username + " full",
		Password:   password,
		Avatar:     "https://media.test/" + username + "-avatar.png",
		CoverImage: "https://media.test/" + username + "-cover.png",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return id
}

type stubSubsRepo struct {
	users     *stubUserRepo
	pairs     map[[2]string]bool // {subscriber, channel}
	deleteErr error
}

func newStubSubsRepo(users *stubUserRepo) *stubSubsRepo {
	return &stubSubsRepo{users: users, pairs: make(map[[2]string]bool)}
}

func (r *stubSubsRepo) ChannelProfile(_ context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	r.users.mu.Lock()
	var channel *domain.User
	for _, u := range r.users.users {
		if u.Username == username {
			channel = cloneUser(u)
		}
	}
	r.users.mu.Unlock()
	if channel == nil {
		return nil, domain.ErrChannelNotFound
	}

	p := &domain.ChannelProfile{
		ID:         channel.ID,
		FullName:   channel.FullName,
		Username:   channel.Username,
		Email:      channel.Email,
		Avatar:     channel.Avatar,
		CoverImage: channel.CoverImage,
	}
	for pair := range r.pairs {
		if pair[1] == channel.ID {
			p.SubscribersCount++
			if pair[0] == viewerID {
				p.IsSubscribed = true
			}
		}
		if pair[0] == channel.ID {
			p.ChannelsSubscribedToCount++
		}
	}
	return p, nil
}

func (r *stubSubsRepo) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := [2]string{subscriberID, channelID}
	if r.pairs[key] {
		delete(r.pairs, key)
		return false, nil
	}
	r.pairs[key] = true
	return true, nil
}

func (r *stubSubsRepo) DeleteForUser(_ context.Context, userID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for pair := range r.pairs {
		if pair[0] == userID || pair[1] == userID {
			delete(r.pairs, pair)
		}
	}
	return nil
}

type stubUploader struct {
	mu        sync.Mutex
	uploaded  []string // local paths, in call order
	existed   []bool   // whether the local file existed at upload time
	err       error
	failFor   string // base name of the one file whose upload fails
	emptyURL  bool
	deleted   []string
	deleteErr error
}

func (u *stubUploader) Upload(_ context.Context, path string) (*domain.Media, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, statErr := os.Stat(path)
	u.uploaded = append(u.uploaded, path)
	u.existed = append(u.existed, statErr == nil)
	if u.err != nil {
		return nil, u.err
	}
	if u.failFor != "" && filepath.Base(path) == u.failFor {
		return nil, errors.New("upload rejected")
	}
	if u.emptyURL {
		return &domain.Media{}, nil
	}
	return &domain.Media{
		URL: fmt.Sprintf("https://media.test/%d-%s", len(u.uploaded), filepath.Base(path)),
		Key: filepath.Base(path),
	}, nil
}

func (u *stubUploader) Delete(_ context.Context, url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, url)
	return u.deleteErr
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type stubStaleQueue struct {
	urls []string
}

func (q *stubStaleQueue) Enqueue(url string) { q.urls = append(q.urls, url) }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type accountFixture struct {
	users    *stubUserRepo
	subs     *stubSubsRepo
	uploader *stubUploader
	revoker  *stubRevoker
	stale    *stubStaleQueue
	svc      *AccountService
}

func newAccountFixture() *accountFixture {
	users := newStubUserRepo()
	f := &accountFixture{
		users:    users,
		subs:     newStubSubsRepo(users),
		uploader: &stubUploader{},
		revoker:  newStubRevoker(),
		stale:    &stubStaleQueue{},
	}
	f.svc = NewAccountService(f.users, f.subs, f.uploader, f.revoker, f.stale, zerolog.Nop())
	return f
}

// tempUpload writes a throwaway file standing in for a received upload.
func tempUpload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600); err != nil {
		t.Fatalf("write temp upload: %v", err)
	}
	return path
}

func assertRemoved(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected %s to be removed, stat err = %v", p, err)
		}
	}
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func validRegisterInput(t *testing.T) ports.RegisterInput {
	return ports.RegisterInput{
		FullName:       "Alice Doe",
		Email:          "alice@example.com",
		Username:       "Alice",
		Password:       "p4ssword",
		AvatarPath:     tempUpload(t, "avatar.png"),
		CoverImagePath: tempUpload(t, "cover.png"),
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAccountService_Register_Success(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)

	user, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected lowercased username, got %q", user.Username)
	}
	if user.PasswordHash != "" || user.RefreshToken != "" {
		t.Errorf("expected credentials to be stripped: %+v", user)
	}
	if user.Avatar == "" || user.CoverImage == "" {
		t.Errorf("expected media urls, got avatar=%q cover=%q", user.Avatar, user.CoverImage)
	}
	if user.WatchHistory == nil {
		t.Errorf("expected empty watch history slice, got nil")
	}
	if len(f.uploader.uploaded) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(f.uploader.uploaded))
	}
	for i, existed := range f.uploader.existed {
		if !existed {
			t.Errorf("upload %d: local file was gone before upload", i)
		}
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == in.Password {
		t.Errorf("expected hashed password, got %q", stored.PasswordHash)
	}
}

func TestAccountService_Register_MissingField(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)
	in.FullName = "   "

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrValidation)
	if len(f.uploader.uploaded) != 0 {
		t.Errorf("expected no uploads, got %d", len(f.uploader.uploaded))
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_InvalidEmail(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)
	in.Email = "not-an-email"

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrValidation)
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(t, "alice", "other@example.com", "pw")

	in := validRegisterInput(t)
	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrConflict)
	if len(f.uploader.uploaded) != 0 {
		t.Errorf("expected no uploads on conflict, got %d", len(f.uploader.uploaded))
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_DuplicateCheckedBeforeMedia(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(t, "bob", "alice@example.com", "pw")

	in := validRegisterInput(t)
	in.AvatarPath = ""

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrConflict)
	assertRemoved(t, in.CoverImagePath)
}

func TestAccountService_Register_MissingMedia(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)
	in.CoverImagePath = ""

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrValidation)
	assertRemoved(t, in.AvatarPath)
}

func TestAccountService_Register_UploadFailure(t *testing.T) {
	f := newAccountFixture()
	f.uploader.err = errors.New("media host down")
	in := validRegisterInput(t)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrInternal)
	if len(f.users.users) != 0 {
		t.Errorf("expected no user to be created, got %d", len(f.users.users))
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_PartialUploadQueuesStored(t *testing.T) {
	f := newAccountFixture()
	f.uploader.failFor = "cover.png"
	in := validRegisterInput(t)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrInternal)
	if len(f.stale.urls) != 1 || !strings.HasSuffix(f.stale.urls[0], "avatar.png") {
		t.Errorf("expected the stored avatar to be queued, got %v", f.stale.urls)
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_CreateFailureQueuesMedia(t *testing.T) {
	f := newAccountFixture()
	f.users.createErr = domain.ErrUserExists
	in := validRegisterInput(t)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrConflict)
	if len(f.stale.urls) != 2 {
		t.Errorf("expected both uploads to be queued, got %v", f.stale.urls)
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_PasswordTooLong(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)
	in.Password = strings.Repeat("a", domain.MaxPasswordLength+1)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrValidation)
	if len(f.uploader.uploaded) != 0 {
		t.Errorf("expected no uploads, got %d", len(f.uploader.uploaded))
	}
	if len(f.users.users) != 0 {
		t.Errorf("expected no user to be created, got %d", len(f.users.users))
	}
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)

	in = validRegisterInput(t)
	in.Password = strings.Repeat("a", domain.MaxPasswordLength)
	if _, err := f.svc.Register(context.Background(), in); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}

func TestAccountService_Register_EmailIsCaseInsensitive(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(t, "bob", "alice@example.com", "pw")

	in := validRegisterInput(t)
	in.Email = " Alice@Example.COM "
	in.Username = "someone-else"

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrConflict)
	if len(f.uploader.uploaded) != 0 {
		t.Errorf("expected no uploads on conflict, got %d", len(f.uploader.uploaded))
	}
}

func TestAccountService_Register_StoresLowercaseEmail(t *testing.T) {
	f := newAccountFixture()
	in := validRegisterInput(t)
	in.Email = "Alice@Example.com"

	user, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
}

func TestAccountService_Register_EmptyMediaURL(t *testing.T) {
	f := newAccountFixture()
	f.uploader.emptyURL = true
	in := validRegisterInput(t)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrInternal)
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

func TestAccountService_Register_LookupError(t *testing.T) {
	f := newAccountFixture()
	f.users.findErr = errors.New("connection reset")
	in := validRegisterInput(t)

	_, err := f.svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrInternal)
	assertRemoved(t, in.AvatarPath, in.CoverImagePath)
}

// ---------------------------------------------------------------------------
// Profile maintenance
// ---------------------------------------------------------------------------

func TestAccountService_CurrentUser_NotFound(t *testing.T) {
	f := newAccountFixture()
	_, err := f.svc.CurrentUser(context.Background(), "missing")
	assertKind(t, err, domain.ErrNotFound)
}

func TestAccountService_ChangePassword(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "carol", "carol@example.com", "old-pass")
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, id, "wrong", "new-pass")
	assertKind(t, err, domain.ErrUnauthorized)

	if err := f.svc.ChangePassword(ctx, id, "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	stored, _ := f.users.FindByID(ctx, id)
	if !stored.PasswordMatches("new-pass") {
		t.Errorf("expected new password to be stored")
	}
	if stored.PasswordMatches("old-pass") {
		t.Errorf("expected old password to stop matching")
	}
}

func TestAccountService_ChangePassword_Missing(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "carol", "carol@example.com", "old-pass")

	err := f.svc.ChangePassword(context.Background(), id, "", "new-pass")
	assertKind(t, err, domain.ErrValidation)
}

func TestAccountService_ChangePassword_TooLong(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "carol", "carol@example.com", "old-pass")

	err := f.svc.ChangePassword(context.Background(), id, "old-pass", strings.Repeat("a", domain.MaxPasswordLength+1))
	assertKind(t, err, domain.ErrValidation)

	stored, _ := f.users.FindByID(context.Background(), id)
	if !stored.PasswordMatches("old-pass") {
		t.Errorf("old password must still match")
	}
}

func TestAccountService_UpdateDetails(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "dave", "dave@example.com", "pw")
	f.users.seed(t, "erin", "erin@example.com", "pw")
	ctx := context.Background()

	_, err := f.svc.UpdateDetails(ctx, id, "", "dave@example.com")
	assertKind(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateDetails(ctx, id, "Dave", "erin@example.com")
	assertKind(t, err, domain.ErrConflict)

	_, err = f.svc.UpdateDetails(ctx, id, "Dave", "Erin@Example.com")
	assertKind(t, err, domain.ErrConflict)

	user, err := f.svc.UpdateDetails(ctx, id, " Dave D ", "dave.d@example.com")
	if err != nil {
		t.Fatalf("UpdateDetails returned error: %v", err)
	}
	if user.FullName != "Dave D" || user.Email != "dave.d@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestAccountService_UpdateMedia_Success(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "frank", "frank@example.com", "pw")
	before, _ := f.users.FindByID(context.Background(), id)
	path := tempUpload(t, "new-cover.png")

	user, err := f.svc.UpdateMedia(context.Background(), id, domain.MediaCoverImage, path)
	if err != nil {
		t.Fatalf("UpdateMedia returned error: %v", err)
	}
	if user.CoverImage == before.CoverImage || user.CoverImage == "" {
		t.Errorf("expected new cover image url, got %q", user.CoverImage)
	}
	if user.Avatar != before.Avatar {
		t.Errorf("avatar should be untouched, got %q", user.Avatar)
	}
	if len(f.stale.urls) != 1 || f.stale.urls[0] != before.CoverImage {
		t.Errorf("expected previous cover to be queued, got %v", f.stale.urls)
	}
	assertRemoved(t, path)
}

func TestAccountService_UpdateMedia_UploadFailure(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "frank", "frank@example.com", "pw")
	f.uploader.err = errors.New("timeout")
	path := tempUpload(t, "avatar.png")

	_, err := f.svc.UpdateMedia(context.Background(), id, domain.MediaAvatar, path)
	assertKind(t, err, domain.ErrInternal)
	if len(f.stale.urls) != 0 {
		t.Errorf("nothing should be queued on failure, got %v", f.stale.urls)
	}
	assertRemoved(t, path)
}

func TestAccountService_UpdateMedia_MissingFile(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "frank", "frank@example.com", "pw")

	_, err := f.svc.UpdateMedia(context.Background(), id, domain.MediaAvatar, "")
	assertKind(t, err, domain.ErrValidation)
}

func TestAccountService_WatchHistory_EmptyIsNotNil(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "gina", "gina@example.com", "pw")

	videos, err := f.svc.WatchHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("WatchHistory returned error: %v", err)
	}
	if videos == nil || len(videos) != 0 {
		t.Errorf("expected empty slice, got %#v", videos)
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	f := newAccountFixture()
	id := f.users.seed(t, "hank", "hank@example.com", "pw")
	other := f.users.seed(t, "ivy", "ivy@example.com", "pw")
	ctx := context.Background()
	_, _ = f.subs.Toggle(ctx, id, other)
	_, _ = f.subs.Toggle(ctx, other, id)
	before, _ := f.users.FindByID(ctx, id)

	access := &domain.AccessClaims{UserID: id, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := f.svc.DeleteAccount(ctx, id, access); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	if _, err := f.users.FindByID(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
	if len(f.subs.pairs) != 0 {
		t.Errorf("expected subscriptions to be removed, got %v", f.subs.pairs)
	}
	if _, ok := f.revoker.revoked["jti-1"]; !ok {
		t.Errorf("expected access token to be revoked")
	}
	if len(f.stale.urls) != 2 || f.stale.urls[0] != before.Avatar || f.stale.urls[1] != before.CoverImage {
		t.Errorf("expected media to be queued, got %v", f.stale.urls)
	}
}

func TestAccountService_DeleteAccount_RevokeFailureIsNonFatal(t *testing.T) {
	f := newAccountFixture()
	f.revoker.err = errors.New("redis down")
	id := f.users.seed(t, "hank", "hank@example.com", "pw")

	access := &domain.AccessClaims{UserID: id, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := f.svc.DeleteAccount(context.Background(), id, access); err != nil {
		t.Fatalf("expected success despite revoke failure, got %v", err)
	}
}
