package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/projecthub/projecthub/config"
	"github.com/projecthub/projecthub/internal/dto"
	apperrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/model"
	"gorm.io/gorm"
)

// fakeUserStore is an in-memory UserStore. Reads return copies so state
// only changes through the Update methods, like a real store.
type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
	err    error // when set, every call fails with it
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User), nextID: 1}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var all []model.User
	for _, user := range f.users {
		all = append(all, *user)
	}
	return all, int64(len(all)), nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if role, ok := updates["role"].(string); ok {
		user.Role = role
	}
	if age, ok := updates["age"].(int); ok {
		user.Age = age
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	if f.err != nil {
		return f.err
	}
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLogin = time.Now()
	return nil
}

func (f *fakeUserStore) UpdateRefreshToken(ctx context.Context, id uint, refreshToken string) error {
	if f.err != nil {
		return f.err
	}
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = refreshToken
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func newTestUserService() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	jwtService := NewJWTService(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	return NewUserService(store, jwtService), store
}

func registerTestUser(t *testing.T, svc *UserService, email string) (*dto.LoginResponse, string) {
	t.Helper()
	res, refreshToken, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return res, refreshToken
}

func TestRegisterThenLoginSucceeds(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registerTestUser(t, svc, "a@x.com")

	res, refreshToken, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.AccessToken == "" || refreshToken == "" {
		t.Fatal("login must return both tokens")
	}
	if res.User.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %q", res.User.Email)
	}

	// the returned access token must verify as non-expired
	claims, err := svc.jwtService.ValidateAccessToken(res.AccessToken)
	if err != nil {
		t.Fatalf("access token failed validation: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Errorf("token user_id %d does not match user %d", claims.UserID, res.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newTestUserService()

	registerTestUser(t, svc, "a@x.com")

	_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Other",
		Email:    "a@x.com",
		Password: "secret2",
	})
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if len(store.users) != 1 {
		t.Errorf("no partial record may be created, store has %d users", len(store.users))
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registerTestUser(t, svc, "a@x.com")

	_, _, wrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	_, _, unknownEmail := svc.Login(ctx, "nobody@x.com", "secret1")

	if !errors.Is(wrongPassword, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Error("the two failures must carry the same message")
	}
}

func TestRefreshAfterLogoutIsRevoked(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	res, refreshToken := registerTestUser(t, svc, "a@x.com")

	if err := svc.Logout(ctx, res.User.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	// replaying the pre-logout refresh token must fail
	_, _, err := svc.Refresh(ctx, refreshToken)
	if !errors.Is(err, apperrors.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}

	// logout with no active session stays idempotent
	if err := svc.Logout(ctx, res.User.ID); err != nil {
		t.Errorf("second logout must succeed, got %v", err)
	}
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registerTestUser(t, svc, "a@x.com")

	_, firstRefresh, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("first login returned error: %v", err)
	}
	_, secondRefresh, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("second login returned error: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, firstRefresh); !errors.Is(err, apperrors.ErrSessionRevoked) {
		t.Errorf("first session's token: expected ErrSessionRevoked, got %v", err)
	}
	if _, _, err := svc.Refresh(ctx, secondRefresh); err != nil {
		t.Errorf("second session's token must refresh, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, firstRefresh := registerTestUser(t, svc, "a@x.com")

	// tokens embed iat/exp in seconds; step past the original second so
	// the rotated token differs
	time.Sleep(1100 * time.Millisecond)

	res, rotated, err := svc.Refresh(ctx, firstRefresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("refresh must return a new access token")
	}
	if rotated == firstRefresh {
		t.Fatal("refresh must rotate the refresh token")
	}

	// the superseded token replays must fail, the rotated one must work
	if _, _, err := svc.Refresh(ctx, firstRefresh); !errors.Is(err, apperrors.ErrSessionRevoked) {
		t.Errorf("old token replay: expected ErrSessionRevoked, got %v", err)
	}
	if _, _, err := svc.Refresh(ctx, rotated); err != nil {
		t.Errorf("rotated token must refresh, got %v", err)
	}
}

func TestRefreshUnknownUserIsRevoked(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	res, refreshToken := registerTestUser(t, svc, "a@x.com")

	delete(store.users, res.User.ID)

	if _, _, err := svc.Refresh(ctx, refreshToken); !errors.Is(err, apperrors.ErrSessionRevoked) {
		t.Errorf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	res, _ := registerTestUser(t, svc, "a@x.com")
	hashBefore := store.users[res.User.ID].Password

	// wrong old password leaves the stored hash untouched
	err := svc.ChangePassword(ctx, res.User.ID, "wrong", "newsecret")
	if !errors.Is(err, apperrors.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if store.users[res.User.ID].Password != hashBefore {
		t.Fatal("hash must not change on a rejected password change")
	}

	if err := svc.ChangePassword(ctx, res.User.ID, "secret1", "newsecret"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	hashAfter := store.users[res.User.ID].Password
	if !VerifyPassword("newsecret", hashAfter) {
		t.Error("new password must verify against the stored hash")
	}
	if VerifyPassword("secret1", hashAfter) {
		t.Error("old password must no longer verify")
	}
}

func TestUpdateProfileEmailUniqueness(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	first, _ := registerTestUser(t, svc, "a@x.com")
	registerTestUser(t, svc, "b@x.com")

	// colliding with a different user's email is rejected
	_, err := svc.UpdateProfile(ctx, first.User.ID, &dto.UpdateProfileRequest{Email: "b@x.com"})
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// re-submitting the caller's own email is allowed
	updated, err := svc.UpdateProfile(ctx, first.User.ID, &dto.UpdateProfileRequest{Email: "a@x.com", Name: "Renamed"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %q", updated.Name)
	}
}

func TestDeleteUserSelfDeletion(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	res, _ := registerTestUser(t, svc, "a@x.com")

	err := svc.DeleteUser(ctx, res.User.ID, res.User.ID)
	if !errors.Is(err, apperrors.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
	if _, ok := store.users[res.User.ID]; !ok {
		t.Error("user must survive a rejected self-deletion")
	}
}
