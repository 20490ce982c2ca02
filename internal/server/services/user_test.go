package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/passhash"
	"github.com/passkeeper/server/internal/policy"
	"github.com/passkeeper/server/internal/server/auth"
	"github.com/passkeeper/server/internal/server/config"
	"github.com/passkeeper/server/internal/server/models"
)

const testDomain = "password_keeper_server.com"

func newUserService(t *testing.T, rm *fakeRepoManager) (*UserService, func()) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		PseudoDomain:          testDomain,
		TokenValidityDuration: 30 * time.Minute,
	}
	if rm.k == nil {
		rm.k = &fakeSigningKeysRepo{key: []byte("0123456789abcdef0123456789abcdef")}
	}
	ks := NewSigningKeyService(db, rm)
	return NewUserService(db, rm, ks, cfg), func() { db.Close() }
}

func TestLogin_BootstrapCreatesAdmin(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: false}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	result, err := s.Login(context.Background(), "Admin", "Pa1sword%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !result.Success || result.Message == "" {
		t.Fatalf("expected success with token, got %+v", result)
	}
	if result.Unauthorized {
		t.Fatalf("bootstrap login must not be unauthorized")
	}

	created := rm.u.upserted
	if created == nil {
		t.Fatalf("expected admin credential to be persisted")
	}
	if !created.IsAdmin || created.Username != "Admin" || created.FullName != "Administrator" {
		t.Fatalf("unexpected admin credential: %+v", created)
	}
	if !passhash.Verify("Pa1sword%", created.PasswordHash, created.PasswordSalt) {
		t.Fatalf("stored hash does not verify against the bootstrap password")
	}

	claims, err := auth.ParseToken(result.Message, rm.k.key, testDomain)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "Admin" || claims.UserID != 42 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_BootstrapRejectsShortUsername(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: false}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	result, err := s.Login(context.Background(), "abc", "Pa1sword%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Success || result.Reason != policy.ReasonUsernameTooShort {
		t.Fatalf("expected username rejection, got %+v", result)
	}
	if rm.u.upserted != nil {
		t.Fatalf("no credential must be created on rejection")
	}
}

func TestLogin_BootstrapRejectsWeakPassword(t *testing.T) {
	// Policy runs before the admin-exists branch, so even the very first
	// bootstrap attempt fails for a weak password.
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: false}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	result, err := s.Login(context.Background(), "Admin", "short")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Success || result.Reason != policy.ReasonPasswordTooShort {
		t.Fatalf("expected password rejection, got %+v", result)
	}
	if rm.u.upserted != nil {
		t.Fatalf("no credential must be created on rejection")
	}
}

func TestLogin_BootstrapPersistFailure(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: false, upsertErr: errors.New("db down")}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	result, err := s.Login(context.Background(), "Admin", "Pa1sword%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Success || result.Reason != policy.ReasonFailedToCreateAdminUser {
		t.Fatalf("expected FailedToCreateAdminUser, got %+v", result)
	}
}

func adminWithPassword(t *testing.T, password string) *models.User {
	t.Helper()
	hash, salt, err := passhash.Hash(password, nil)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	return &models.User{ID: 1, Username: "Admin", PasswordHash: hash, PasswordSalt: salt, IsAdmin: true, FullName: "Administrator"}
}

func TestLogin_UnknownUserIndistinguishableFromBadPassword(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: true, getByNameErr: common.ErrorNotFound}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	unknown, err := s.Login(context.Background(), "nobody1", "Pa1sword%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	rm2 := &fakeRepoManager{u: &fakeUsersRepo{existsOut: true, getByNameOut: adminWithPassword(t, "Pa1sword%")}}
	s2, cleanup2 := newUserService(t, rm2)
	defer cleanup2()

	badPassword, err := s2.Login(context.Background(), "Admin", "Wr0ngpass%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	for _, result := range []*LoginResult{unknown, badPassword} {
		if result.Success {
			t.Fatalf("expected rejection, got %+v", result)
		}
		if !result.Unauthorized {
			t.Fatalf("expected Unauthorized=true, got %+v", result)
		}
		if result.Reason != policy.ReasonInvalidUsernameOrPassword {
			t.Fatalf("expected InvalidUsernameOrPassword, got %+v", result)
		}
	}
	if unknown.Message != badPassword.Message {
		t.Fatalf("unknown-user and bad-password rejections must be indistinguishable: %q vs %q", unknown.Message, badPassword.Message)
	}
}

func TestLogin_ExistingUserSuccess(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsOut: true, getByNameOut: adminWithPassword(t, "Pa1sword%")}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	result, err := s.Login(context.Background(), "Admin", "Pa1sword%")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !result.Success || result.Message == "" {
		t.Fatalf("expected success with token, got %+v", result)
	}

	claims, err := auth.ParseToken(result.Message, rm.k.key, testDomain)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "Admin" || claims.UserID != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_ExistsCheckError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{existsErr: errors.New("db down")}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	if _, err := s.Login(context.Background(), "Admin", "Pa1sword%"); err == nil {
		t.Fatalf("expected error when admin check fails")
	}
}

func TestCreateUser_RejectsWeakPassword(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	_, err := s.CreateUser(context.Background(), "alice", "weak", "Alice", false)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
	if rm.u.upserted != nil {
		t.Fatalf("no credential must be created on rejection")
	}
}

func TestCreateUser_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s, cleanup := newUserService(t, rm)
	defer cleanup()

	user, err := s.CreateUser(context.Background(), "alice", "Pa1sword%", "Alice", false)
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID != 42 || user.IsAdmin || user.FullName != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !passhash.Verify("Pa1sword%", user.PasswordHash, user.PasswordSalt) {
		t.Fatalf("stored hash does not verify")
	}
}
