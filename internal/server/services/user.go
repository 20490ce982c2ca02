// Package services contains server-side business logic. This file implements
// UserService, which handles the login state machine (including bootstrap
// admin creation) and credential management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/passhash"
	"github.com/passkeeper/server/internal/policy"
	"github.com/passkeeper/server/internal/server/auth"
	"github.com/passkeeper/server/internal/server/config"
	"github.com/passkeeper/server/internal/server/models"
	"github.com/passkeeper/server/internal/server/repositories/repomanager"
)

// adminFullName is the display name given to the bootstrap admin credential.
const adminFullName = "Administrator"

// LoginResult is the outcome of a login attempt. On success Message carries
// the issued token; on rejection it carries the formatted reason.
type LoginResult struct {
	Success      bool
	Message      string
	Unauthorized bool
	Reason       policy.RejectReason
}

// UserService provides authentication and credential management:
//   - Login: the bootstrap-or-verify state machine that mints tokens
//   - CreateUser/Upsert/GetByName/GetByID/Exists/ListAll/Delete: admin-driven
//     credential lifecycle
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	signingKeys           *SigningKeyService
	pseudoDomain          string
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, keys *SigningKeyService, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		signingKeys:           keys,
		pseudoDomain:          cfg.PseudoDomain,
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func reject(reason policy.RejectReason, unauthorized bool) *LoginResult {
	return &LoginResult{
		Success:      false,
		Message:      policy.FormatMessage(reason),
		Unauthorized: unauthorized,
		Reason:       reason,
	}
}

// Login authenticates the user and returns a bearer token on success.
//
// Username and password are validated against the policy before anything
// else, so even the very first bootstrap attempt is rejected for a weak
// bootstrap password. When no admin credential exists yet, a successful
// validation creates one from the supplied credentials. Afterwards, an
// unknown username and a failed password verification are indistinguishable
// to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	isAdmin := true
	adminExists, err := repo.Exists(ctx, &isAdmin)
	if err != nil {
		return nil, fmt.Errorf("error checking for admin user: %w", err)
	}

	if reason := policy.CheckUsername(username); reason != policy.ReasonNone {
		return reject(reason, false), nil
	}
	if reason := policy.CheckPassword(password); reason != policy.ReasonNone {
		return reject(reason, false), nil
	}

	var user *models.User

	if !adminExists {
		hash, salt, err := passhash.Hash(password, nil)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}

		user, err = repo.Upsert(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			PasswordSalt: salt,
			IsAdmin:      true,
			FullName:     adminFullName,
		})
		if err != nil {
			return reject(policy.ReasonFailedToCreateAdminUser, false), nil
		}

		return s.success(ctx, user)
	}

	user, err = repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Indistinguishable from a bad password, to avoid leaking
			// which usernames exist.
			return reject(policy.ReasonInvalidUsernameOrPassword, true), nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !passhash.Verify(password, user.PasswordHash, user.PasswordSalt) {
		return reject(policy.ReasonInvalidUsernameOrPassword, true), nil
	}

	return s.success(ctx, user)
}

func (s *UserService) success(ctx context.Context, user *models.User) (*LoginResult, error) {
	key, err := s.signingKeys.Key(ctx)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.Username, user.ID, key, s.pseudoDomain, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &LoginResult{Success: true, Message: token, Reason: policy.ReasonNone}, nil
}

// CreateUser validates, hashes and stores a new credential. Existing
// usernames are updated in place (upsert), matching password changes.
func (s *UserService) CreateUser(ctx context.Context, username, password, fullName string, isAdmin bool) (*models.User, error) {
	if reason := policy.CheckUsername(username); reason != policy.ReasonNone {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, policy.FormatMessage(reason))
	}
	if reason := policy.CheckPassword(password); reason != policy.ReasonNone {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, policy.FormatMessage(reason))
	}

	hash, salt, err := passhash.Hash(password, nil)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Upsert(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		IsAdmin:      isAdmin,
		FullName:     fullName,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// GetByName returns the credential with the given username.
func (s *UserService) GetByName(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// GetByID returns the credential with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// Exists reports whether users exist, optionally filtered by admin flag.
func (s *UserService) Exists(ctx context.Context, admin *bool) (bool, error) {
	return s.repomanager.Users(s.db).Exists(ctx, admin)
}

// ListAll returns all stored credentials.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).ListAll(ctx)
}

// Delete removes the credential with the given id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
