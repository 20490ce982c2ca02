package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/dbx"
	"github.com/passkeeper/server/internal/keygen"
	"github.com/passkeeper/server/internal/passhash"
	"github.com/passkeeper/server/internal/server/models"
	"github.com/passkeeper/server/internal/server/repositories/repomanager"
)

// challengeKeyLength is the character count of a generated collection
// challenge key (before dash grouping).
const challengeKeyLength = 36

// CollectionResult describes a user's default collection. AccessKey holds
// the plaintext challenge key only when the collection was just created; it
// is never recoverable afterwards.
type CollectionResult struct {
	CollectionID int64
	Name         string
	AccessKey    string
}

// CollectionService manages the per-user default secret collection.
type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCollectionService constructs a CollectionService.
func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager) *CollectionService {
	return &CollectionService{db: db, repomanager: m}
}

// EnsureDefaultCollection returns the user's default collection, creating it
// when absent. A freshly created collection is returned together with its
// plaintext access key; callers must hand the key to the user immediately
// because only its hash is stored.
//
// Collection and membership are inserted in one transaction: a default
// collection only becomes visible once its membership row also commits.
func (s *CollectionService) EnsureDefaultCollection(ctx context.Context, userID int64) (*CollectionResult, error) {
	repo := s.repomanager.Collections(s.db)

	existing, err := repo.GetDefaultForUser(ctx, userID)
	if err == nil {
		return &CollectionResult{CollectionID: existing.ID, Name: existing.Name}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading default collection: %w", err)
	}

	// The user must exist before a collection is hung off it.
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := keygen.CreateRandomKey(challengeKeyLength)
	if err != nil {
		return nil, fmt.Errorf("error generating access key: %w", err)
	}

	hash, salt, err := passhash.Hash(key, nil)
	if err != nil {
		return nil, fmt.Errorf("error hashing access key: %w", err)
	}

	collection := &models.Collection{
		Name:             fmt.Sprintf("Default: %s", user.FullName),
		ChallengeKeyHash: hash,
		ChallengeKeySalt: salt,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Collections(tx)

		if _, err := repoTx.Create(ctx, collection); err != nil {
			return err
		}

		return repoTx.CreateMembership(ctx, &models.CollectionMember{
			UserID:           userID,
			CollectionID:     collection.ID,
			IsDefaultForUser: true,
		})
	}); err != nil {
		return nil, fmt.Errorf("error creating default collection: %w", err)
	}

	return &CollectionResult{CollectionID: collection.ID, Name: collection.Name, AccessKey: key}, nil
}
