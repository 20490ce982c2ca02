package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/keygen"
	"github.com/passkeeper/server/internal/server/repositories/repomanager"
)

// signingKeySize is the size of the generated token signing key in bytes.
const signingKeySize = 32

// SigningKeyService hands out the server's token signing key. The key is
// created lazily on first access, persisted once, and cached in process
// memory thereafter. The mutex plus the store's insert-if-absent guarantee
// at most one key ever exists, even when two requests race on first access.
type SigningKeyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	mu  sync.Mutex
	key []byte
}

// NewSigningKeyService constructs a SigningKeyService.
func NewSigningKeyService(db *sql.DB, m repomanager.RepositoryManager) *SigningKeyService {
	return &SigningKeyService{db: db, repomanager: m}
}

// Key returns the signing key, creating and persisting it if absent.
func (s *SigningKeyService) Key(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	repo := s.repomanager.SigningKeys(s.db)

	key, err := repo.Get(ctx)
	if err == nil {
		s.key = key
		return s.key, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading signing key: %w", err)
	}

	generated, err := keygen.RandomBytes(signingKeySize)
	if err != nil {
		return nil, fmt.Errorf("error generating signing key: %w", err)
	}

	// Another process may have won the insert; keep whichever key is stored.
	key, err = repo.SetIfAbsent(ctx, generated)
	if err != nil {
		return nil, fmt.Errorf("error storing signing key: %w", err)
	}

	s.key = key
	return s.key, nil
}
