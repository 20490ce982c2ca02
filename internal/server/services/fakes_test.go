package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/dbx"
	collectionsrepo "github.com/passkeeper/server/internal/server/repositories/collections"
	"github.com/passkeeper/server/internal/server/repositories/repomanager"
	signingkeysrepo "github.com/passkeeper/server/internal/server/repositories/signingkeys"
	usersrepo "github.com/passkeeper/server/internal/server/repositories/users"

	"github.com/passkeeper/server/internal/server/models"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	existsOut bool
	existsErr error

	upsertErr error
	upserted  *models.User

	getByNameOut *models.User
	getByNameErr error

	getByIDOut *models.User
	getByIDErr error

	listOut []*models.User
	listErr error

	deleteErr error
}

func (f *fakeUsersRepo) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	u.ID = 42
	f.upserted = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getByNameErr != nil {
		return nil, f.getByNameErr
	}
	return f.getByNameOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) Exists(ctx context.Context, admin *bool) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existsOut, nil
}

func (f *fakeUsersRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}

type fakeCollectionsRepo struct {
	getDefaultOut *models.Collection
	getDefaultErr error

	createErr error
	created   *models.Collection

	membershipErr error
	membership    *models.CollectionMember
}

func (f *fakeCollectionsRepo) GetDefaultForUser(ctx context.Context, userID int64) (*models.Collection, error) {
	if f.getDefaultErr != nil {
		return nil, f.getDefaultErr
	}
	return f.getDefaultOut, nil
}

func (f *fakeCollectionsRepo) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = 5
	f.created = c
	return c, nil
}

func (f *fakeCollectionsRepo) CreateMembership(ctx context.Context, m *models.CollectionMember) error {
	if f.membershipErr != nil {
		return f.membershipErr
	}
	f.membership = m
	return nil
}

type fakeSigningKeysRepo struct {
	mu sync.Mutex

	key []byte

	getCalls int
	setCalls int
}

func (f *fakeSigningKeysRepo) Get(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.key == nil {
		return nil, common.ErrorNotFound
	}
	return f.key, nil
}

func (f *fakeSigningKeysRepo) SetIfAbsent(ctx context.Context, key []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.key == nil {
		f.key = key
	}
	return f.key, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCollectionsRepo
	k *fakeSigningKeysRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) Collections(db dbx.DBTX) collectionsrepo.Repository { return m.c }

func (m *fakeRepoManager) SigningKeys(db dbx.DBTX) signingkeysrepo.Repository { return m.k }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
