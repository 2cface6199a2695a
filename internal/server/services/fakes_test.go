package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/media"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/timelines"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	getOut    *models.User
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	purgeErr  error

	created []string
	expires []time.Time
	deleted []string
	purged  []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, expires time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, userID)
	f.expires = append(f.expires, expires)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) PurgeExpired(ctx context.Context, userID string, now time.Time) (int64, error) {
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	f.purged = append(f.purged, userID)
	return 0, nil
}

// fakeTimelineRepo emulates the revision check of the Postgres repository.
type fakeTimelineRepo struct {
	rows   map[string]*models.Timeline
	getErr error
	putErr error
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{rows: map[string]*models.Timeline{}}
}

func (f *fakeTimelineRepo) Get(ctx context.Context, userID string) (*models.Timeline, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if tl, ok := f.rows[userID]; ok {
		return tl, nil
	}
	return &models.Timeline{UserID: userID, Items: []models.TimelineItem{}}, nil
}

func (f *fakeTimelineRepo) Replace(ctx context.Context, userID string, items []models.TimelineItem, expected int64) (int64, error) {
	if f.putErr != nil {
		return 0, f.putErr
	}
	var current int64
	if tl, ok := f.rows[userID]; ok {
		current = tl.Revision
	}
	if current != expected {
		return 0, common.ErrVersionConflict
	}
	f.rows[userID] = &models.Timeline{UserID: userID, Items: items, Revision: current + 1}
	return current + 1, nil
}

type fakeMediaRepo struct {
	rows      map[string]*models.Media
	createErr error
	getErr    error
	gets      int
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{rows: map[string]*models.Media{}}
}

func (f *fakeMediaRepo) Create(ctx context.Context, m *models.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMediaRepo) MarkUploaded(ctx context.Context, ownerID, id string) error {
	m, ok := f.rows[id]
	if !ok || m.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	m.Status = models.MediaUploaded
	return nil
}

func (f *fakeMediaRepo) Get(ctx context.Context, id string) (*models.Media, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

type fakeCatalogRepo struct {
	posts  []models.Post
	comps  []models.Competition
	people []models.Person
	err    error

	lastAuthor string
	lastQuery  string
}

func (f *fakeCatalogRepo) PostsByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	f.lastAuthor = authorID
	return f.posts, f.err
}

func (f *fakeCatalogRepo) Competitions(ctx context.Context, limit int) ([]models.Competition, error) {
	return f.comps, f.err
}

func (f *fakeCatalogRepo) SearchPeople(ctx context.Context, q string, limit int) ([]models.Person, error) {
	f.lastQuery = q
	return f.people, f.err
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	t *fakeTimelineRepo
	m *fakeMediaRepo
	c *fakeCatalogRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Timelines(dbx.DBTX) timelines.Repository         { return m.t }
func (m *fakeRepoManager) Media(dbx.DBTX) media.Repository                 { return m.m }
func (m *fakeRepoManager) Catalog(dbx.DBTX) catalog.Repository             { return m.c }

type fakeStore struct {
	putErr error
	getErr error
	keys   int
}

func (s *fakeStore) NewKey(ownerID string) string {
	s.keys++
	return fmt.Sprintf("users/%s/%d", ownerID, s.keys)
}

func (s *fakeStore) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	return "https://put/" + key, nil
}

func (s *fakeStore) PresignGet(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return "https://get/" + key, nil
}

type fakeCache struct {
	items  map[string]*gatewayapi.Media
	getErr error
	setErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*gatewayapi.Media{}}
}

func (c *fakeCache) Get(ctx context.Context, id string) (*gatewayapi.Media, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.items[id]
	return m, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, m *gatewayapi.Media) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.items[m.ID] = m
	return nil
}
