package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophtimeline/internal/client/client"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertSlot(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO slots(key, value) VALUES(?, ?)`, k, v)
	require.NoError(t, err)
}

func getSlot(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM slots WHERE key = ?`, k).Scan(&v)
	require.NoError(t, err)
	return v
}

func countSlots(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM slots`).Scan(&n))
	return n
}

// fakeClient implements client.Client in memory.
type fakeClient struct {
	mu sync.Mutex

	CloseErr    error
	RegisterErr error

	GetSaltRet []byte
	GetSaltErr error

	LoginErr error
	PingErr  error

	Authed    bool
	LoggedOut bool

	Page     models.TimelinePage
	Replaced int

	Posts        []models.PostSummary
	Competitions []models.CompetitionSummary
	PostSearches int

	LastRegisterUser string
	LastRegisterSalt []byte
	LastRegisterKey  []byte

	LastGetSaltUser string

	LastLoginUser string
	LastLoginKey  []byte
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(ctx context.Context, username string, salt []byte, key []byte) error {
	f.LastRegisterUser = username
	f.LastRegisterSalt = append([]byte(nil), salt...)
	f.LastRegisterKey = append([]byte(nil), key...)
	return f.RegisterErr
}

func (f *fakeClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	f.LastGetSaltUser = username
	return append([]byte(nil), f.GetSaltRet...), f.GetSaltErr
}

func (f *fakeClient) Login(ctx context.Context, username string, key []byte) error {
	f.LastLoginUser = username
	f.LastLoginKey = append([]byte(nil), key...)
	if f.LoginErr == nil {
		f.Authed = true
	}
	return f.LoginErr
}

func (f *fakeClient) Logout() {
	f.Authed = false
	f.LoggedOut = true
}

func (f *fakeClient) Authenticated() bool { return f.Authed }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) FetchTimeline(ctx context.Context, subject string) (*models.TimelinePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.TimelinePage{Items: append([]models.TimelineEntry(nil), f.Page.Items...), Revision: f.Page.Revision}
	return &p, nil
}

func (f *fakeClient) ReplaceTimeline(ctx context.Context, items []models.TimelineEntry, revision int64) (*models.TimelinePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replaced++
	stored := append([]models.TimelineEntry(nil), items...)
	for i := range stored {
		if stored[i].ID == "" {
			stored[i].ID = uuid.NewString()
		}
	}
	f.Page = models.TimelinePage{Items: stored, Revision: revision + 1}
	p := f.Page
	return &p, nil
}

func (f *fakeClient) UploadMediaBatch(ctx context.Context, files []models.UploadFile) ([]string, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeClient) FetchMediaByID(ctx context.Context, id string) (*models.MediaDescriptor, error) {
	return nil, client.ErrNotFound
}

func (f *fakeClient) SearchCandidatePosts(ctx context.Context, authorID string) ([]models.PostSummary, error) {
	f.mu.Lock()
	f.PostSearches++
	f.mu.Unlock()
	return f.Posts, nil
}

func (f *fakeClient) SearchCandidateCompetitions(ctx context.Context) ([]models.CompetitionSummary, error) {
	return f.Competitions, nil
}

func (f *fakeClient) SearchPeople(ctx context.Context, query string) ([]models.PersonSummary, error) {
	return nil, nil
}
