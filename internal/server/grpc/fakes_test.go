package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/services"
)

type fakeUser struct {
	refreshResp *services.TokenPair
	refreshErr  error

	regResp *models.User
	regErr  error

	saltResp []byte
	saltErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshCalls int
}

func (f *fakeUser) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	f.refreshCalls++
	return f.refreshResp, f.refreshErr
}

func (f *fakeUser) Register(ctx context.Context, username string, salt []byte, verifier []byte) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUser) GetSalt(ctx context.Context, username string) ([]byte, error) {
	return f.saltResp, f.saltErr
}

func (f *fakeUser) Login(ctx context.Context, username string, verifierCandidate []byte) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

// fakeTimelines keeps one collection per user and checks revisions.
type fakeTimelines struct {
	mu   sync.Mutex
	rows map[string]*models.Timeline
	err  error

	lastCaller  string
	lastSubject string
}

func newFakeTimelines() *fakeTimelines {
	return &fakeTimelines{rows: map[string]*models.Timeline{}}
}

func (f *fakeTimelines) Fetch(ctx context.Context, callerID, subject string) (*models.Timeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCaller, f.lastSubject = callerID, subject
	if f.err != nil {
		return nil, f.err
	}
	if tl, ok := f.rows[callerID]; ok {
		return tl, nil
	}
	return &models.Timeline{UserID: callerID, Items: []models.TimelineItem{}}, nil
}

func (f *fakeTimelines) Replace(ctx context.Context, userID string, items []models.TimelineItem, revision int64) (*models.Timeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var current int64
	if tl, ok := f.rows[userID]; ok {
		current = tl.Revision
	}
	if current != revision {
		return nil, common.ErrVersionConflict
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = "issued-id"
		}
	}
	tl := &models.Timeline{UserID: userID, Items: items, Revision: current + 1}
	f.rows[userID] = tl
	return tl, nil
}

type fakeMedia struct {
	targets []gatewayapi.UploadTarget
	results []gatewayapi.UploadResult
	media   *gatewayapi.Media
	err     error

	lastOwner string
}

func (f *fakeMedia) Prepare(ctx context.Context, ownerID string, files []gatewayapi.UploadSpec) ([]gatewayapi.UploadTarget, error) {
	f.lastOwner = ownerID
	return f.targets, f.err
}

func (f *fakeMedia) Complete(ctx context.Context, ownerID string, ids []string) ([]gatewayapi.UploadResult, error) {
	f.lastOwner = ownerID
	return f.results, f.err
}

func (f *fakeMedia) Get(ctx context.Context, id string) (*gatewayapi.Media, error) {
	return f.media, f.err
}

type fakeCatalog struct {
	posts  []models.Post
	comps  []models.Competition
	people []models.Person
	err    error

	lastCaller string
}

func (f *fakeCatalog) Posts(ctx context.Context, callerID, authorID string) ([]models.Post, error) {
	f.lastCaller = callerID
	return f.posts, f.err
}

func (f *fakeCatalog) Competitions(ctx context.Context) ([]models.Competition, error) {
	return f.comps, f.err
}

func (f *fakeCatalog) People(ctx context.Context, query string) ([]models.Person, error) {
	return f.people, f.err
}

type fixture struct {
	users     *fakeUser
	timelines *fakeTimelines
	media     *fakeMedia
	catalog   *fakeCatalog
	server    *GRPCServer
}

func newFixture() *fixture {
	f := &fixture{
		users:     &fakeUser{},
		timelines: newFakeTimelines(),
		media:     &fakeMedia{},
		catalog:   &fakeCatalog{},
	}
	f.server = NewGRPCServer("127.0.0.1:0", logging.Nop(), Services{
		Users:     f.users,
		Timelines: f.timelines,
		Media:     f.media,
		Catalog:   f.catalog,
	}, "k")
	return f
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}
