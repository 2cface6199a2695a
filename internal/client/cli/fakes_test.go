package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/links"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/client/wizard"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
)

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	regUser string
	regPass []byte
	regErr  error

	onlineUser string
	onlineErr  error

	offlineUser string
	offlineErr  error

	pingErr   error
	session   bool
	logoutErr error
	loggedOut bool
}

func (f *fakeAuth) Register(_ context.Context, user string, pass []byte) error {
	f.regUser, f.regPass = user, append([]byte(nil), pass...)
	return f.regErr
}
func (f *fakeAuth) OnlineLogin(_ context.Context, user string, _ []byte) error {
	f.onlineUser = user
	if f.onlineErr == nil {
		f.session = true
	}
	return f.onlineErr
}
func (f *fakeAuth) OfflineLogin(_ context.Context, user string, _ []byte) error {
	f.offlineUser = user
	return f.offlineErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	f.session = false
	return f.logoutErr
}
func (f *fakeAuth) HasSession() bool                { return f.session }
func (f *fakeAuth) Close(ctx context.Context) error { return nil }
func (f *fakeAuth) Ping(ctx context.Context) error  { return f.pingErr }

type fakeSaver struct {
	saved []models.Milestone
	err   error
}

func (f *fakeSaver) Save(_ context.Context, m models.Milestone) (models.Milestone, error) {
	if f.err != nil {
		return models.Milestone{}, f.err
	}
	if m.ID == "" {
		m.ID = "tl-1"
	}
	f.saved = append(f.saved, m)
	return m, nil
}
func (f *fakeSaver) Saving() bool { return false }

type fakeUploader struct{}

func (fakeUploader) UploadAssets(_ context.Context, assets []models.LocalAsset) ([]models.MediaDescriptor, error) {
	out := make([]models.MediaDescriptor, 0, len(assets))
	for _, a := range assets {
		out = append(out, models.MediaDescriptor{ID: "m-" + a.Name, Kind: models.MediaImage, URLs: []string{"https://cdn/" + a.Name}})
	}
	return out, nil
}
func (fakeUploader) Resolve(_ context.Context, ids []string) []models.MediaDescriptor {
	out := make([]models.MediaDescriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.MediaDescriptor{ID: id, Kind: models.MediaImage})
	}
	return out
}
func (fakeUploader) Uploading() bool { return false }

type fakeSearcher struct{}

func (fakeSearcher) SearchCandidatePosts(context.Context, string) ([]models.PostSummary, error) {
	return []models.PostSummary{{ID: "p1", Title: "Race report"}, {ID: "p2", Title: "Training"}}, nil
}
func (fakeSearcher) SearchCandidateCompetitions(context.Context) ([]models.CompetitionSummary, error) {
	return []models.CompetitionSummary{{ID: "c1", Name: "City 10k"}}, nil
}
func (fakeSearcher) SearchPeople(context.Context, string) ([]models.PersonSummary, error) {
	return nil, nil
}

type fakeTimelines struct {
	items   []models.Milestone
	saver   *fakeSaver
	deleted []string
	online  []bool
}

func (f *fakeTimelines) List(_ context.Context, online bool) ([]models.Milestone, error) {
	f.online = append(f.online, online)
	return f.items, nil
}

func (f *fakeTimelines) Get(_ context.Context, online bool, id string) (models.Milestone, error) {
	f.online = append(f.online, online)
	for _, m := range f.items {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Milestone{}, timeline.ErrNotFound
}

func (f *fakeTimelines) Delete(_ context.Context, online bool, id string) error {
	f.online = append(f.online, online)
	if _, err := f.Get(context.Background(), online, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTimelines) OpenComposer(ctx context.Context, online bool, existing *models.Milestone) *wizard.Controller {
	sel := links.New(fakeSearcher{}, logging.Nop(), time.Millisecond)
	_ = sel.LoadCandidates(ctx, "self")
	opts := wizard.Options{
		Uploader: fakeUploader{},
		Saver:    f.saver,
		Links:    sel,
		Logger:   logging.Nop(),
		Now:      func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	}
	if existing != nil {
		return wizard.NewEdit(ctx, opts, *existing)
	}
	return wizard.NewAdd(ctx, opts)
}

func newTestApp(auth *fakeAuth, tl *fakeTimelines, in *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		authService: auth,
		timelines:   tl,
		log:         logging.Nop(),
		reader:      in,
		out:         newLockedWriter(&out),
	}, &out
}
