package wizard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/gophtimeline/internal/client/links"
	"github.com/dmitrijs2005/gophtimeline/internal/client/media"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploading atomic.Bool
	next      []models.MediaDescriptor
	err       error
	block     bool
	started   chan struct{}
	calls     int
	resolved  []string
}

func (f *fakeUploader) UploadAssets(ctx context.Context, assets []models.LocalAsset) ([]models.MediaDescriptor, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.block {
		<-ctx.Done()
		return nil, &media.UploadError{Stage: "upload", Err: ctx.Err()}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.next, nil
}

func (f *fakeUploader) Resolve(ctx context.Context, ids []string) []models.MediaDescriptor {
	f.resolved = append(f.resolved, ids...)
	out := make([]models.MediaDescriptor, len(ids))
	for i, id := range ids {
		out[i] = models.MediaDescriptor{ID: id, Kind: models.MediaImage, URLs: []string{"https://cdn/" + id}}
	}
	return out
}

func (f *fakeUploader) Uploading() bool { return f.uploading.Load() }

type fakeSaver struct {
	mu     sync.Mutex
	saving atomic.Bool
	saved  []models.Milestone
	err    error
}

func (f *fakeSaver) Save(ctx context.Context, m models.Milestone) (models.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, m)
	if f.err != nil {
		return models.Milestone{}, f.err
	}
	m.ID = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
	return m, nil
}

func (f *fakeSaver) Saving() bool { return f.saving.Load() }

type nopSearcher struct{}

func (nopSearcher) SearchCandidatePosts(context.Context, string) ([]models.PostSummary, error) {
	return nil, nil
}
func (nopSearcher) SearchCandidateCompetitions(context.Context) ([]models.CompetitionSummary, error) {
	return nil, nil
}
func (nopSearcher) SearchPeople(context.Context, string) ([]models.PersonSummary, error) {
	return nil, nil
}

type harness struct {
	up    *fakeUploader
	saver *fakeSaver
	opts  Options
}

func newHarness() *harness {
	h := &harness{up: &fakeUploader{}, saver: &fakeSaver{}}
	h.opts = Options{
		Uploader: h.up,
		Saver:    h.saver,
		Links:    links.New(nopSearcher{}, logging.Nop(), time.Millisecond),
		Logger:   logging.Nop(),
		Now:      func() time.Time { return time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC) },
	}
	return h
}

func advanceTo(t *testing.T, c *Controller, target Stage) {
	t.Helper()
	for c.Stage() != target {
		_, err := c.Advance()
		require.NoError(t, err)
	}
}

func TestAdvance_DescriptionGate(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		desc   string
		fields []string
	}{
		{"both empty", "", "", []string{"title", "description"}},
		{"blank title", "   ", "Ran a PB", []string{"title"}},
		{"blank description", "Nationals", "\n\t", []string{"description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAdd(context.Background(), newHarness().opts)
			defer c.Close()

			_, err := c.Advance()
			require.NoError(t, err)
			require.Equal(t, StageDescription, c.Stage())

			c.SetTitle(tt.title)
			c.SetDescription(tt.desc)

			stage, err := c.Advance()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.fields, ve.Fields)
			assert.Equal(t, StageDescription, stage)
			assert.Equal(t, StageDescription, c.Stage())
		})
	}
}

func TestAdvanceAndRetreat(t *testing.T) {
	c := NewAdd(context.Background(), newHarness().opts)
	defer c.Close()

	c.SetTitle("Nationals")
	c.SetDescription("Ran a PB")
	advanceTo(t, c, StagePreview)

	stage, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, StagePreview, stage)

	stage, err = c.Retreat()
	require.NoError(t, err)
	assert.Equal(t, StageLinks, stage)
	assert.Equal(t, "links", stage.String())
}

func TestRetreatFromFirstStageCancels(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)

	_, err := c.Retreat()
	require.ErrorIs(t, err, ErrCancelled)
	assert.True(t, c.Closed())
	assert.Error(t, c.ctx.Err())
	assert.Empty(t, h.saver.saved)

	_, err = c.Advance()
	require.ErrorIs(t, err, ErrCancelled)
}

func TestCommit_NotAtPreview(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	_, err := c.Commit(context.Background())
	require.ErrorIs(t, err, ErrNotAtPreview)
	assert.Empty(t, h.saver.saved)
}

func TestCommit_JumpToPreviewStillValidates(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	assert.Equal(t, StagePreview, c.JumpToPreview())
	c.SetTitle("only title")

	_, err := c.Commit(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"description"}, ve.Fields)
	assert.Empty(t, h.saver.saved)
}

func TestCommit_WhileUploadingIsNoOp(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	c.SetTitle("t")
	c.SetDescription("d")
	c.JumpToPreview()
	before := c.Draft()

	h.up.uploading.Store(true)
	_, err := c.Commit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, h.saver.saved)
	assert.Equal(t, before, c.Draft())
	assert.False(t, c.Closed())

	h.up.uploading.Store(false)
	h.saver.saving.Store(true)
	_, err = c.Commit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, h.saver.saved)
}

func TestCommit_AssemblesMilestone(t *testing.T) {
	h := newHarness()
	h.up.next = []models.MediaDescriptor{
		{ID: "m1", URLs: []string{"https://cdn/m1"}},
		{ID: "m2", URLs: []string{"https://cdn/m2"}},
	}
	c := NewAdd(context.Background(), h.opts)

	require.True(t, c.SetDateText("18/03/24"))
	c.SetTitle("  Qualified for nationals ")
	c.SetDescription("Ran a PB\n")
	c.SetHighlight("  sub-3  ")
	_, err := c.UploadMedia(context.Background(), models.LocalAsset{URI: "a.jpg"}, models.LocalAsset{URI: "b.jpg"})
	require.NoError(t, err)
	require.NoError(t, c.SetCoverFromGallery("m2"))

	c.Links().AddPerson("Jane Doe")
	c.Links().ToggleCompetition("c1")
	c.Links().TogglePost("p1")

	c.JumpToPreview()
	stored, err := c.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, h.saver.saved, 1)
	m := h.saver.saved[0]
	assert.Equal(t, "", m.ID)
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 18}, *m.EventDate)
	assert.Equal(t, "Qualified for nationals", m.Title)
	assert.Equal(t, "Ran a PB", m.Description)
	require.NotNil(t, m.Highlight)
	assert.Equal(t, "sub-3", *m.Highlight)
	assert.Equal(t, "m2", m.CoverMediaID())
	assert.Equal(t, []string{"m1", "m2"}, m.MediaIDs())
	assert.Equal(t, []string{"Jane Doe"}, m.LinkedPeople)
	assert.Equal(t, []string{"c1"}, m.LinkedEventIDs)
	assert.Equal(t, []string{"p1"}, m.LinkedPostIDs)

	assert.Equal(t, models.IDRemote, models.KindOf(stored.ID))
	assert.True(t, c.Closed())
}

func TestCommit_SkipHighlight(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	c.SetTitle("t")
	c.SetDescription("d")
	c.SetHighlight("typed anyway")
	c.SetSkipHighlight(true)
	c.JumpToPreview()

	_, err := c.Commit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, h.saver.saved[0].Highlight)
	assert.Equal(t, 2025, h.saver.saved[0].Year)
}

func TestCommit_SyncErrorKeepsComposerOpen(t *testing.T) {
	h := newHarness()
	boom := &timeline.SyncError{Op: "write", Err: errors.New("offline")}
	h.saver.err = boom
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	c.SetTitle("t")
	c.SetDescription("d")
	c.JumpToPreview()

	_, err := c.Commit(context.Background())
	var se *timeline.SyncError
	require.ErrorAs(t, err, &se)
	assert.False(t, c.Closed())

	h.saver.err = nil
	_, err = c.Commit(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.saver.saved, 2)
}

func TestCommit_SaverBusyMapsToErrBusy(t *testing.T) {
	h := newHarness()
	h.saver.err = timeline.ErrBusy
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	c.SetTitle("t")
	c.SetDescription("d")
	c.JumpToPreview()

	_, err := c.Commit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
}

func TestSetDateText(t *testing.T) {
	c := NewAdd(context.Background(), newHarness().opts)
	defer c.Close()

	require.True(t, c.SetDateText("2024-03-18T10:00:00Z"))
	d := c.Draft()
	assert.Equal(t, 2024, d.Year)

	require.False(t, c.SetDateText("someday"))
	d = c.Draft()
	assert.Nil(t, d.EventDate)
	assert.Equal(t, 2025, d.Year)
}

func TestUploadMedia_FailureKeepsGallery(t *testing.T) {
	h := newHarness()
	h.up.next = []models.MediaDescriptor{{ID: "m1"}}
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	_, err := c.UploadMedia(context.Background(), models.LocalAsset{URI: "a.jpg"})
	require.NoError(t, err)

	h.up.err = &media.UploadError{Stage: "upload", Err: errors.New("boom")}
	_, err = c.UploadMedia(context.Background(), models.LocalAsset{URI: "b.jpg"})
	var ue *media.UploadError
	require.ErrorAs(t, err, &ue)

	gallery := c.Gallery()
	require.Len(t, gallery, 1)
	assert.Equal(t, "m1", gallery[0].ID)
}

func TestUploadBlockedDuringSave(t *testing.T) {
	h := newHarness()
	h.saver.saving.Store(true)
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	_, err := c.UploadCover(context.Background(), models.LocalAsset{URI: "a.jpg"})
	require.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, h.up.calls)
}

func TestUploadCoverAndRemoveMedia(t *testing.T) {
	h := newHarness()
	c := NewAdd(context.Background(), h.opts)
	defer c.Close()

	h.up.next = []models.MediaDescriptor{{ID: "cover"}}
	cover, err := c.UploadCover(context.Background(), models.LocalAsset{URI: "c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "cover", cover.ID)
	assert.Equal(t, "cover", c.Draft().Cover.ID)

	h.up.next = []models.MediaDescriptor{{ID: "m1"}, {ID: "m2"}}
	_, err = c.UploadMedia(context.Background(), models.LocalAsset{URI: "a.jpg"})
	require.NoError(t, err)

	require.NoError(t, c.SetCoverFromGallery("m1"))
	require.ErrorIs(t, c.SetCoverFromGallery("nope"), ErrUnknownMedia)

	assert.True(t, c.RemoveMedia("m1"))
	assert.Nil(t, c.Draft().Cover)
	assert.False(t, c.RemoveMedia("m1"))

	c.ClearCover()
	assert.Nil(t, c.Draft().Cover)
}

func TestCloseCancelsInFlightUpload(t *testing.T) {
	h := newHarness()
	h.up.block = true
	c := NewAdd(context.Background(), h.opts)

	done := make(chan error, 1)
	go func() {
		_, err := c.UploadMedia(context.Background(), models.LocalAsset{URI: "a.jpg"})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("upload was not cancelled")
	}
	assert.Empty(t, c.Gallery())
}

func TestCommit_BusyOnceUploadStarted(t *testing.T) {
	h := newHarness()
	h.up.block = true
	h.up.started = make(chan struct{})
	c := NewAdd(context.Background(), h.opts)
	c.SetTitle("Nationals")
	c.SetDescription("Ran a PB")
	c.JumpToPreview()

	done := make(chan error, 1)
	go func() {
		_, err := c.UploadMedia(context.Background(), models.LocalAsset{URI: "a.jpg"})
		done <- err
	}()
	<-h.up.started

	// the batcher has not raised its own flag yet
	require.False(t, h.up.Uploading())
	_, err := c.Commit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	_, err = c.UploadMedia(context.Background(), models.LocalAsset{URI: "b.jpg"})
	require.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, h.saver.saved)

	c.Close()
	require.ErrorIs(t, <-done, ErrCancelled)
}

func TestNewEdit_SeedsDraft(t *testing.T) {
	h := newHarness()
	d := civil.Date{Year: 2023, Month: 7, Day: 1}
	hl := "gold"
	existing := models.Milestone{
		ID:             "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d",
		Year:           2023,
		EventDate:      &d,
		Title:          "Won",
		Description:    "Race day\nPeople: Jane, Bob",
		Highlight:      &hl,
		Cover:          &models.MediaDescriptor{ID: "m1"},
		Media:          []models.MediaDescriptor{{ID: "m1"}, {ID: "m2", URLs: []string{"https://cdn/m2"}}},
		LinkedPostIDs:  []string{"p1"},
		LinkedEventIDs: []string{"c1"},
	}

	c := NewEdit(context.Background(), h.opts, existing)
	defer c.Close()

	draft := c.Draft()
	assert.Equal(t, existing.ID, draft.ID)
	assert.Equal(t, "Race day", draft.Description)
	assert.Equal(t, "gold", draft.Highlight)
	assert.Equal(t, "https://cdn/m1", draft.Cover.ThumbnailURL())
	assert.Equal(t, []string{"Jane", "Bob"}, c.Links().People())
	assert.Equal(t, []string{"c1"}, c.Links().SelectedCompetitions())
	assert.ElementsMatch(t, []string{"m1", "m1"}, h.up.resolved)

	gallery := c.Gallery()
	require.Len(t, gallery, 2)
	assert.Equal(t, "https://cdn/m1", gallery[0].ThumbnailURL())

	c.JumpToPreview()
	_, err := c.Commit(context.Background())
	require.NoError(t, err)
	saved := h.saver.saved[0]
	assert.Equal(t, existing.ID, saved.ID)
	assert.Equal(t, []string{"Jane", "Bob"}, saved.LinkedPeople)
	assert.Equal(t, "Race day", saved.Description)
}
