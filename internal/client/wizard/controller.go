// Package wizard drives the milestone composer: seven ordered stages over a
// draft, a validation gate on the description stage, and the final commit
// through the timeline synchronizer.
package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/gophtimeline/internal/client/codec"
	"github.com/dmitrijs2005/gophtimeline/internal/client/links"
	"github.com/dmitrijs2005/gophtimeline/internal/client/media"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/datex"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
)

// Uploader uploads picked assets; see media.Batcher.
type Uploader interface {
	UploadAssets(ctx context.Context, assets []models.LocalAsset) ([]models.MediaDescriptor, error)
	Resolve(ctx context.Context, ids []string) []models.MediaDescriptor
	Uploading() bool
}

// Saver persists a finished milestone; see timeline.Synchronizer.
type Saver interface {
	Save(ctx context.Context, m models.Milestone) (models.Milestone, error)
	Saving() bool
}

// Draft is the text part of the milestone under construction. Media and
// links live in the gallery and the link selection.
type Draft struct {
	ID            string
	Year          int
	EventDate     *civil.Date
	Title         string
	Description   string
	Highlight     string
	SkipHighlight bool
	Cover         *models.MediaDescriptor
}

type Options struct {
	Uploader Uploader
	Saver    Saver
	Links    *links.Selection
	Logger   logging.Logger
	Now      func() time.Time
}

type Controller struct {
	uploader Uploader
	saver    Saver
	links    *links.Selection
	log      logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	stage       Stage
	draft       Draft
	gallery     *media.Gallery
	defaultYear int
	committing  bool
	uploading   bool
	closed      bool
}

func newController(parent context.Context, o Options) *Controller {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(parent)
	year := o.Now().Year()

	return &Controller{
		uploader:    o.Uploader,
		saver:       o.Saver,
		links:       o.Links,
		log:         o.Logger.With("module", "wizard"),
		ctx:         ctx,
		cancel:      cancel,
		stage:       StageDate,
		draft:       Draft{Year: year},
		gallery:     media.NewGallery(),
		defaultYear: year,
	}
}

// NewAdd opens the composer on an empty draft. The composer lives until
// Close, a cancelling Retreat, a successful Commit or the end of parent.
func NewAdd(parent context.Context, o Options) *Controller {
	return newController(parent, o)
}

// NewEdit opens the composer on existing. Media known only by id are
// resolved through the uploader; failures keep the bare reference.
func NewEdit(parent context.Context, o Options, existing models.Milestone) *Controller {
	c := newController(parent, o)
	m := existing.Clone()

	people := m.LinkedPeople
	if people == nil {
		m.Description, people = codec.DecodeDescription(m.Description)
	}

	c.resolveMedia(&m)

	c.draft = Draft{
		ID:          m.ID,
		Year:        m.Year,
		EventDate:   m.EventDate,
		Title:       m.Title,
		Description: m.Description,
		Cover:       m.Cover,
	}
	if c.draft.Year == 0 {
		c.draft.Year = c.defaultYear
	}
	if m.EventDate != nil {
		c.draft.Year = m.EventDate.Year
	}
	if m.Highlight != nil {
		c.draft.Highlight = *m.Highlight
	}
	c.gallery.Add(m.Media...)
	c.links.Seed(m.LinkedPostIDs, m.LinkedEventIDs, people)
	return c
}

func (c *Controller) resolveMedia(m *models.Milestone) {
	var ids []string
	for _, d := range m.Media {
		if len(d.URLs) == 0 {
			ids = append(ids, d.ID)
		}
	}
	if m.Cover != nil && len(m.Cover.URLs) == 0 {
		ids = append(ids, m.Cover.ID)
	}
	if len(ids) == 0 {
		return
	}

	resolved := map[string]models.MediaDescriptor{}
	for _, d := range c.uploader.Resolve(c.ctx, ids) {
		resolved[d.ID] = d
	}
	for i, d := range m.Media {
		if r, ok := resolved[d.ID]; ok {
			m.Media[i] = r
		}
	}
	if m.Cover != nil {
		if r, ok := resolved[m.Cover.ID]; ok {
			m.Cover = &r
		}
	}
}

// bind ties ctx to the composer's lifetime.
func (c *Controller) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Links() *links.Selection { return c.links }

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Advance moves to the next stage if the current stage's gate passes.
func (c *Controller) Advance() (Stage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.stage, ErrCancelled
	}
	t := transitions[c.stage]
	if t.validate != nil {
		if err := t.validate(&c.draft); err != nil {
			return c.stage, err
		}
	}
	if t.next != 0 {
		c.stage = t.next
	}
	return c.stage, nil
}

// Retreat moves to the previous stage. Retreating from the first stage
// cancels the composer and returns ErrCancelled.
func (c *Controller) Retreat() (Stage, error) {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.stage, ErrCancelled
	}
	t := transitions[c.stage]
	if t.prev != 0 {
		c.stage = t.prev
		defer c.mu.Unlock()
		return c.stage, nil
	}
	stage := c.stage
	c.mu.Unlock()

	c.log.Info(c.ctx, "composer cancelled")
	c.Close()
	return stage, ErrCancelled
}

// JumpToPreview skips to the preview stage. Commit still validates.
func (c *Controller) JumpToPreview() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.stage = StagePreview
	}
	return c.stage
}

func (c *Controller) SetDate(d civil.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.EventDate = &d
	c.draft.Year = d.Year
}

// SetDateText parses text as a date; unparseable text clears the date.
func (c *Controller) SetDateText(text string) bool {
	d, ok := datex.Parse(text)
	if !ok {
		c.ClearDate()
		return false
	}
	c.SetDate(d)
	return true
}

func (c *Controller) ClearDate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.EventDate = nil
	c.draft.Year = c.defaultYear
}

func (c *Controller) SetTitle(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = s
}

func (c *Controller) SetDescription(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = s
}

func (c *Controller) SetHighlight(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Highlight = s
}

func (c *Controller) SetSkipHighlight(skip bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.SkipHighlight = skip
}

func (c *Controller) busyLocked() bool {
	return c.committing || c.uploading || c.saver.Saving()
}

func (c *Controller) upload(ctx context.Context, assets []models.LocalAsset) ([]models.MediaDescriptor, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrCancelled
	}
	if c.busyLocked() {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.uploading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.uploading = false
		c.mu.Unlock()
	}()

	ctx, cancel := c.bind(ctx)
	defer cancel()

	descs, err := c.uploader.UploadAssets(ctx, assets)
	if c.ctx.Err() != nil {
		return nil, ErrCancelled
	}
	if errors.Is(err, media.ErrUploadInProgress) {
		return nil, ErrBusy
	}
	return descs, err
}

// UploadCover uploads asset and makes it the cover. On failure the previous
// cover stays.
func (c *Controller) UploadCover(ctx context.Context, asset models.LocalAsset) (models.MediaDescriptor, error) {
	descs, err := c.upload(ctx, []models.LocalAsset{asset})
	if err != nil {
		return models.MediaDescriptor{}, err
	}
	if len(descs) == 0 {
		return models.MediaDescriptor{}, ErrUnknownMedia
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cover := descs[0]
	c.draft.Cover = &cover
	return cover, nil
}

func (c *Controller) ClearCover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Cover = nil
}

// UploadMedia uploads assets and appends them to the gallery. Attached media
// stay attached when the upload fails.
func (c *Controller) UploadMedia(ctx context.Context, assets ...models.LocalAsset) ([]models.MediaDescriptor, error) {
	descs, err := c.upload(ctx, assets)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gallery.Add(descs...)
	return descs, nil
}

// RemoveMedia drops id from the gallery only; the remote media is kept. A
// cover pointing at id is cleared.
func (c *Controller) RemoveMedia(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.gallery.Remove(id) {
		return false
	}
	if c.draft.Cover != nil && c.draft.Cover.ID == id {
		c.draft.Cover = nil
	}
	return true
}

func (c *Controller) SetCoverFromGallery(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.gallery.Get(id)
	if !ok {
		return ErrUnknownMedia
	}
	c.draft.Cover = &d
	return nil
}

func (c *Controller) Gallery() []models.MediaDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery.Items()
}

// Preview assembles the milestone as Commit would write it.
func (c *Controller) Preview() models.Milestone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assembleLocked()
}

func (c *Controller) assembleLocked() models.Milestone {
	d := c.draft
	m := models.Milestone{
		ID:             d.ID,
		Year:           d.Year,
		Title:          strings.TrimSpace(d.Title),
		Description:    strings.TrimSpace(d.Description),
		Media:          c.gallery.Items(),
		LinkedPostIDs:  c.links.SelectedPosts(),
		LinkedEventIDs: c.links.SelectedCompetitions(),
		LinkedPeople:   codec.NormalizePeople(c.links.People()),
	}
	if d.EventDate != nil {
		ed := *d.EventDate
		m.EventDate = &ed
		m.Year = ed.Year
	}
	if h := strings.TrimSpace(d.Highlight); h != "" && !d.SkipHighlight {
		m.Highlight = &h
	}
	if d.Cover != nil {
		cv := d.Cover.Clone()
		m.Cover = &cv
	}
	return m
}

// Commit validates the draft and saves it. It only runs from the preview
// stage and returns ErrBusy without side effects while an upload or a save
// is in flight. On success the composer is closed and the stored copy
// returned.
func (c *Controller) Commit(ctx context.Context) (models.Milestone, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return models.Milestone{}, ErrCancelled
	case c.stage != StagePreview:
		c.mu.Unlock()
		return models.Milestone{}, ErrNotAtPreview
	case c.busyLocked() || c.uploader.Uploading():
		c.mu.Unlock()
		return models.Milestone{}, ErrBusy
	}
	if err := validateDraft(&c.draft); err != nil {
		c.mu.Unlock()
		return models.Milestone{}, err
	}
	m := c.assembleLocked()
	c.committing = true
	c.mu.Unlock()

	ctx, cancel := c.bind(ctx)
	defer cancel()

	stored, err := c.saver.Save(ctx, m)

	c.mu.Lock()
	c.committing = false
	c.mu.Unlock()

	if errors.Is(err, timeline.ErrBusy) {
		return models.Milestone{}, ErrBusy
	}
	if err != nil {
		c.log.Warn(ctx, "commit failed", "error", err)
		return models.Milestone{}, err
	}

	c.log.Info(ctx, "milestone committed", "id", stored.ID)
	c.Close()
	return stored, nil
}

// Close tears the composer down and cancels its in-flight work.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.links.Close()
}
