package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/client"
	"github.com/dmitrijs2005/gophtimeline/internal/client/links"
	"github.com/dmitrijs2005/gophtimeline/internal/client/media"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/client/wizard"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
)

type TimelineSettings struct {
	Profile           string
	PeopleEncoding    timeline.PeopleEncoding
	UploadConcurrency int
	SearchDebounce    time.Duration
}

// TimelineService owns one synchronizer per store so the save guard holds
// across composers, and opens composers against the store matching the
// current connectivity.
type TimelineService struct {
	client   client.Client
	settings TimelineSettings
	log      logging.Logger

	remote  *timeline.Synchronizer
	local   *timeline.Synchronizer
	batcher *media.Batcher
}

func NewTimelineService(c client.Client, slotStore timeline.SlotStore, settings TimelineSettings, log logging.Logger) *TimelineService {
	return &TimelineService{
		client:   c,
		settings: settings,
		log:      log.With("module", "timeline-service"),
		remote:   timeline.NewSynchronizer(timeline.NewRemoteStore(c, settings.Profile, settings.PeopleEncoding), log),
		local:    timeline.NewSynchronizer(timeline.NewLocalStore(slotStore, settings.Profile), log),
		batcher:  media.NewBatcher(c, log, settings.UploadConcurrency),
	}
}

// Synchronizer returns the remote synchronizer when online with a session,
// the local one otherwise.
func (s *TimelineService) Synchronizer(online bool) *timeline.Synchronizer {
	if online && s.client.Authenticated() {
		return s.remote
	}
	return s.local
}

func (s *TimelineService) List(ctx context.Context, online bool) ([]models.Milestone, error) {
	return s.Synchronizer(online).List(ctx)
}

func (s *TimelineService) Get(ctx context.Context, online bool, id string) (models.Milestone, error) {
	return s.Synchronizer(online).Get(ctx, id)
}

func (s *TimelineService) Delete(ctx context.Context, online bool, id string) error {
	return s.Synchronizer(online).Delete(ctx, id)
}

// OpenComposer starts a composer; existing nil means add mode. The store is
// chosen now and kept for the composer's lifetime.
func (s *TimelineService) OpenComposer(ctx context.Context, online bool, existing *models.Milestone) *wizard.Controller {
	sel := links.New(s.client, s.log, s.settings.SearchDebounce)
	sync := s.Synchronizer(online)

	if sync == s.remote {
		// Linking is optional; the selection logs the failure itself.
		_ = sel.LoadCandidates(ctx, s.settings.Profile)
	}

	opts := wizard.Options{
		Uploader: s.batcher,
		Saver:    sync,
		Links:    sel,
		Logger:   s.log,
	}
	if existing != nil {
		return wizard.NewEdit(ctx, opts, *existing)
	}
	return wizard.NewAdd(ctx, opts)
}
