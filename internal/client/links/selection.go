// Package links holds the composer's link step: candidate posts and
// competitions with local filtering, the selected ids, and tagged people with
// a debounced search-as-you-type.
package links

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/codec"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"golang.org/x/sync/errgroup"
)

const DefaultDebounce = 250 * time.Millisecond

// Searcher is the catalog side of the gateway.
type Searcher interface {
	SearchCandidatePosts(ctx context.Context, authorID string) ([]models.PostSummary, error)
	SearchCandidateCompetitions(ctx context.Context) ([]models.CompetitionSummary, error)
	SearchPeople(ctx context.Context, query string) ([]models.PersonSummary, error)
}

// ResultsFunc receives people search results for query.
type ResultsFunc func(query string, results []models.PersonSummary)

type Selection struct {
	searcher Searcher
	log      logging.Logger
	debounce time.Duration

	mu           sync.Mutex
	posts        []models.PostSummary
	competitions []models.CompetitionSummary
	peopleFound  []models.PersonSummary

	selectedPosts        []string
	selectedCompetitions []string
	people               []string

	seq       uint64
	timer     *time.Timer
	cancel    context.CancelFunc
	onResults ResultsFunc
	closed    bool
}

func New(searcher Searcher, log logging.Logger, debounce time.Duration) *Selection {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Selection{
		searcher: searcher,
		log:      log.With("module", "links"),
		debounce: debounce,
	}
}

// LoadCandidates fetches the posts authored by authorID and the
// competitions the user can link to.
func (s *Selection) LoadCandidates(ctx context.Context, authorID string) error {
	var (
		posts []models.PostSummary
		comps []models.CompetitionSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.searcher.SearchCandidatePosts(gctx, authorID)
		return err
	})
	g.Go(func() error {
		var err error
		comps, err = s.searcher.SearchCandidateCompetitions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn(ctx, "loading link candidates failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.posts = posts
	s.competitions = comps
	s.mu.Unlock()
	return nil
}

// Seed installs the selections of an entry being edited.
func (s *Selection) Seed(postIDs, eventIDs, people []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPosts = dedupe(postIDs)
	s.selectedCompetitions = dedupe(eventIDs)
	s.people = codec.NormalizePeople(people)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// toggle removes id when present and appends it otherwise. It reports
// whether id is selected afterwards. Blank ids are ignored.
func toggle(set *[]string, id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	if i := slices.Index(*set, id); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
		return false
	}
	*set = append(*set, id)
	return true
}

func (s *Selection) TogglePost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(&s.selectedPosts, id)
}

func (s *Selection) ToggleCompetition(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(&s.selectedCompetitions, id)
}

func (s *Selection) SelectedPosts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selectedPosts)
}

func (s *Selection) SelectedCompetitions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selectedCompetitions)
}

// AddPerson tags name. It is a no-op for blank names and exact duplicates.
func (s *Selection) AddPerson(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.people, name) {
		return false
	}
	s.people = append(s.people, name)
	return true
}

func (s *Selection) RemovePerson(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.people, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	s.people = slices.Delete(s.people, i, i+1)
	return true
}

func (s *Selection) People() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.people)
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}

// FilterPosts matches q case-insensitively against post titles.
func (s *Selection) FilterPosts(q string) []models.PostSummary {
	q = strings.ToLower(strings.TrimSpace(q))
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.PostSummary{}
	for _, p := range s.posts {
		if contains(p.Title, q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterCompetitions matches q case-insensitively against competition names.
func (s *Selection) FilterCompetitions(q string) []models.CompetitionSummary {
	q = strings.ToLower(strings.TrimSpace(q))
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.CompetitionSummary{}
	for _, c := range s.competitions {
		if contains(c.Name, q) {
			out = append(out, c)
		}
	}
	return out
}

// OnPeopleResults registers fn to be called with every accepted search result.
func (s *Selection) OnPeopleResults(fn ResultsFunc) {
	s.mu.Lock()
	s.onResults = fn
	s.mu.Unlock()
}

func (s *Selection) PeopleResults() []models.PersonSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.peopleFound)
}

// SearchPeople schedules a people search for q after the debounce delay.
// A newer call supersedes any pending or in-flight one; results of
// superseded searches are dropped.
func (s *Selection) SearchPeople(ctx context.Context, q string) {
	q = strings.TrimSpace(q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopLocked()
	s.seq++
	seq := s.seq

	if q == "" {
		s.peopleFound = nil
		return
	}

	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.timer = time.AfterFunc(s.debounce, func() {
		s.runSearch(sctx, seq, q)
	})
}

func (s *Selection) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Selection) runSearch(ctx context.Context, seq uint64, q string) {
	res, err := s.searcher.SearchPeople(ctx, q)

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		s.log.Debug(ctx, "stale people search dropped", "query", q)
		return
	}
	if err != nil {
		s.mu.Unlock()
		if ctx.Err() == nil {
			s.log.Warn(ctx, "people search failed", "query", q, "error", err)
		}
		return
	}
	s.peopleFound = res
	fn := s.onResults
	s.mu.Unlock()

	if fn != nil {
		fn(q, slices.Clone(res))
	}
}

// Close stops pending searches. Later searches are ignored.
func (s *Selection) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopLocked()
}
