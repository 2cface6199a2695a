package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/repomanager"
)

const (
	postsLimit        = 100
	competitionsLimit = 100
	peopleLimit       = 20
)

// CatalogService lists link candidates for the milestone composer.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// Posts lists the author's recent posts, newest first. Unknown authors have
// none.
func (s *CatalogService) Posts(ctx context.Context, callerID, authorID string) ([]models.Post, error) {
	id, err := resolveSubject(callerID, authorID)
	if err != nil {
		return []models.Post{}, nil
	}
	posts, err := s.repomanager.Catalog(s.db).PostsByAuthor(ctx, id, postsLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *CatalogService) Competitions(ctx context.Context) ([]models.Competition, error) {
	cs, err := s.repomanager.Catalog(s.db).Competitions(ctx, competitionsLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing competitions: %w", err)
	}
	return cs, nil
}

// People searches display names. A blank query matches nobody.
func (s *CatalogService) People(ctx context.Context, query string) ([]models.Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Person{}, nil
	}
	if len(query) > 100 {
		return nil, fmt.Errorf("%w: query too long", common.ErrorValidation)
	}
	people, err := s.repomanager.Catalog(s.db).SearchPeople(ctx, query, peopleLimit)
	if err != nil {
		return nil, fmt.Errorf("error searching people: %w", err)
	}
	return people, nil
}
