package client

import (
	"context"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
)

// Client is everything the timeline client needs from the gateway.
type Client interface {
	Close() error
	Register(ctx context.Context, username string, salt []byte, key []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, key []byte) error
	Logout()
	Authenticated() bool
	Ping(ctx context.Context) error

	FetchTimeline(ctx context.Context, subject string) (*models.TimelinePage, error)
	ReplaceTimeline(ctx context.Context, items []models.TimelineEntry, revision int64) (*models.TimelinePage, error)

	UploadMediaBatch(ctx context.Context, files []models.UploadFile) ([]string, error)
	FetchMediaByID(ctx context.Context, id string) (*models.MediaDescriptor, error)

	SearchCandidatePosts(ctx context.Context, authorID string) ([]models.PostSummary, error)
	SearchCandidateCompetitions(ctx context.Context) ([]models.CompetitionSummary, error)
	SearchPeople(ctx context.Context, query string) ([]models.PersonSummary, error)
}
