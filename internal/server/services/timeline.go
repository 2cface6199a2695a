package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
	maxTimelineItems     = 1000
)

// TimelineService reads and replaces whole milestone collections. The
// gateway, not the client, issues milestone ids.
type TimelineService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	newID       func() string
}

func NewTimelineService(db *sql.DB, m repomanager.RepositoryManager) *TimelineService {
	return &TimelineService{db: db, repomanager: m, newID: uuid.NewString}
}

// Fetch returns the subject's collection. An empty subject or "self" means
// the caller.
func (s *TimelineService) Fetch(ctx context.Context, callerID, subject string) (*models.Timeline, error) {
	userID, err := resolveSubject(callerID, subject)
	if err != nil {
		return nil, err
	}
	tl, err := s.repomanager.Timelines(s.db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading timeline: %w", err)
	}
	return tl, nil
}

// Replace validates items, issues ids to new or malformed ones and writes
// the collection if revision is still current.
func (s *TimelineService) Replace(ctx context.Context, userID string, items []models.TimelineItem, revision int64) (*models.Timeline, error) {
	if revision < 0 {
		return nil, fmt.Errorf("%w: negative revision", common.ErrorValidation)
	}
	if len(items) > maxTimelineItems {
		return nil, fmt.Errorf("%w: at most %d items", common.ErrorValidation, maxTimelineItems)
	}

	out := make([]models.TimelineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", common.ErrorValidation, i, err)
		}
		item = normalizeItem(item)
		if _, dup := seen[item.ID]; dup || !isUUID(item.ID) {
			item.ID = s.newID()
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}

	newRevision, err := s.repomanager.Timelines(s.db).Replace(ctx, userID, out, revision)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error saving timeline: %w", err)
	}
	return &models.Timeline{UserID: userID, Items: out, Revision: newRevision}, nil
}

func resolveSubject(callerID, subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || subject == common.SelfProfile {
		return callerID, nil
	}
	if !isUUID(subject) {
		return "", common.ErrorNotFound
	}
	return subject, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && s != ""
}

func validateItem(item models.TimelineItem) error {
	return validation.ValidateStruct(&item,
		validation.Field(&item.Year, validation.Required, validation.Min(1), validation.Max(9999)),
		validation.Field(&item.Title, validation.Required, validation.RuneLength(1, maxTitleLength)),
		validation.Field(&item.Description, validation.RuneLength(0, maxDescriptionLength)),
		validation.Field(&item.EventDate, validation.By(isoDate)),
		validation.Field(&item.MediaIDs, validation.Each(validation.By(uuidString))),
		validation.Field(&item.CoverMediaID, validation.By(optionalUUID)),
	)
}

func isoDate(v any) error {
	p, _ := v.(*string)
	if p == nil {
		return nil
	}
	d, err := civil.ParseDate(*p)
	if err != nil || !d.IsValid() {
		return errors.New("must be a YYYY-MM-DD date")
	}
	return nil
}

func uuidString(v any) error {
	s, _ := v.(string)
	if !isUUID(s) {
		return errors.New("must be a media id")
	}
	return nil
}

func optionalUUID(v any) error {
	p, _ := v.(*string)
	if p == nil || *p == "" {
		return nil
	}
	return uuidString(*p)
}

// normalizeItem makes list fields non-nil so stored documents stay uniform.
// LinkedPeople is left alone: nil marks a row that keeps people inside the
// description.
func normalizeItem(item models.TimelineItem) models.TimelineItem {
	if item.MediaIDs == nil {
		item.MediaIDs = []string{}
	}
	if item.LinkedPostIDs == nil {
		item.LinkedPostIDs = []string{}
	}
	if item.LinkedEventIDs == nil {
		item.LinkedEventIDs = []string{}
	}
	if item.CoverMediaID != nil && *item.CoverMediaID == "" {
		item.CoverMediaID = nil
	}
	return item
}
