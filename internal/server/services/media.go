package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	maxUploadBatch = 20
	maxUploadSize  = 512 << 20
)

// ObjectStore signs direct-to-bucket URLs.
type ObjectStore interface {
	NewKey(ownerID string) string
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// DescriptorCache remembers resolved descriptors for less time than the
// signed URLs inside them stay valid.
type DescriptorCache interface {
	Get(ctx context.Context, id string) (*gatewayapi.Media, bool, error)
	Set(ctx context.Context, m *gatewayapi.Media) error
}

// MediaService runs the two-step upload (prepare, then complete) and
// resolves media ids to signed download URLs.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	cache       DescriptorCache
	log         logging.Logger
	newID       func() string
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, cache DescriptorCache, log logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		store:       store,
		cache:       cache,
		log:         log.With("module", "media_service"),
		newID:       uuid.NewString,
	}
}

type uploadSpec gatewayapi.UploadSpec

func (u uploadSpec) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&u.MimeType, validation.Required, validation.By(mediaMime)),
		validation.Field(&u.Size, validation.Min(int64(0)), validation.Max(int64(maxUploadSize))),
	)
}

func mediaMime(v any) error {
	if kindOfMime(v.(string)) == "" {
		return errors.New("must be an image or video type")
	}
	return nil
}

// kindOfMime maps a content type to image or video, or "" when it is
// neither.
func kindOfMime(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return "image"
	case strings.HasPrefix(mt, "video/"):
		return "video"
	}
	return ""
}

// Prepare registers pending media rows and returns one signed PUT URL per
// file, in request order.
func (s *MediaService) Prepare(ctx context.Context, ownerID string, files []gatewayapi.UploadSpec) ([]gatewayapi.UploadTarget, error) {
	if len(files) == 0 {
		return []gatewayapi.UploadTarget{}, nil
	}
	if len(files) > maxUploadBatch {
		return nil, fmt.Errorf("%w: at most %d files per batch", common.ErrorValidation, maxUploadBatch)
	}
	for i, f := range files {
		if err := uploadSpec(f).Validate(); err != nil {
			return nil, fmt.Errorf("%w: file %d: %v", common.ErrorValidation, i, err)
		}
	}

	rows := make([]*models.Media, 0, len(files))
	targets := make([]gatewayapi.UploadTarget, 0, len(files))
	for _, f := range files {
		m := &models.Media{
			ID:         s.newID(),
			OwnerID:    ownerID,
			StorageKey: s.store.NewKey(ownerID),
			Name:       f.Name,
			MimeType:   f.MimeType,
			Kind:       kindOfMime(f.MimeType),
			Size:       f.Size,
			Status:     models.MediaPending,
		}
		url, err := s.store.PresignPut(ctx, m.StorageKey, m.MimeType)
		if err != nil {
			return nil, fmt.Errorf("error signing upload: %w", err)
		}
		rows = append(rows, m)
		targets = append(targets, gatewayapi.UploadTarget{MediaID: m.ID, URL: url})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Media(tx)
		for _, m := range rows {
			if err := repo.Create(ctx, m); err != nil {
				return fmt.Errorf("error registering media: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// Complete marks the caller's media as uploaded. Either all ids are
// accepted or none are.
func (s *MediaService) Complete(ctx context.Context, ownerID string, ids []string) ([]gatewayapi.UploadResult, error) {
	for _, id := range ids {
		if !isUUID(id) {
			return nil, common.ErrorNotFound
		}
	}

	results := make([]gatewayapi.UploadResult, 0, len(ids))
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Media(tx)
		for _, id := range ids {
			if err := repo.MarkUploaded(ctx, ownerID, id); err != nil {
				return err
			}
			results = append(results, gatewayapi.UploadResult{MediaID: id})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error completing upload: %w", err)
	}
	return results, nil
}

// Get resolves an uploaded media id. Pending uploads are reported as not
// found. Cache failures are logged and otherwise ignored.
func (s *MediaService) Get(ctx context.Context, id string) (*gatewayapi.Media, error) {
	if !isUUID(id) {
		return nil, common.ErrorNotFound
	}

	if m, ok, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn(ctx, "descriptor cache read failed", "id", id, "error", err)
	} else if ok {
		return m, nil
	}

	row, err := s.repomanager.Media(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading media: %w", err)
	}
	if row.Status != models.MediaUploaded {
		return nil, common.ErrorNotFound
	}

	url, err := s.store.PresignGet(ctx, row.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("error signing download: %w", err)
	}

	m := &gatewayapi.Media{ID: row.ID, Kind: row.Kind, URLs: []string{url}}
	if err := s.cache.Set(ctx, m); err != nil {
		s.log.Warn(ctx, "descriptor cache write failed", "id", id, "error", err)
	}
	return m, nil
}
