// Package media uploads picked assets in one batch and resolves the returned
// ids into descriptors, and keeps the in-progress gallery.
package media

import (
	"context"
	"sync/atomic"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Uploader is the media side of the gateway.
type Uploader interface {
	UploadMediaBatch(ctx context.Context, files []models.UploadFile) ([]string, error)
	FetchMediaByID(ctx context.Context, id string) (*models.MediaDescriptor, error)
}

type Batcher struct {
	uploader    Uploader
	log         logging.Logger
	concurrency int
	uploading   atomic.Bool
}

func NewBatcher(uploader Uploader, log logging.Logger, concurrency int) *Batcher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Batcher{
		uploader:    uploader,
		log:         log.With("module", "media"),
		concurrency: concurrency,
	}
}

// Uploading reports whether a batch is in flight.
func (b *Batcher) Uploading() bool {
	return b.uploading.Load()
}

// UploadAssets sends assets as one batch and fetches a descriptor for every
// returned id, one request per id. Descriptors come back in id order. Any
// failure fails the whole batch with *UploadError.
func (b *Batcher) UploadAssets(ctx context.Context, assets []models.LocalAsset) ([]models.MediaDescriptor, error) {
	if !b.uploading.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer b.uploading.Store(false)

	if len(assets) == 0 {
		return []models.MediaDescriptor{}, nil
	}

	files := make([]models.UploadFile, 0, len(assets))
	for _, a := range assets {
		files = append(files, models.UploadFile{
			URI:      a.URI,
			Name:     assetName(a),
			MimeType: DetectMimeType(a),
		})
	}

	ids, err := b.uploader.UploadMediaBatch(ctx, files)
	if err != nil {
		b.log.Error(ctx, "batch upload failed", "files", len(files), "error", err)
		return nil, &UploadError{Stage: "upload", Err: err}
	}

	out, err := b.fetchAll(ctx, ids)
	if err != nil {
		b.log.Error(ctx, "media resolve failed", "error", err)
		return nil, err
	}

	b.log.Info(ctx, "media uploaded", "count", len(out))
	return out, nil
}

func (b *Batcher) fetchAll(ctx context.Context, ids []string) ([]models.MediaDescriptor, error) {
	out := make([]models.MediaDescriptor, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			d, err := b.uploader.FetchMediaByID(gctx, id)
			if err == nil && d == nil {
				err = errNoDescriptor
			}
			if err != nil {
				return &UploadError{Stage: "resolve", ID: id, Err: err}
			}
			out[i] = *d
			if out[i].ID == "" {
				out[i].ID = id
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve fetches descriptors for ids, keeping a bare descriptor for any id
// that cannot be resolved.
func (b *Batcher) Resolve(ctx context.Context, ids []string) []models.MediaDescriptor {
	out := make([]models.MediaDescriptor, len(ids))

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			d, err := b.uploader.FetchMediaByID(ctx, id)
			if err != nil || d == nil {
				b.log.Warn(ctx, "media not resolved", "id", id, "error", err)
				out[i] = models.MediaDescriptor{ID: id, Kind: models.MediaImage}
				return nil
			}
			out[i] = *d
			out[i].ID = id
			return nil
		})
	}
	_ = g.Wait()

	return out
}
