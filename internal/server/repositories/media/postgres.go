package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Media) error {
	query := `
		INSERT INTO media (id, owner_id, storage_key, name, mime_type, kind, size, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.OwnerID, m.StorageKey, m.Name, m.MimeType, m.Kind, m.Size, string(m.Status)).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, ownerID, id string) error {
	query := `
		UPDATE media SET status = $3
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID, string(models.MediaUploaded))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Media, error) {
	query := `
		SELECT id, owner_id, storage_key, name, mime_type, kind, size, status, created_at
		FROM media
		WHERE id = $1
	`
	m := &models.Media{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.OwnerID, &m.StorageKey, &m.Name, &m.MimeType, &m.Kind, &m.Size, &status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	m.Status = models.MediaStatus(status)
	return m, nil
}
