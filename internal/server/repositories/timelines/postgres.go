package timelines

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Timeline, error) {
	query := `
		SELECT items, revision
		FROM timelines
		WHERE user_id = $1
	`

	var raw []byte
	tl := &models.Timeline{UserID: userID, Items: []models.TimelineItem{}}

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw, &tl.Revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tl, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tl.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	if tl.Items == nil {
		tl.Items = []models.TimelineItem{}
	}
	return tl, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, userID string, items []models.TimelineItem, expected int64) (int64, error) {
	if items == nil {
		items = []models.TimelineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode items: %w", err)
	}

	var query string
	args := []any{userID, string(raw)}

	if expected == 0 {
		query = `
			INSERT INTO timelines (user_id, items, revision)
			VALUES ($1, $2, 1)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING revision
		`
	} else {
		query = `
			UPDATE timelines
			SET items = $2, revision = revision + 1, updated_at = now()
			WHERE user_id = $1 AND revision = $3
			RETURNING revision
		`
		args = append(args, expected)
	}

	var revision int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrVersionConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return revision, nil
}
