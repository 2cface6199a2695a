package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) PostsByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	query := `
		SELECT id, author_id, title
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return collect(ctx, r.db, query, []any{authorID, limit}, func(rows *sql.Rows) (models.Post, error) {
		var p models.Post
		err := rows.Scan(&p.ID, &p.AuthorID, &p.Title)
		return p, err
	})
}

func (r *PostgresRepository) Competitions(ctx context.Context, limit int) ([]models.Competition, error) {
	query := `
		SELECT id, name
		FROM competitions
		ORDER BY starts_on DESC NULLS LAST, name
		LIMIT $1
	`
	return collect(ctx, r.db, query, []any{limit}, func(rows *sql.Rows) (models.Competition, error) {
		var c models.Competition
		err := rows.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (r *PostgresRepository) SearchPeople(ctx context.Context, q string, limit int) ([]models.Person, error) {
	query := `
		SELECT id, display_name
		FROM people
		WHERE display_name ILIKE $1 ESCAPE '\'
		ORDER BY display_name
		LIMIT $2
	`
	return collect(ctx, r.db, query, []any{"%" + escapeLike(q) + "%", limit}, func(rows *sql.Rows) (models.Person, error) {
		var p models.Person
		err := rows.Scan(&p.ID, &p.DisplayName)
		return p, err
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func collect[T any](ctx context.Context, db dbx.DBTX, query string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
