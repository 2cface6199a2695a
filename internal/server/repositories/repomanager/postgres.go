package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/server/migrations"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/media"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/timelines"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Timelines(db dbx.DBTX) timelines.Repository {
	return timelines.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Media(db dbx.DBTX) media.Repository {
	return media.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	return catalog.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
