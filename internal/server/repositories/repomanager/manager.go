// Package repomanager vends repositories bound to a connection or a
// transaction, so services can group writes with dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/media"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/timelines"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Timelines(db dbx.DBTX) timelines.Repository
	Media(db dbx.DBTX) media.Repository
	Catalog(db dbx.DBTX) catalog.Repository
}
