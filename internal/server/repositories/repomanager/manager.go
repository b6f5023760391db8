package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/paints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/userpaints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Paints(db dbx.DBTX) paints.Repository
	UserPaints(db dbx.DBTX) userpaints.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	Users(db dbx.DBTX) users.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
