// Package repomanager vends repository implementations bound to a database
// handle, so services can run several repositories inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/everscaleid/backend/internal/dbx"
	"github.com/everscaleid/backend/internal/server/repositories/accounts"
	"github.com/everscaleid/backend/internal/server/repositories/attachments"
	"github.com/everscaleid/backend/internal/server/repositories/catalog"
	"github.com/everscaleid/backend/internal/server/repositories/challenges"
	"github.com/everscaleid/backend/internal/server/repositories/credentials"
	"github.com/everscaleid/backend/internal/server/repositories/sessions"
)

// RepositoryManager returns repositories bound to the provided DBTX, which
// may be a *sql.DB or an open transaction.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Challenges(db dbx.DBTX) challenges.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
