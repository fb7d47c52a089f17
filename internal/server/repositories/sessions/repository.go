package sessions

import (
	"context"
	"time"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	// GetByToken returns the session for the token. Sessions past their
	// expiry are reported as not found; the row is left in place for GC.
	GetByToken(ctx context.Context, token string, now time.Time) (*models.Session, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Session, error)
	// DeleteByIDs removes the listed sessions belonging to accountID and
	// returns how many rows went away. IDs of other accounts are ignored.
	DeleteByIDs(ctx context.Context, accountID string, ids []string) (int64, error)
}
