package credentials

import (
	"context"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cred *models.Credential) (*models.Credential, error)
	// DeleteByOwnerAndType removes every credential of the (owner, type)
	// pair; reissue is replace, not update.
	DeleteByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (int64, error)
	GetByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (*models.Credential, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Credential, error)
}
