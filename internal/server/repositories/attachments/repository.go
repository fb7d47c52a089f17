package attachments

import (
	"context"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, att *models.Attachment) (*models.Attachment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Attachment, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Attachment, error)
	DeleteByID(ctx context.Context, ownerID, id string) (int64, error)
}
