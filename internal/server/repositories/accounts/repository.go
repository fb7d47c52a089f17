package accounts

import (
	"context"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	// UpsertByDID creates the account for the DID if it does not exist yet
	// (status ACTIVE) and returns the stored row either way. An existing
	// account keeps its status untouched.
	UpsertByDID(ctx context.Context, did string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByDID(ctx context.Context, did string) (*models.Account, error)
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
}
