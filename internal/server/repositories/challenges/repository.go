package challenges

import (
	"context"
	"time"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	// UpsertLogin stores a sign-in challenge for the DID, replacing any
	// prior one. Only the newest challenge can verify.
	UpsertLogin(ctx context.Context, did, message string, expiresAt time.Time) error
	GetLogin(ctx context.Context, did string) (*models.LoginChallenge, error)
	// ConsumeLogin deletes the challenge iff it still holds exactly this
	// message, reporting whether this caller won the delete. Under
	// concurrent verification at most one caller sees true.
	ConsumeLogin(ctx context.Context, did, message string) (bool, error)

	UpsertOneTime(ctx context.Context, accountID, message string) error
	GetOneTime(ctx context.Context, accountID string) (*models.OneTimeMessage, error)
	ConsumeOneTime(ctx context.Context, accountID, message string) (bool, error)
}
