// Package challenges stores the transient sign-in and proof-of-address
// challenges. Both kinds live under a unique key (DID or account id) with
// last-write-wins upserts and atomic check-and-delete consumption.
package challenges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/dbx"
	"github.com/everscaleid/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertLogin(ctx context.Context, did, message string, expiresAt time.Time) error {
	query :=
		`INSERT INTO login_challenges (did, message, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (did) DO UPDATE SET message = EXCLUDED.message, expires_at = EXCLUDED.expires_at
		 `

	if _, err := r.db.ExecContext(ctx, query, did, message, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetLogin(ctx context.Context, did string) (*models.LoginChallenge, error) {
	query :=
		`SELECT did, message, expires_at FROM login_challenges
		 WHERE did = $1
		 `

	c := &models.LoginChallenge{}
	err := r.db.QueryRowContext(ctx, query, did).Scan(&c.DID, &c.Message, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ConsumeLogin(ctx context.Context, did, message string) (bool, error) {
	// The message condition makes the delete a check-and-delete: a challenge
	// that was overwritten or already consumed no longer matches.
	query := `DELETE FROM login_challenges WHERE did = $1 AND message = $2`

	res, err := r.db.ExecContext(ctx, query, did, message)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}

func (r *PostgresRepository) UpsertOneTime(ctx context.Context, accountID, message string) error {
	query :=
		`INSERT INTO one_time_messages (account_id, message)
		 VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE SET message = EXCLUDED.message
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, message); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOneTime(ctx context.Context, accountID string) (*models.OneTimeMessage, error) {
	query :=
		`SELECT account_id, message FROM one_time_messages
		 WHERE account_id = $1
		 `

	m := &models.OneTimeMessage{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&m.AccountID, &m.Message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) ConsumeOneTime(ctx context.Context, accountID, message string) (bool, error) {
	query := `DELETE FROM one_time_messages WHERE account_id = $1 AND message = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, message)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}
