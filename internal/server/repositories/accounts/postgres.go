// Package accounts stores DID-bound accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) UpsertByDID(ctx context.Context, did string) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (did, status)
		 VALUES ($1, $2)
		 ON CONFLICT (did) DO UPDATE SET updated_at = now()
		 RETURNING id, did, status, created_at, updated_at
		 `

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, did, models.AccountStatusActive).
		Scan(&acc.ID, &acc.DID, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, did, status, created_at, updated_at FROM accounts
		 WHERE id = $1
		 `

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&acc.ID, &acc.DID, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) GetByDID(ctx context.Context, did string) (*models.Account, error) {
	query :=
		`SELECT id, did, status, created_at, updated_at FROM accounts
		 WHERE did = $1
		 `

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, did).
		Scan(&acc.ID, &acc.DID, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	query :=
		`UPDATE accounts SET status = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
