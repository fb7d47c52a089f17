// Package credentials stores issued verifiable credentials.
package credentials

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

func (r *PostgresRepository) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	query :=
		`INSERT INTO credentials (owner_id, template_type, value_json)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, cred.OwnerID, cred.TemplateType, cred.ValueJSON).
		Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cred, nil
}

func (r *PostgresRepository) DeleteByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (int64, error) {
	query := `DELETE FROM credentials WHERE owner_id = $1 AND template_type = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, t)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}

func (r *PostgresRepository) GetByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (*models.Credential, error) {
	query :=
		`SELECT id, owner_id, template_type, value_json, created_at, updated_at
		 FROM credentials
		 WHERE owner_id = $1 AND template_type = $2
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, ownerID, t).
		Scan(&c.ID, &c.OwnerID, &c.TemplateType, &c.ValueJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	query :=
		`SELECT id, owner_id, template_type, value_json, created_at, updated_at
		 FROM credentials
		 WHERE owner_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		c := &models.Credential{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.TemplateType, &c.ValueJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
