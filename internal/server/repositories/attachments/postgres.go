// Package attachments stores metadata for credential evidence files kept in
// object storage. Every query is scoped by owner.
package attachments

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

func (r *PostgresRepository) Create(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	query :=
		`INSERT INTO attachments (owner_id, template_type, storage_key, file_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		att.OwnerID, att.TemplateType, att.StorageKey, att.FileName).
		Scan(&att.ID, &att.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return att, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Attachment, error) {
	query :=
		`SELECT id, owner_id, template_type, storage_key, file_name, created_at
		 FROM attachments
		 WHERE owner_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.TemplateType, &a.StorageKey, &a.FileName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Attachment, error) {
	query :=
		`SELECT id, owner_id, template_type, storage_key, file_name, created_at
		 FROM attachments
		 WHERE owner_id = $1 AND id = $2
		 `

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).
		Scan(&a.ID, &a.OwnerID, &a.TemplateType, &a.StorageKey, &a.FileName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, ownerID, id string) (int64, error) {
	query := `DELETE FROM attachments WHERE owner_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
