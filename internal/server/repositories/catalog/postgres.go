// Package catalog reads the static credential template catalog seeded by
// migrations: templates, the sections grouping them, and the third-party
// services consuming them.
package catalog

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

func (r *PostgresRepository) scanTemplates(rows *sql.Rows) ([]*models.VCTemplate, error) {
	defer rows.Close()

	var result []*models.VCTemplate
	for rows.Next() {
		t := &models.VCTemplate{}
		if err := rows.Scan(&t.ID, &t.Type, &t.Title, &t.Description, &t.Issuer); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Templates(ctx context.Context) ([]*models.VCTemplate, error) {
	query :=
		`SELECT id, type, title, description, issuer FROM vc_templates
		 ORDER BY title
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanTemplates(rows)
}

func (r *PostgresRepository) TemplateByID(ctx context.Context, id string) (*models.VCTemplate, error) {
	query :=
		`SELECT id, type, title, description, issuer FROM vc_templates
		 WHERE id = $1
		 `

	t := &models.VCTemplate{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Type, &t.Title, &t.Description, &t.Issuer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) TemplateByType(ctx context.Context, tt models.TemplateType) (*models.VCTemplate, error) {
	query :=
		`SELECT id, type, title, description, issuer FROM vc_templates
		 WHERE type = $1
		 `

	t := &models.VCTemplate{}
	err := r.db.QueryRowContext(ctx, query, tt).
		Scan(&t.ID, &t.Type, &t.Title, &t.Description, &t.Issuer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) scanSections(rows *sql.Rows) ([]*models.TemplateSection, error) {
	defer rows.Close()

	var result []*models.TemplateSection
	for rows.Next() {
		s := &models.TemplateSection{}
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Sections(ctx context.Context) ([]*models.TemplateSection, error) {
	query :=
		`SELECT id, title FROM vc_template_sections
		 ORDER BY title
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanSections(rows)
}

func (r *PostgresRepository) SectionsForTemplate(ctx context.Context, templateID string) ([]*models.TemplateSection, error) {
	query :=
		`SELECT s.id, s.title FROM vc_template_sections s
		 JOIN vc_template_section_links l ON l.section_id = s.id
		 WHERE l.template_id = $1
		 ORDER BY s.title
		 `

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanSections(rows)
}

func (r *PostgresRepository) scanServices(rows *sql.Rows) ([]*models.Service, error) {
	defer rows.Close()

	var result []*models.Service
	for rows.Next() {
		s := &models.Service{}
		if err := rows.Scan(&s.ID, &s.Name, &s.LogoURL, &s.Description, &s.Pros); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Services(ctx context.Context, templateID string) ([]*models.Service, error) {
	if templateID == "" {
		query :=
			`SELECT id, name, logo_url, description, pros FROM services
			 ORDER BY name
			 `

		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		return r.scanServices(rows)
	}

	query :=
		`SELECT s.id, s.name, s.logo_url, s.description, s.pros FROM services s
		 JOIN vc_template_service_links l ON l.service_id = s.id
		 WHERE l.template_id = $1
		 ORDER BY s.name
		 `

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanServices(rows)
}

func (r *PostgresRepository) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	query :=
		`SELECT id, name, logo_url, description, pros FROM services
		 WHERE id = $1
		 `

	s := &models.Service{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.LogoURL, &s.Description, &s.Pros)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) TemplatesForService(ctx context.Context, serviceID string) ([]*models.VCTemplate, error) {
	query :=
		`SELECT t.id, t.type, t.title, t.description, t.issuer FROM vc_templates t
		 JOIN vc_template_service_links l ON l.template_id = t.id
		 WHERE l.service_id = $1
		 ORDER BY t.title
		 `

	rows, err := r.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanTemplates(rows)
}
