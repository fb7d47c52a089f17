// This file implements CatalogService, the read side of the credential
// template catalog. Catalog rows are seeded by migrations and never mutated
// at runtime.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/repositories/repomanager"
)

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// TemplateView is a catalog template together with its sections and the
// services that accept it.
type TemplateView struct {
	Template *models.VCTemplate
	Sections []*models.TemplateSection
	Services []*models.Service
}

func (s *CatalogService) Templates(ctx context.Context, session *models.Session) ([]*models.VCTemplate, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	list, err := s.repomanager.Catalog(s.db).Templates(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}
	return list, nil
}

// Template returns one catalog template with its sections and services.
func (s *CatalogService) Template(ctx context.Context, session *models.Session, id string) (*TemplateView, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}

	repo := s.repomanager.Catalog(s.db)

	template, err := repo.TemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	sections, err := repo.SectionsForTemplate(ctx, template.ID)
	if err != nil {
		return nil, common.ErrInternal
	}

	services, err := repo.Services(ctx, template.ID)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &TemplateView{Template: template, Sections: sections, Services: services}, nil
}

func (s *CatalogService) Sections(ctx context.Context, session *models.Session) ([]*models.TemplateSection, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	list, err := s.repomanager.Catalog(s.db).Sections(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}
	return list, nil
}

// Services lists catalog services, optionally only those linked to the given
// template.
func (s *CatalogService) Services(ctx context.Context, session *models.Session, templateID string) ([]*models.Service, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	list, err := s.repomanager.Catalog(s.db).Services(ctx, templateID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return list, nil
}

// Service returns one catalog service and the templates it accepts.
func (s *CatalogService) Service(ctx context.Context, session *models.Session, id string) (*models.Service, []*models.VCTemplate, error) {
	if session == nil {
		return nil, nil, common.ErrForbidden
	}

	repo := s.repomanager.Catalog(s.db)

	service, err := repo.ServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, common.ErrInternal
	}

	templates, err := repo.TemplatesForService(ctx, service.ID)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	return service, templates, nil
}
