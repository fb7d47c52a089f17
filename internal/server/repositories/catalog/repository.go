package catalog

import (
	"context"

	"github.com/everscaleid/backend/internal/server/models"
)

type Repository interface {
	Templates(ctx context.Context) ([]*models.VCTemplate, error)
	TemplateByID(ctx context.Context, id string) (*models.VCTemplate, error)
	TemplateByType(ctx context.Context, t models.TemplateType) (*models.VCTemplate, error)
	Sections(ctx context.Context) ([]*models.TemplateSection, error)
	SectionsForTemplate(ctx context.Context, templateID string) ([]*models.TemplateSection, error)
	// Services lists catalog services; a non-empty templateID narrows the
	// result to services linked to that template.
	Services(ctx context.Context, templateID string) ([]*models.Service, error)
	ServiceByID(ctx context.Context, id string) (*models.Service, error)
	TemplatesForService(ctx context.Context, serviceID string) ([]*models.VCTemplate, error)
}
