package services

import (
	"context"
	"testing"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T, rm *fakeRepoManager) *CatalogService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewCatalogService(db, rm)
}

func TestCatalogTemplates(t *testing.T) {
	rm := newFakeRepoManager()
	rm.catalog.templatesOut = []*models.VCTemplate{
		{ID: "t1", Type: models.ProofOfTonAddress, Title: "Proof of TON address"},
	}

	svc := newCatalogService(t, rm)

	list, err := svc.Templates(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ProofOfTonAddress, list[0].Type)
}

func TestCatalogTemplates_NoSession(t *testing.T) {
	svc := newCatalogService(t, newFakeRepoManager())

	_, err := svc.Templates(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCatalogTemplate_View(t *testing.T) {
	rm := newFakeRepoManager()
	rm.catalog.templateOut = &models.VCTemplate{ID: "t1", Type: models.ProofOfEthAddress}
	rm.catalog.sectionsOut = []*models.TemplateSection{{ID: "s1", Title: "DeFi Ownership"}}
	rm.catalog.servicesOut = []*models.Service{{ID: "svc1", Name: "TON Swap"}}

	svc := newCatalogService(t, rm)

	view, err := svc.Template(context.Background(), testSession(), "t1")
	require.NoError(t, err)

	assert.Equal(t, "t1", view.Template.ID)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "DeFi Ownership", view.Sections[0].Title)
	require.Len(t, view.Services, 1)
	assert.Equal(t, "TON Swap", view.Services[0].Name)
	assert.Equal(t, "t1", rm.catalog.servicesTemplateID)
}

func TestCatalogTemplate_NotFound(t *testing.T) {
	rm := newFakeRepoManager()
	rm.catalog.templateErr = common.ErrNotFound

	svc := newCatalogService(t, rm)

	_, err := svc.Template(context.Background(), testSession(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCatalogService_WithTemplates(t *testing.T) {
	rm := newFakeRepoManager()
	rm.catalog.serviceOut = &models.Service{ID: "svc1", Name: "PokerTON"}
	rm.catalog.forServiceOut = []*models.VCTemplate{{ID: "t1", Type: models.ProofOfStateID}}

	svc := newCatalogService(t, rm)

	service, templates, err := svc.Service(context.Background(), testSession(), "svc1")
	require.NoError(t, err)

	assert.Equal(t, "PokerTON", service.Name)
	require.Len(t, templates, 1)
	assert.Equal(t, models.ProofOfStateID, templates[0].Type)
}

func TestCatalogService_NotFound(t *testing.T) {
	rm := newFakeRepoManager()
	rm.catalog.serviceErr = common.ErrNotFound

	svc := newCatalogService(t, rm)

	_, _, err := svc.Service(context.Background(), testSession(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
