package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func templateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "type", "title", "description", "issuer"}).
		AddRow("t1", "ProofOfTonAddress", "Proof of TON address", "desc", "EVERSCALE.id")
}

func TestTemplates(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, type, title, description, issuer FROM vc_templates`).
		WillReturnRows(templateRows())

	list, err := repo.Templates(context.Background())
	if err != nil {
		t.Fatalf("Templates error: %v", err)
	}
	if len(list) != 1 || list[0].Type != models.ProofOfTonAddress {
		t.Fatalf("unexpected templates: %+v", list)
	}
}

func TestTemplateByType_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, type, title, description, issuer FROM vc_templates`).
		WithArgs(models.ProofOfStateID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.TemplateByType(context.Background(), models.ProofOfStateID)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSectionsForTemplate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title"}).AddRow("s1", "State Documents")
	mock.ExpectQuery(`JOIN vc_template_section_links`).
		WithArgs("t1").
		WillReturnRows(rows)

	list, err := repo.SectionsForTemplate(context.Background(), "t1")
	if err != nil {
		t.Fatalf("SectionsForTemplate error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "State Documents" {
		t.Fatalf("unexpected sections: %+v", list)
	}
}

func TestServices_AllVsFiltered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	all := sqlmock.NewRows([]string{"id", "name", "logo_url", "description", "pros"}).
		AddRow("svc1", "TON Swap", "", "", "").
		AddRow("svc2", "PokerTON", "", "", "")
	mock.ExpectQuery(`SELECT id, name, logo_url, description, pros FROM services`).
		WillReturnRows(all)

	list, err := repo.Services(context.Background(), "")
	if err != nil {
		t.Fatalf("Services error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 services, got %d", len(list))
	}

	filtered := sqlmock.NewRows([]string{"id", "name", "logo_url", "description", "pros"}).
		AddRow("svc1", "TON Swap", "", "", "")
	mock.ExpectQuery(`JOIN vc_template_service_links`).
		WithArgs("t1").
		WillReturnRows(filtered)

	list, err = repo.Services(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Services (filtered) error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "TON Swap" {
		t.Fatalf("unexpected services: %+v", list)
	}
}

func TestTemplatesForService(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`JOIN vc_template_service_links`).
		WithArgs("svc1").
		WillReturnRows(templateRows())

	list, err := repo.TemplatesForService(context.Background(), "svc1")
	if err != nil {
		t.Fatalf("TemplatesForService error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 template, got %d", len(list))
	}
}
