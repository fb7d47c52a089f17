package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

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

func TestCredentialCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("vc-1", now, now)
	mock.ExpectQuery(`INSERT INTO credentials`).
		WithArgs("acc-1", models.ProofOfStateID, `{"x":1}`).
		WillReturnRows(rows)

	c, err := repo.Create(context.Background(), &models.Credential{
		OwnerID: "acc-1", TemplateType: models.ProofOfStateID, ValueJSON: `{"x":1}`,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.ID != "vc-1" {
		t.Fatalf("unexpected credential: %+v", c)
	}
}

func TestDeleteByOwnerAndType(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM credentials WHERE owner_id = \$1 AND template_type = \$2`).
		WithArgs("acc-1", models.ProofOfStateID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := repo.DeleteByOwnerAndType(context.Background(), "acc-1", models.ProofOfStateID)
	if err != nil {
		t.Fatalf("DeleteByOwnerAndType error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deleted, got %d", count)
	}
}

func TestGetByOwnerAndType_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, owner_id, template_type, value_json`).
		WithArgs("acc-1", models.ProofOfTonAddress).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByOwnerAndType(context.Background(), "acc-1", models.ProofOfTonAddress)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "template_type", "value_json", "created_at", "updated_at"}).
		AddRow("vc-1", "acc-1", "ProofOfStateId", "{}", now, now).
		AddRow("vc-2", "acc-1", "ProofOfEthAddress", "{}", now, now)
	mock.ExpectQuery(`SELECT id, owner_id, template_type, value_json`).
		WithArgs("acc-1").
		WillReturnRows(rows)

	list, err := repo.ListByOwner(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(list))
	}
	if list[0].TemplateType != models.ProofOfStateID {
		t.Fatalf("unexpected type: %v", list[0].TemplateType)
	}
}
