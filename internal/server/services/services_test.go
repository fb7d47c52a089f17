package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/everscaleid/backend/internal/dbx"
	"github.com/everscaleid/backend/internal/logging"
	"github.com/everscaleid/backend/internal/server/config"
	"github.com/everscaleid/backend/internal/server/ledger"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/repositories/accounts"
	"github.com/everscaleid/backend/internal/server/repositories/attachments"
	"github.com/everscaleid/backend/internal/server/repositories/catalog"
	"github.com/everscaleid/backend/internal/server/repositories/challenges"
	"github.com/everscaleid/backend/internal/server/repositories/credentials"
	"github.com/everscaleid/backend/internal/server/repositories/sessions"
)

// Fixed ed25519 seed used across service tests; the matching public key is
// derived with cryptox.PublicKeyHex where needed.
const testSeedHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServiceSecretKey = testSeedHex
	cfg.ServicePublicKey = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	return cfg
}

func testSession() *models.Session {
	return &models.Session{
		ID:        "sess-1",
		AccountID: "acc-1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// --- fake repositories ---

type fakeAccountsRepo struct {
	upsertOut *models.Account
	upsertErr error

	getOut *models.Account
	getErr error

	statusErr error
}

func (f *fakeAccountsRepo) UpsertByDID(ctx context.Context, did string) (*models.Account, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.upsertOut, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAccountsRepo) GetByDID(ctx context.Context, did string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAccountsRepo) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	return f.statusErr
}

type fakeSessionsRepo struct {
	created   []*models.Session
	createErr error

	getOut *models.Session
	getErr error

	listOut []*models.Session
	listErr error

	deletedAccountID string
	deletedIDs       []string
	deleteCount      int64
	deleteErr        error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = "sess-new"
	s.CreatedAt = time.Now()
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeSessionsRepo) GetByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSessionsRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeSessionsRepo) DeleteByIDs(ctx context.Context, accountID string, ids []string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedAccountID = accountID
	f.deletedIDs = ids
	return f.deleteCount, nil
}

type fakeChallengesRepo struct {
	upsertedDID     string
	upsertedMessage string
	upsertLoginErr  error

	loginOut *models.LoginChallenge
	loginErr error

	consumeLoginWon bool
	consumeLoginErr error

	oneTimeUpsertedAccount string
	oneTimeUpsertedMessage string
	upsertOneTimeErr       error

	oneTimeOut *models.OneTimeMessage
	oneTimeErr error

	consumeOneTimeWon bool
	consumeOneTimeErr error
}

func (f *fakeChallengesRepo) UpsertLogin(ctx context.Context, did, message string, expiresAt time.Time) error {
	if f.upsertLoginErr != nil {
		return f.upsertLoginErr
	}
	f.upsertedDID = did
	f.upsertedMessage = message
	return nil
}

func (f *fakeChallengesRepo) GetLogin(ctx context.Context, did string) (*models.LoginChallenge, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeChallengesRepo) ConsumeLogin(ctx context.Context, did, message string) (bool, error) {
	return f.consumeLoginWon, f.consumeLoginErr
}

func (f *fakeChallengesRepo) UpsertOneTime(ctx context.Context, accountID, message string) error {
	if f.upsertOneTimeErr != nil {
		return f.upsertOneTimeErr
	}
	f.oneTimeUpsertedAccount = accountID
	f.oneTimeUpsertedMessage = message
	return nil
}

func (f *fakeChallengesRepo) GetOneTime(ctx context.Context, accountID string) (*models.OneTimeMessage, error) {
	if f.oneTimeErr != nil {
		return nil, f.oneTimeErr
	}
	return f.oneTimeOut, nil
}

func (f *fakeChallengesRepo) ConsumeOneTime(ctx context.Context, accountID, message string) (bool, error) {
	return f.consumeOneTimeWon, f.consumeOneTimeErr
}

type fakeCredentialsRepo struct {
	deletedOwner string
	deletedType  models.TemplateType
	deleteCount  int64
	deleteErr    error

	created   *models.Credential
	createErr error

	getOut *models.Credential
	getErr error

	listOut []*models.Credential
	listErr error
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = "vc-new"
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.created = c
	return c, nil
}

func (f *fakeCredentialsRepo) DeleteByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedOwner = ownerID
	f.deletedType = t
	return f.deleteCount, nil
}

func (f *fakeCredentialsRepo) GetByOwnerAndType(ctx context.Context, ownerID string, t models.TemplateType) (*models.Credential, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeCredentialsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeCatalogRepo struct {
	templatesOut []*models.VCTemplate
	templateOut  *models.VCTemplate
	templateErr  error

	sectionsOut []*models.TemplateSection
	sectionsErr error

	servicesOut        []*models.Service
	servicesTemplateID string
	servicesErr        error

	serviceOut *models.Service
	serviceErr error

	forServiceOut []*models.VCTemplate
	forServiceErr error
}

func (f *fakeCatalogRepo) Templates(ctx context.Context) ([]*models.VCTemplate, error) {
	return f.templatesOut, f.templateErr
}

func (f *fakeCatalogRepo) TemplateByID(ctx context.Context, id string) (*models.VCTemplate, error) {
	if f.templateErr != nil {
		return nil, f.templateErr
	}
	return f.templateOut, nil
}

func (f *fakeCatalogRepo) TemplateByType(ctx context.Context, t models.TemplateType) (*models.VCTemplate, error) {
	if f.templateErr != nil {
		return nil, f.templateErr
	}
	return f.templateOut, nil
}

func (f *fakeCatalogRepo) Sections(ctx context.Context) ([]*models.TemplateSection, error) {
	return f.sectionsOut, f.sectionsErr
}

func (f *fakeCatalogRepo) SectionsForTemplate(ctx context.Context, templateID string) ([]*models.TemplateSection, error) {
	return f.sectionsOut, f.sectionsErr
}

func (f *fakeCatalogRepo) Services(ctx context.Context, templateID string) ([]*models.Service, error) {
	if f.servicesErr != nil {
		return nil, f.servicesErr
	}
	f.servicesTemplateID = templateID
	return f.servicesOut, nil
}

func (f *fakeCatalogRepo) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.serviceOut, nil
}

func (f *fakeCatalogRepo) TemplatesForService(ctx context.Context, serviceID string) ([]*models.VCTemplate, error) {
	return f.forServiceOut, f.forServiceErr
}

type fakeAttachmentsRepo struct {
	created   *models.Attachment
	createErr error

	listOut []*models.Attachment
	listErr error

	getOut *models.Attachment
	getErr error

	deleteCount int64
	deleteErr   error
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "att-new"
	a.CreatedAt = time.Now()
	f.created = a
	return a, nil
}

func (f *fakeAttachmentsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Attachment, error) {
	return f.listOut, f.listErr
}

func (f *fakeAttachmentsRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Attachment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAttachmentsRepo) DeleteByID(ctx context.Context, ownerID, id string) (int64, error) {
	return f.deleteCount, f.deleteErr
}

// fakeRepoManager hands out the configured fakes regardless of the DBTX, so
// transactional code paths exercise the same instances.
type fakeRepoManager struct {
	accounts    *fakeAccountsRepo
	sessions    *fakeSessionsRepo
	challenges  *fakeChallengesRepo
	credentials *fakeCredentialsRepo
	catalog     *fakeCatalogRepo
	attachments *fakeAttachmentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:    &fakeAccountsRepo{},
		sessions:    &fakeSessionsRepo{},
		challenges:  &fakeChallengesRepo{},
		credentials: &fakeCredentialsRepo{},
		catalog:     &fakeCatalogRepo{},
		attachments: &fakeAttachmentsRepo{},
	}
}

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository       { return m.accounts }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository       { return m.sessions }
func (m *fakeRepoManager) Challenges(db dbx.DBTX) challenges.Repository   { return m.challenges }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentials.Repository { return m.credentials }
func (m *fakeRepoManager) Catalog(db dbx.DBTX) catalog.Repository         { return m.catalog }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachments.Repository { return m.attachments }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// --- fake ledger gateway ---

type fakeGateway struct {
	publicKey  string
	resolveErr error

	custodians    []string
	custodiansErr error

	issuedDoc  *ledger.DIDDocument
	issueAddr  string
	issueErr   error
	issuedOwns string
}

func (g *fakeGateway) ResolveDIDPublicKey(ctx context.Context, addr string) (string, error) {
	if g.resolveErr != nil {
		return "", g.resolveErr
	}
	return g.publicKey, nil
}

func (g *fakeGateway) MultisigCustodians(ctx context.Context, wallet string) ([]string, error) {
	return g.custodians, g.custodiansErr
}

func (g *fakeGateway) IssueDIDDocument(ctx context.Context, ownerPublicKey string, doc *ledger.DIDDocument) (string, error) {
	if g.issueErr != nil {
		return "", g.issueErr
	}
	g.issuedDoc = doc
	g.issuedOwns = ownerPublicKey
	return g.issueAddr, nil
}
