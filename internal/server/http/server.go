// Package http exposes the engine over a Fiber JSON API. Handlers stay thin:
// they parse requests, call into the service layer, and map sentinel errors
// to status codes.
package http

import (
	"context"

	"github.com/everscaleid/backend/internal/logging"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// AuthService is the slice of the auth engine consumed by the transport.
type AuthService interface {
	BeginLogin(ctx context.Context, did string) (string, error)
	CompleteLogin(ctx context.Context, did, signatureHex string, meta services.RequestMeta) (*services.LoginResult, error)
	ResolveSession(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, session *models.Session, sessionIDs []string) (int64, error)
	Whoami(ctx context.Context, session *models.Session) (*models.Account, error)
	SessionsForAccount(ctx context.Context, session *models.Session) ([]*services.SessionInfo, error)
	CreateDIDDocument(ctx context.Context, ownerPublicKey string) (string, error)
}

type CredentialService interface {
	GenerateOneTimeMessage(ctx context.Context, session *models.Session) (string, error)
	Issue(ctx context.Context, session *models.Session, t models.TemplateType) (*models.VerifiableCredential, error)
	IssueTonAddressProof(ctx context.Context, session *models.Session, walletAddress, signatureHex string) (*models.VerifiableCredential, error)
	CredentialsForAccount(ctx context.Context, session *models.Session) ([]*models.Credential, error)
	CredentialForTemplate(ctx context.Context, session *models.Session, t models.TemplateType) (*models.Credential, error)
}

type CatalogService interface {
	Templates(ctx context.Context, session *models.Session) ([]*models.VCTemplate, error)
	Template(ctx context.Context, session *models.Session, id string) (*services.TemplateView, error)
	Sections(ctx context.Context, session *models.Session) ([]*models.TemplateSection, error)
	Services(ctx context.Context, session *models.Session, templateID string) ([]*models.Service, error)
	Service(ctx context.Context, session *models.Session, id string) (*models.Service, []*models.VCTemplate, error)
}

type AttachmentService interface {
	BeginUpload(ctx context.Context, session *models.Session, t models.TemplateType, fileName string) (*models.Attachment, string, error)
	DownloadURL(ctx context.Context, session *models.Session, id string) (string, error)
	List(ctx context.Context, session *models.Session) ([]*models.Attachment, error)
	Delete(ctx context.Context, session *models.Session, id string) (bool, error)
}

// Server is the HTTP front of the everid backend.
type Server struct {
	app         *fiber.App
	addr        string
	auth        AuthService
	credentials CredentialService
	catalog     CatalogService
	attachments AttachmentService
	logger      logging.Logger
}

// NewServer wires the routes and middleware onto a fresh Fiber app.
func NewServer(addr string, auth AuthService, credentials CredentialService,
	catalog CatalogService, attachments AttachmentService, logger logging.Logger) *Server {

	s := &Server{
		app:         fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr:        addr,
		auth:        auth,
		credentials: credentials,
		catalog:     catalog,
		attachments: attachments,
		logger:      logger.With("module", "http"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use(s.sessionMiddleware)

	api := s.app.Group("/api/v1")

	api.Post("/login/begin", s.handleBeginLogin)
	api.Post("/login/complete", s.handleCompleteLogin)
	api.Post("/did-documents", s.handleCreateDIDDocument)

	api.Get("/account", s.handleWhoami)
	api.Get("/sessions", s.handleListSessions)
	api.Delete("/sessions", s.handleLogout)

	api.Post("/messages/one-time", s.handleGenerateOneTimeMessage)

	api.Get("/credentials", s.handleListCredentials)
	api.Post("/credentials/ton-address", s.handleIssueTonAddressProof)
	api.Get("/credentials/:type", s.handleGetCredential)
	api.Post("/credentials/:type", s.handleIssueCredential)

	api.Get("/catalog/templates", s.handleListTemplates)
	api.Get("/catalog/templates/:id", s.handleGetTemplate)
	api.Get("/catalog/sections", s.handleListSections)
	api.Get("/catalog/services", s.handleListServices)
	api.Get("/catalog/services/:id", s.handleGetService)

	api.Post("/attachments", s.handleBeginUpload)
	api.Get("/attachments", s.handleListAttachments)
	api.Get("/attachments/:id/url", s.handleAttachmentURL)
	api.Delete("/attachments/:id", s.handleDeleteAttachment)
}

// Run blocks serving requests until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "http server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
