package http

import (
	"encoding/json"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// --- auth ---

type beginLoginRequest struct {
	DID string `json:"did"`
}

func (s *Server) handleBeginLogin(c *fiber.Ctx) error {
	var req beginLoginRequest
	if err := c.BodyParser(&req); err != nil || req.DID == "" {
		return writeError(c, common.ErrInvalidArgument)
	}

	message, err := s.auth.BeginLogin(c.UserContext(), req.DID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

type completeLoginRequest struct {
	DID          string `json:"did"`
	SignatureHex string `json:"signature_hex"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	IPAddr    string `json:"ip_addr"`
	UserAgent string `json:"user_agent"`
	Client    string `json:"client,omitempty"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

func sessionToResponse(session *models.Session, client string) sessionResponse {
	return sessionResponse{
		ID:        session.ID,
		IPAddr:    session.IPAddr,
		UserAgent: session.UserAgent,
		Client:    client,
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func accountToResponse(account *models.Account) fiber.Map {
	return fiber.Map{
		"id":     account.ID,
		"did":    account.DID,
		"status": account.Status,
	}
}

func (s *Server) handleCompleteLogin(c *fiber.Ctx) error {
	var req completeLoginRequest
	if err := c.BodyParser(&req); err != nil || req.DID == "" || req.SignatureHex == "" {
		return writeError(c, common.ErrInvalidArgument)
	}

	meta := services.RequestMeta{
		IPAddr:    clientIP(c),
		UserAgent: string(c.Request().Header.UserAgent()),
	}

	result, err := s.auth.CompleteLogin(c.UserContext(), req.DID, req.SignatureHex, meta)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"account": accountToResponse(result.Account),
		"session": sessionToResponse(result.Session, ""),
		"token":   result.Token,
	})
}

type createDIDDocumentRequest struct {
	OwnerPublicKey string `json:"owner_public_key"`
}

func (s *Server) handleCreateDIDDocument(c *fiber.Ctx) error {
	var req createDIDDocumentRequest
	if err := c.BodyParser(&req); err != nil || req.OwnerPublicKey == "" {
		return writeError(c, common.ErrInvalidArgument)
	}

	address, err := s.auth.CreateDIDDocument(c.UserContext(), req.OwnerPublicKey)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": address})
}

func (s *Server) handleWhoami(c *fiber.Ctx) error {
	account, err := s.auth.Whoami(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(accountToResponse(account))
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	list, err := s.auth.SessionsForAccount(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]sessionResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, sessionToResponse(item.Session, item.Client))
	}
	return c.JSON(fiber.Map{"sessions": resp})
}

type logoutRequest struct {
	SessionIDs []string `json:"session_ids"`
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	var req logoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, common.ErrInvalidArgument)
		}
	}

	count, err := s.auth.Logout(c.UserContext(), currentSession(c), req.SessionIDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"deleted": count})
}

// --- credentials ---

func (s *Server) handleGenerateOneTimeMessage(c *fiber.Ctx) error {
	message, err := s.credentials.GenerateOneTimeMessage(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

type tonAddressProofRequest struct {
	WalletAddress string `json:"wallet_address"`
	SignatureHex  string `json:"signature_hex"`
}

func (s *Server) handleIssueTonAddressProof(c *fiber.Ctx) error {
	var req tonAddressProofRequest
	if err := c.BodyParser(&req); err != nil || req.WalletAddress == "" || req.SignatureHex == "" {
		return writeError(c, common.ErrInvalidArgument)
	}

	vc, err := s.credentials.IssueTonAddressProof(c.UserContext(), currentSession(c), req.WalletAddress, req.SignatureHex)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"value": vc})
}

func (s *Server) handleIssueCredential(c *fiber.Ctx) error {
	t := models.TemplateType(c.Params("type"))

	vc, err := s.credentials.Issue(c.UserContext(), currentSession(c), t)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"value": vc})
}

func credentialToResponse(cred *models.Credential) fiber.Map {
	// The stored envelope is already JSON; embed it untouched.
	return fiber.Map{
		"id":            cred.ID,
		"template_type": cred.TemplateType,
		"value":         json.RawMessage(cred.ValueJSON),
		"created_at":    cred.CreatedAt,
	}
}

func (s *Server) handleListCredentials(c *fiber.Ctx) error {
	list, err := s.credentials.CredentialsForAccount(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]fiber.Map, 0, len(list))
	for _, cred := range list {
		resp = append(resp, credentialToResponse(cred))
	}
	return c.JSON(fiber.Map{"credentials": resp})
}

func (s *Server) handleGetCredential(c *fiber.Ctx) error {
	t := models.TemplateType(c.Params("type"))

	cred, err := s.credentials.CredentialForTemplate(c.UserContext(), currentSession(c), t)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(credentialToResponse(cred))
}

// --- catalog ---

func templateToResponse(t *models.VCTemplate) fiber.Map {
	return fiber.Map{
		"id":          t.ID,
		"type":        t.Type,
		"title":       t.Title,
		"description": t.Description,
		"issuer":      t.Issuer,
	}
}

func (s *Server) handleListTemplates(c *fiber.Ctx) error {
	list, err := s.catalog.Templates(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]fiber.Map, 0, len(list))
	for _, t := range list {
		resp = append(resp, templateToResponse(t))
	}
	return c.JSON(fiber.Map{"templates": resp})
}

func (s *Server) handleGetTemplate(c *fiber.Ctx) error {
	view, err := s.catalog.Template(c.UserContext(), currentSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"template": templateToResponse(view.Template),
		"sections": view.Sections,
		"services": view.Services,
	})
}

func (s *Server) handleListSections(c *fiber.Ctx) error {
	list, err := s.catalog.Sections(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sections": list})
}

func (s *Server) handleListServices(c *fiber.Ctx) error {
	list, err := s.catalog.Services(c.UserContext(), currentSession(c), c.Query("template_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"services": list})
}

func (s *Server) handleGetService(c *fiber.Ctx) error {
	service, templates, err := s.catalog.Service(c.UserContext(), currentSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]fiber.Map, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, templateToResponse(t))
	}
	return c.JSON(fiber.Map{"service": service, "templates": resp})
}

// --- attachments ---

type beginUploadRequest struct {
	TemplateType string `json:"template_type"`
	FileName     string `json:"file_name"`
}

func (s *Server) handleBeginUpload(c *fiber.Ctx) error {
	var req beginUploadRequest
	if err := c.BodyParser(&req); err != nil || req.TemplateType == "" {
		return writeError(c, common.ErrInvalidArgument)
	}

	att, url, err := s.attachments.BeginUpload(c.UserContext(), currentSession(c),
		models.TemplateType(req.TemplateType), req.FileName)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachment": fiber.Map{
			"id":            att.ID,
			"template_type": att.TemplateType,
			"file_name":     att.FileName,
		},
		"upload_url": url,
	})
}

func (s *Server) handleListAttachments(c *fiber.Ctx) error {
	list, err := s.attachments.List(c.UserContext(), currentSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"attachments": list})
}

func (s *Server) handleAttachmentURL(c *fiber.Ctx) error {
	url, err := s.attachments.DownloadURL(c.UserContext(), currentSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"download_url": url})
}

func (s *Server) handleDeleteAttachment(c *fiber.Ctx) error {
	removed, err := s.attachments.Delete(c.UserContext(), currentSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": removed})
}
